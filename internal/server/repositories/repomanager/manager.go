// Package repomanager opens the configured user store backend, runs its
// schema migrations (via goose) and hands out the repository.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/filex"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/migrations"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/userstore"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

// Manager owns the store connection for the lifetime of the process.
type Manager struct {
	users users.Repository
	close func() error
}

// Users returns the user repository for the configured backend.
func (m *Manager) Users() users.Repository {
	return m.users
}

// Close releases the underlying connection pool, if any.
func (m *Manager) Close() error {
	if m.close == nil {
		return nil
	}
	return m.close()
}

// New opens the backend selected by cfg.Store.
func New(ctx context.Context, cfg *config.Config) (*Manager, error) {
	switch cfg.Store {
	case config.StoreMemory:
		return &Manager{users: userstore.NewMemoryRepository()}, nil
	case config.StorePostgres:
		return newPostgres(ctx, cfg.DatabaseDSN)
	case config.StoreSQLite:
		return newSQLite(ctx, cfg.DatabaseDSN)
	case config.StoreRedis:
		return newRedis(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func newPostgres(ctx context.Context, dsn string) (*Manager, error) {
	db, err := dbx.Open(ctx, "pgx", dsn, dbx.PoolOptions{MaxOpenConns: 20, MaxIdleConns: 5})
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db, goose.DialectPostgres, migrations.Postgres()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Manager{users: userstore.NewPostgresRepository(db), close: db.Close}, nil
}

func newSQLite(ctx context.Context, dsn string) (*Manager, error) {
	if path := filex.SQLitePath(dsn); path != "" {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	// one connection: sqlite serialises writers anyway and this avoids SQLITE_BUSY
	db, err := dbx.Open(ctx, "sqlite", dsn, dbx.PoolOptions{MaxOpenConns: 1})
	if err != nil {
		return nil, err
	}
	if err := RunMigrations(ctx, db, goose.DialectSQLite3, migrations.SQLite()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Manager{users: userstore.NewSQLiteRepository(db), close: db.Close}, nil
}

func newRedis(ctx context.Context, url string) (*Manager, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping error: %w", err)
	}
	return &Manager{users: userstore.NewRedisRepository(client), close: client.Close}, nil
}

// RunMigrations applies every pending migration in fsys to db.
func RunMigrations(ctx context.Context, db *sql.DB, dialect goose.Dialect, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("migrations up: %w", err)
	}
	return nil
}
