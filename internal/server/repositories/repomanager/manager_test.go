package repomanager

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/userstore"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

func TestNew_Memory(t *testing.T) {
	m, err := New(context.Background(), &config.Config{Store: config.StoreMemory})
	require.NoError(t, err)
	defer m.Close()

	_, ok := m.Users().(*userstore.MemoryRepository)
	assert.True(t, ok)
	assert.NoError(t, m.Close())
}

func TestNew_SQLiteRunsMigrations(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "auth.db")
	ctx := context.Background()

	m, err := New(ctx, &config.Config{Store: config.StoreSQLite, DatabaseDSN: dsn})
	require.NoError(t, err)

	repo := m.Users()
	u := &users.User{FullName: "A", Email: "a@x.com", PasswordHash: "h", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, m.Close())

	// reopening applies no migration twice and keeps the data
	m, err = New(ctx, &config.Config{Store: config.StoreSQLite, DatabaseDSN: dsn})
	require.NoError(t, err)
	defer m.Close()

	got, err := m.Users().GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "A", got.FullName)

	err = m.Users().Create(ctx, u)
	assert.True(t, errors.Is(err, common.ErrAlreadyExists))
}

func TestNew_UnknownStore(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Store: "firestore"})
	assert.Error(t, err)
}

func TestNew_BadRedisURL(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Store: config.StoreRedis, RedisURL: "http://not-redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis url")
}

func TestNew_SQLiteCreatesDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "auth.db")

	m, err := New(context.Background(), &config.Config{Store: config.StoreSQLite, DatabaseDSN: "file:" + path})
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Users().GetByEmail(context.Background(), "nobody@x.com")
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}
