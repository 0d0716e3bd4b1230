package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

// SQLiteRepository stores users in SQLite. Create uses ON CONFLICT DO NOTHING
// and treats zero affected rows as an existing email.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, user *users.User) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (email, full_name, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, user.Email, user.FullName, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return common.ErrAlreadyExists
	}
	return nil
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	user := &users.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT email, full_name, password_hash, created_at FROM users WHERE email = ?`, email,
	).Scan(&user.Email, &user.FullName, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
