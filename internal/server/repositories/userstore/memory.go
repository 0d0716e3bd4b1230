// Package userstore provides the user store backends: in-memory, PostgreSQL,
// SQLite and Redis. All of them satisfy users.Repository.
package userstore

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

// MemoryRepository keeps users in a map. Used for tests and local runs.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]users.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]users.User)}
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) Create(ctx context.Context, user *users.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// ctx may have expired while waiting for the lock.
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := r.users[user.Email]; ok {
		return common.ErrAlreadyExists
	}
	r.users[user.Email] = *user
	return nil
}
