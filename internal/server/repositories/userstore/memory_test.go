package userstore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/users"
)

func sampleUser(email string) *users.User {
	return &users.User{
		FullName:     "Alice",
		Email:        email,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// exerciseRepository checks the users.Repository contract against any backend.
func exerciseRepository(t *testing.T, repo users.Repository) {
	t.Helper()
	ctx := context.Background()

	_, err := repo.GetByEmail(ctx, "a@x.com")
	require.True(t, errors.Is(err, common.ErrorNotFound), "want ErrorNotFound, got %v", err)

	require.NoError(t, repo.Create(ctx, sampleUser("a@x.com")))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FullName)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)
	assert.True(t, got.CreatedAt.Equal(sampleUser("").CreatedAt), "created_at round trip: %v", got.CreatedAt)

	dup := sampleUser("a@x.com")
	dup.FullName = "Mallory"
	err = repo.Create(ctx, dup)
	require.True(t, errors.Is(err, common.ErrAlreadyExists), "want ErrAlreadyExists, got %v", err)

	got, err = repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FullName, "existing record must not be overwritten")
}

// exerciseConcurrentCreate fires n Creates for one email at once.
func exerciseConcurrentCreate(t *testing.T, repo users.Repository, n int) {
	t.Helper()

	var (
		wg       sync.WaitGroup
		ok       atomic.Int32
		conflict atomic.Int32
		start    = make(chan struct{})
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := repo.Create(context.Background(), sampleUser("race@x.com"))
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, common.ErrAlreadyExists):
				conflict.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(n-1), conflict.Load())
}

func TestMemoryRepository_Contract(t *testing.T) {
	exerciseRepository(t, NewMemoryRepository())
}

func TestMemoryRepository_ConcurrentCreate(t *testing.T) {
	exerciseConcurrentCreate(t, NewMemoryRepository(), 32)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, sampleUser("a@x.com")))

	got, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	got.PasswordHash = "tampered"

	again, err := repo.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$hash", again.PasswordHash)
}

func TestMemoryRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Create(ctx, sampleUser("a@x.com")), context.Canceled)
	_, err := repo.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = repo.GetByEmail(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_CreateCancelledWhileWaiting(t *testing.T) {
	repo := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())

	repo.mu.Lock()
	done := make(chan error, 1)
	go func() {
		done <- repo.Create(ctx, sampleUser("late@x.com"))
	}()
	cancel()
	repo.mu.Unlock()

	assert.ErrorIs(t, <-done, context.Canceled)
	_, err := repo.GetByEmail(context.Background(), "late@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
