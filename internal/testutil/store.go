// Package testutil holds fixtures shared by store-backed tests.
package testutil

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fastygo/todo/domain"
	sqliteInfra "github.com/fastygo/todo/internal/infrastructure/sqlite"
	"github.com/fastygo/todo/repository"
)

// OpenSQLite returns a fresh in-memory database closed on test cleanup.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sqliteInfra.Open(context.Background(), sqliteInfra.MemoryPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Clock is a deterministic clock that advances by Step on every reading.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// NewClock starts at a fixed instant and advances one second per reading.
func NewClock() *Clock {
	return &Clock{
		now:  time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		Step: time.Second,
	}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.Step)
	return c.now
}

// Freeze stops the clock from advancing.
func (c *Clock) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Step = 0
}

// CreateUser stores a user with the given email and returns it.
func CreateUser(t testing.TB, users repository.UserRepository, email string) *domain.User {
	t.Helper()

	user := &domain.User{Email: email, Name: email}
	require.NoError(t, users.Upsert(context.Background(), user))
	return user
}
