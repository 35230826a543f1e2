package bolt_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todo/domain"
	boltInfra "github.com/fastygo/todo/internal/infrastructure/bolt"
	boltRepo "github.com/fastygo/todo/repository/bolt"
)

func newRepo(t *testing.T) boltRepo.Repository {
	t.Helper()
	db, err := boltInfra.Open(filepath.Join(t.TempDir(), "sessions.db"), boltRepo.SessionBucket)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return boltRepo.NewSessionRepository(db, time.Hour)
}

func TestSessionRepository_SaveGetDelete(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	session := &domain.Session{ID: "s-1", UserID: "u-1"}
	require.NoError(t, repo.Save(ctx, session))
	assert.False(t, session.ExpiresAt.IsZero(), "default ttl applied")

	got, err := repo.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.UserID)

	require.NoError(t, repo.Delete(ctx, "s-1"))
	_, err = repo.Get(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionRepository_SaveRejectsBlankID(t *testing.T) {
	repo := newRepo(t)
	assert.ErrorIs(t, repo.Save(context.Background(), &domain.Session{}), domain.ErrInvalidPayload)
}

func TestSessionRepository_ExpiredIsHiddenAndPurged(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "old", UserID: "u", CreatedAt: past, ExpiresAt: past.Add(time.Minute)}))
	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "live", UserID: "u"}))

	_, err := repo.Get(ctx, "old")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	purged, err := repo.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	_, err = repo.Get(ctx, "live")
	require.NoError(t, err)
}

func TestSessionRepository_Extend(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &domain.Session{ID: "s", UserID: "u"}))
	require.NoError(t, repo.Extend(ctx, "s", 7200))

	got, err := repo.Get(ctx, "s")
	require.NoError(t, err)
	assert.True(t, got.ExpiresAt.After(time.Now().Add(90*time.Minute)))

	assert.ErrorIs(t, repo.Extend(ctx, "missing", 60), domain.ErrSessionNotFound)
}
