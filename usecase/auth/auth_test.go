package auth_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todo/domain"
	boltInfra "github.com/fastygo/todo/internal/infrastructure/bolt"
	"github.com/fastygo/todo/internal/testutil"
	boltRepo "github.com/fastygo/todo/repository/bolt"
	"github.com/fastygo/todo/repository/sqlite"
	authUC "github.com/fastygo/todo/usecase/auth"
)

func newUseCase(t *testing.T, cfg authUC.Config) *authUC.UseCase {
	t.Helper()
	users := sqlite.NewUserRepository(testutil.OpenSQLite(t))

	db, err := boltInfra.Open(filepath.Join(t.TempDir(), "sessions.db"), boltRepo.SessionBucket)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return authUC.New(users, boltRepo.NewSessionRepository(db, time.Hour), cfg, nil)
}

func TestLogin_RegistersOnceAndOpensSessions(t *testing.T) {
	uc := newUseCase(t, authUC.Config{DevLogin: true})
	ctx := context.Background()

	first, s1, err := uc.Login(ctx, "  Alice@Example.com ", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", first.Email)
	assert.Equal(t, "alice", first.Name)

	second, s2, err := uc.Login(ctx, "alice@example.com", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.NotEqual(t, s1.ID, s2.ID)

	user, err := uc.UserForSession(ctx, s1.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, user.ID)
}

func TestLogin_RejectsBadEmail(t *testing.T) {
	uc := newUseCase(t, authUC.Config{DevLogin: true})

	_, _, err := uc.Login(context.Background(), "not-an-email", time.Hour)
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("email", domain.ValidationRequired))
}

func TestSessions_RefreshAndRevoke(t *testing.T) {
	uc := newUseCase(t, authUC.Config{DevLogin: true})
	ctx := context.Background()

	_, session, err := uc.Login(ctx, "bob@example.com", time.Minute)
	require.NoError(t, err)

	refreshed, err := uc.RefreshSession(ctx, session.ID, 2*time.Hour)
	require.NoError(t, err)
	assert.True(t, refreshed.ExpiresAt.After(session.ExpiresAt))

	require.NoError(t, uc.RevokeSession(ctx, session.ID))
	_, err = uc.UserForSession(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestCreateSession_UnknownUser(t *testing.T) {
	uc := newUseCase(t, authUC.Config{DevLogin: true})
	_, err := uc.CreateSession(context.Background(), "missing", time.Hour)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestTokens(t *testing.T) {
	uc := newUseCase(t, authUC.Config{Secret: "s3cret", Issuer: "todo", DevLogin: true})
	ctx := context.Background()

	user, _, err := uc.Login(ctx, "carol@example.com", time.Hour)
	require.NoError(t, err)

	token, err := uc.IssueToken(user, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := uc.UserForToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	t.Run("expired", func(t *testing.T) {
		expired, err := uc.IssueToken(user, -time.Minute)
		require.NoError(t, err)
		_, err = uc.UserForToken(ctx, expired)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	})

	t.Run("foreign issuer", func(t *testing.T) {
		claims := jwt.MapClaims{"user_id": user.ID, "iss": "elsewhere", "exp": time.Now().Add(time.Hour).Unix()}
		foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
		require.NoError(t, err)
		_, err = uc.UserForToken(ctx, foreign)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newUseCase(t, authUC.Config{Secret: "other", Issuer: "todo", DevLogin: true})
		_, err := other.UserForToken(ctx, token)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
	})
}

func TestTokens_DisabledWithoutSecret(t *testing.T) {
	uc := newUseCase(t, authUC.Config{DevLogin: true})

	token, err := uc.IssueToken(&domain.User{ID: "u"}, time.Hour)
	require.NoError(t, err)
	assert.Empty(t, token)

	_, err = uc.UserForToken(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_DisabledOutsideDevelopment(t *testing.T) {
	users := sqlite.NewUserRepository(testutil.OpenSQLite(t))
	alice := testutil.CreateUser(t, users, "alice@example.com")

	db, err := boltInfra.Open(filepath.Join(t.TempDir(), "sessions.db"), boltRepo.SessionBucket)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	uc := authUC.New(users, boltRepo.NewSessionRepository(db, time.Hour), authUC.Config{Secret: "s3cret"}, nil)
	assert.False(t, uc.DevLoginEnabled())

	for _, email := range []string{alice.Email, "new@example.com"} {
		user, session, err := uc.Login(context.Background(), email, time.Hour)
		assert.ErrorIs(t, err, authUC.ErrDevLoginDisabled, email)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeForbidden))
		assert.Nil(t, user)
		assert.Nil(t, session)
	}

	_, err = users.GetByEmail(context.Background(), "new@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
