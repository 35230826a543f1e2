package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// Config controls how accounts sign in. An empty Secret disables bearer
// tokens. DevLogin enables the email-only login used in development; without
// it Login refuses every request.
type Config struct {
	Secret   string
	Issuer   string
	DevLogin bool
}

// ErrDevLoginDisabled is returned by Login when email-only login is off.
var ErrDevLoginDisabled = domain.NewError(domain.ErrCodeForbidden, "email login is disabled")

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cfg      Config
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, cfg Config, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

// Login finds the account for email, registering it on first sight, and opens
// a session for it. No credential is checked, so it only runs with DevLogin.
func (uc *UseCase) Login(ctx context.Context, email string, ttl time.Duration) (*domain.User, *domain.Session, error) {
	if !uc.cfg.DevLogin {
		return nil, nil, ErrDevLoginDisabled
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		verr := &domain.ValidationError{}
		verr.Add("email", domain.ValidationRequired, "The email field must be a valid email address.")
		return nil, nil, verr
	}

	user, err := uc.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		user = &domain.User{Email: email, Name: strings.SplitN(email, "@", 2)[0]}
		if err := uc.users.Upsert(ctx, user); err != nil {
			return nil, nil, err
		}
		uc.logger.Info("user registered", zap.String("user_id", user.ID))
	} else if err != nil {
		return nil, nil, err
	}

	session, err := uc.CreateSession(ctx, user.ID, ttl)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (uc *UseCase) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*domain.Session, error) {
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, err
	}
	session.ExpiresAt = time.Now().Add(ttl)
	return session, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// UserForSession resolves the account behind a live session.
func (uc *UseCase) UserForSession(ctx context.Context, sessionID string) (*domain.User, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return uc.users.GetByID(ctx, session.UserID)
}

// IssueToken signs a bearer token for user. It returns "" when tokens are disabled.
func (uc *UseCase) IssueToken(user *domain.User, ttl time.Duration) (string, error) {
	if uc.cfg.Secret == "" || user == nil {
		return "", nil
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"iss":     uc.cfg.Issuer,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.cfg.Secret))
}

// UserForToken verifies a bearer token and loads its account.
func (uc *UseCase) UserForToken(ctx context.Context, tokenString string) (*domain.User, error) {
	if uc.cfg.Secret == "" || tokenString == "" {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return []byte(uc.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if uc.cfg.Issuer != "" && !claims.VerifyIssuer(uc.cfg.Issuer, true) {
		return nil, domain.ErrUnauthorized
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// DevLoginEnabled reports whether Login accepts requests.
func (uc *UseCase) DevLoginEnabled() bool {
	return uc.cfg.DevLogin
}
