package repository

import (
	"context"
	"time"

	"github.com/fastygo/todo/domain"
)

type SessionRepository interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	Delete(ctx context.Context, id string) error
	Extend(ctx context.Context, id string, ttlSeconds int) error
}

// SessionPurger is implemented by session stores without native expiry.
type SessionPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
