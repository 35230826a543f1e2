package repository

import (
	"context"

	"github.com/fastygo/todo/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
	// Delete removes the user and, through the foreign key, every todo they own.
	Delete(ctx context.Context, id string) error
}
