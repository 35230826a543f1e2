package repository

import (
	"context"

	"github.com/fastygo/todo/domain"
)

// TodoQuery selects one page of a single owner's todos.
// Completed == nil means no completion predicate.
type TodoQuery struct {
	UserID    string
	Completed *bool
	Limit     int
	Offset    int
}

// MutateFunc inspects and edits the locked row. Returning an error aborts the
// transaction without writing.
type MutateFunc func(todo *domain.Todo) error

// GuardFunc inspects the locked row before it is removed.
type GuardFunc func(todo *domain.Todo) error

// TodoRepository is the todo store. Update and Delete run their callbacks and
// the write in one transaction so an ownership check cannot be split from the
// mutation it guards.
type TodoRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Todo, error)
	// List returns the page ordered by created_at DESC, id DESC and the total
	// number of rows matching the query.
	List(ctx context.Context, query TodoQuery) ([]domain.Todo, int, error)
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)
	Update(ctx context.Context, id int64, mutate MutateFunc) (*domain.Todo, error)
	Delete(ctx context.Context, id int64, guard GuardFunc) error
}
