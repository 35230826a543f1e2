package todo

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// UseCase orchestrates validation, ownership checks and store access for a
// user's todos. Every operation takes the acting user explicitly.
type UseCase struct {
	todos  repository.TodoRepository
	logger *zap.Logger
}

func New(todos repository.TodoRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		todos:  todos,
		logger: logger,
	}
}

// Result is a todo together with the filter token to return to.
type Result struct {
	Todo   *domain.Todo
	Filter string
}

// List returns one page of user's todos. Bad paging or filter input degrades
// to defaults instead of failing.
func (uc *UseCase) List(ctx context.Context, user *domain.User, req ListRequest) (*domain.TodoPage, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	query, page, perPage := BuildQuery(user, req)
	items, total, err := uc.todos.List(ctx, query)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Todo{}
	}

	return &domain.TodoPage{
		Items:       items,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    LastPage(total, perPage),
		Filter:      EchoFilter(req.Filter),
	}, nil
}

// Create stores a new todo owned by user.
func (uc *UseCase) Create(ctx context.Context, user *domain.User, payload Payload) (*Result, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	input, err := Validate(payload)
	if err != nil {
		return nil, err
	}

	todo := &domain.Todo{UserID: user.ID}
	input.Apply(todo)

	created, err := uc.todos.Create(ctx, todo)
	if err != nil {
		uc.logger.Error("failed to create todo", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	uc.logger.Debug("todo created", zap.String("user_id", user.ID), zap.Int64("todo_id", created.ID))
	return &Result{Todo: created, Filter: input.Filter}, nil
}

// EditView loads a todo for its owner. filter is passed through untouched.
func (uc *UseCase) EditView(ctx context.Context, user *domain.User, id int64, filter string) (*Result, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	todo, err := uc.todos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(user, todo); err != nil {
		return nil, err
	}
	return &Result{Todo: todo, Filter: EchoFilter(filter)}, nil
}

// Update replaces title, description and, when sent, is_completed. Existence
// and ownership are checked before validation errors are reported, and both
// happen in the same transaction as the write.
func (uc *UseCase) Update(ctx context.Context, user *domain.User, id int64, payload Payload) (*Result, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	input, verr := Validate(payload)
	updated, err := uc.todos.Update(ctx, id, func(current *domain.Todo) error {
		if err := domain.Authorize(user, current); err != nil {
			return err
		}
		if verr != nil {
			return verr
		}
		input.Apply(current)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Result{Todo: updated, Filter: input.Filter}, nil
}

// ToggleComplete flips is_completed and leaves every other field as is.
func (uc *UseCase) ToggleComplete(ctx context.Context, user *domain.User, id int64) (*domain.Todo, error) {
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	return uc.todos.Update(ctx, id, func(current *domain.Todo) error {
		if err := domain.Authorize(user, current); err != nil {
			return err
		}
		current.IsCompleted = !current.IsCompleted
		return nil
	})
}

// Delete permanently removes a todo. Deleting it again reports NOT_FOUND.
func (uc *UseCase) Delete(ctx context.Context, user *domain.User, id int64) error {
	if user == nil {
		return domain.ErrUnauthorized
	}

	err := uc.todos.Delete(ctx, id, func(current *domain.Todo) error {
		return domain.Authorize(user, current)
	})
	if err != nil {
		return err
	}

	uc.logger.Debug("todo deleted", zap.String("user_id", user.ID), zap.Int64("todo_id", id))
	return nil
}
