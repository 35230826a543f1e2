package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/testutil"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/repository/sqlite"
)

type fixture struct {
	todos repository.TodoRepository
	users repository.UserRepository
	clock *testutil.Clock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.OpenSQLite(t)
	clock := testutil.NewClock()
	return fixture{
		todos: sqlite.NewTodoRepository(db, sqlite.WithClock(clock.Now)),
		users: sqlite.NewUserRepository(db, sqlite.WithClock(clock.Now)),
		clock: clock,
	}
}

func (f fixture) create(t *testing.T, userID, title string, completed bool) *domain.Todo {
	t.Helper()
	todo, err := f.todos.Create(context.Background(), &domain.Todo{UserID: userID, Title: title, IsCompleted: completed})
	require.NoError(t, err)
	return todo
}

func boolPtr(v bool) *bool { return &v }

func TestTodoRepository_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.users, "a@example.com")

	desc := "two liters"
	created, err := f.todos.Create(ctx, &domain.Todo{UserID: user.ID, Title: "Buy milk", Description: &desc})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	got, err := f.todos.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, "Buy milk", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "two liters", *got.Description)
	assert.False(t, got.IsCompleted)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))

	_, err = f.todos.GetByID(ctx, created.ID+1000)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestTodoRepository_CreateRequiresExistingOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.todos.Create(context.Background(), &domain.Todo{UserID: "ghost", Title: "orphan"})
	require.Error(t, err, "foreign key must reject unknown owners")
}

func TestTodoRepository_ListOrderingAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.users, "alice@example.com")
	bob := testutil.CreateUser(t, f.users, "bob@example.com")

	first := f.create(t, alice.ID, "first", false)
	second := f.create(t, alice.ID, "second", true)
	third := f.create(t, alice.ID, "third", false)
	f.create(t, bob.ID, "bob's", false)

	items, total, err := f.todos.List(ctx, repository.TodoQuery{UserID: alice.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, []int64{items[0].ID, items[1].ID, items[2].ID})

	items, total, err = f.todos.List(ctx, repository.TodoQuery{UserID: alice.ID, Completed: boolPtr(false), Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, item := range items {
		assert.False(t, item.IsCompleted)
	}

	items, total, err = f.todos.List(ctx, repository.TodoQuery{UserID: alice.ID, Completed: boolPtr(true), Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)
}

func TestTodoRepository_ListTiesBrokenByInsertion(t *testing.T) {
	f := newFixture(t)
	f.clock.Freeze()
	user := testutil.CreateUser(t, f.users, "tie@example.com")

	older := f.create(t, user.ID, "older", false)
	newer := f.create(t, user.ID, "newer", false)
	require.True(t, older.CreatedAt.Equal(newer.CreatedAt))

	items, _, err := f.todos.List(context.Background(), repository.TodoQuery{UserID: user.ID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, newer.ID, items[0].ID)
	assert.Equal(t, older.ID, items[1].ID)
}

func TestTodoRepository_ListPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.users, "pages@example.com")
	for i := 0; i < 15; i++ {
		f.create(t, user.ID, "todo", false)
	}

	items, total, err := f.todos.List(ctx, repository.TodoQuery{UserID: user.ID, Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	assert.Len(t, items, 5)

	items, total, err = f.todos.List(ctx, repository.TodoQuery{UserID: user.ID, Limit: 10, Offset: 990})
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	assert.Empty(t, items)
}

func TestTodoRepository_UpdateRunsMutateInTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.users, "upd@example.com")
	todo := f.create(t, user.ID, "before", false)

	updated, err := f.todos.Update(ctx, todo.ID, func(current *domain.Todo) error {
		current.Title = "after"
		current.IsCompleted = true
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.True(t, updated.IsCompleted)
	assert.True(t, updated.CreatedAt.Equal(todo.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(todo.UpdatedAt))

	errStop := errors.New("stop")
	_, err = f.todos.Update(ctx, todo.ID, func(current *domain.Todo) error {
		current.Title = "discarded"
		return errStop
	})
	require.ErrorIs(t, err, errStop)

	got, err := f.todos.GetByID(ctx, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title, "aborted mutation must not be written")

	_, err = f.todos.Update(ctx, 424242, nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestTodoRepository_DeleteGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.users, "del@example.com")
	todo := f.create(t, user.ID, "doomed", false)

	err := f.todos.Delete(ctx, todo.ID, func(*domain.Todo) error { return domain.ErrForbidden })
	require.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.todos.GetByID(ctx, todo.ID)
	require.NoError(t, err)

	require.NoError(t, f.todos.Delete(ctx, todo.ID, nil))
	err = f.todos.Delete(ctx, todo.ID, nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestUserRepository_DeleteCascadesTodos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.users, "cascade@example.com")
	todo := f.create(t, user.ID, "mine", false)

	require.NoError(t, f.users.Delete(ctx, user.ID))

	_, err := f.todos.GetByID(ctx, todo.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
	_, total, err := f.todos.List(ctx, repository.TodoQuery{UserID: user.ID, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	err = f.users.Delete(ctx, user.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestUserRepository_UpsertAndLookup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user := &domain.User{Email: "look@example.com", Name: "Look"}
	require.NoError(t, f.users.Upsert(ctx, user))
	require.NotEmpty(t, user.ID)
	created := user.CreatedAt

	user.Name = "Renamed"
	require.NoError(t, f.users.Upsert(ctx, user))
	assert.True(t, user.CreatedAt.Equal(created))

	got, err := f.users.GetByEmail(ctx, "look@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	_, err = f.users.GetByID(ctx, "missing")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
