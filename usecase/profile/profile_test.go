package profile_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/testutil"
	"github.com/fastygo/todo/repository/sqlite"
	profileUC "github.com/fastygo/todo/usecase/profile"
)

func TestUpdateProfile(t *testing.T) {
	users := sqlite.NewUserRepository(testutil.OpenSQLite(t))
	uc := profileUC.New(users, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, users, "alice@example.com")

	updated, err := uc.UpdateProfile(ctx, user, "  Alice  ")
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)

	stored, err := uc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", stored.Name)
	assert.Equal(t, "alice@example.com", stored.Email)

	_, err = uc.UpdateProfile(ctx, user, "   ")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("name", domain.ValidationRequired))

	_, err = uc.UpdateProfile(ctx, user, strings.Repeat("n", domain.TitleMaxLength+1))
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("name", domain.ValidationTooLong))
}

func TestDeleteAccount_CascadesTodos(t *testing.T) {
	db := testutil.OpenSQLite(t)
	users := sqlite.NewUserRepository(db)
	todos := sqlite.NewTodoRepository(db)
	uc := profileUC.New(users, nil)
	ctx := context.Background()

	user := testutil.CreateUser(t, users, "alice@example.com")
	todo, err := todos.Create(ctx, &domain.Todo{UserID: user.ID, Title: "x"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteAccount(ctx, user))

	_, err = uc.GetProfile(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	_, err = todos.GetByID(ctx, todo.ID)
	assert.ErrorIs(t, err, domain.ErrTodoNotFound)

	assert.ErrorIs(t, uc.DeleteAccount(ctx, nil), domain.ErrUnauthorized)
}
