package services_test

import (
	"context"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/services"
	"github.com/fastygo/todo/internal/testutil"
	"github.com/fastygo/todo/repository"
	"github.com/fastygo/todo/repository/sqlite"
)

func TestSeeder_Seed(t *testing.T) {
	db := testutil.OpenSQLite(t)
	users := sqlite.NewUserRepository(db)
	todos := sqlite.NewTodoRepository(db)
	ctx := context.Background()

	plan := services.DefaultSeedPlan()
	plan.ExtraUsers = 2
	plan.TodosPerExtra = 3

	report, err := services.NewSeeder(users, todos, nil).Seed(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Users)
	assert.Equal(t, 46, report.Todos)

	demo, err := users.GetByEmail(ctx, "demo@example.com")
	require.NoError(t, err)

	done := true
	items, total, err := todos.List(ctx, repository.TodoQuery{UserID: demo.ID, Completed: &done, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, 15, total)
	for _, item := range items {
		assert.NotEmpty(t, item.Title)
		assert.LessOrEqual(t, utf8.RuneCountInString(item.Title), domain.TitleMaxLength)
	}

	again, err := services.NewSeeder(users, todos, nil).Seed(ctx, plan)
	require.NoError(t, err)
	assert.Zero(t, again.Users)
}
