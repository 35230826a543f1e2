package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanAccess(t *testing.T) {
	t.Parallel()

	owner := &User{ID: "u-1"}
	other := &User{ID: "u-2"}
	todo := &Todo{ID: 1, UserID: "u-1"}

	tests := []struct {
		name string
		user *User
		todo *Todo
		want bool
	}{
		{name: "owner", user: owner, todo: todo, want: true},
		{name: "other user", user: other, todo: todo, want: false},
		{name: "nil user", user: nil, todo: todo, want: false},
		{name: "nil todo", user: owner, todo: nil, want: false},
		{name: "blank user id", user: &User{}, todo: &Todo{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CanAccess(tt.user, tt.todo))
		})
	}
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	owner := &User{ID: "u-1"}

	assert.NoError(t, Authorize(owner, &Todo{UserID: "u-1"}))
	assert.True(t, IsDomainError(Authorize(owner, nil), ErrCodeNotFound))
	assert.True(t, IsDomainError(Authorize(owner, &Todo{UserID: "u-2"}), ErrCodeForbidden))
}
