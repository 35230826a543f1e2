package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManager_ShutdownRunsHooksInReverse(t *testing.T) {
	m := New(time.Second, nil)

	var order []string
	m.Register("database", func(context.Context) error { order = append(order, "database"); return nil })
	m.Register("sessions", func(context.Context) error { order = append(order, "sessions"); return errors.New("boom") })
	m.Register("http_server", func(context.Context) error { order = append(order, "http_server"); return nil })
	m.Register("ignored", nil)

	err := m.Shutdown(context.Background())
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []string{"http_server", "sessions", "database"}, order)
}

func TestManager_ShutdownAppliesTimeout(t *testing.T) {
	m := New(20*time.Millisecond, nil)

	var deadline bool
	m.Register("slow", func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return nil
	})

	assert.NoError(t, m.Shutdown(context.Background()))
	assert.True(t, deadline)
}

func TestManager_ShutdownRunsOnce(t *testing.T) {
	m := New(time.Second, nil)

	calls := 0
	m.Register("db", func(context.Context) error { calls++; return nil })

	assert.NoError(t, m.Shutdown(context.Background()))
	assert.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestManager_ShutdownWithoutContext(t *testing.T) {
	m := New(time.Second, nil)

	var deadline bool
	m.Register("db", func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return nil
	})

	var ctx context.Context
	assert.NotPanics(t, func() { assert.NoError(t, m.Shutdown(ctx)) })
	assert.True(t, deadline)
}
