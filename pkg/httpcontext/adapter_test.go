package httpcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/todo/pkg/logger"
)

func TestAdapter_Attach(t *testing.T) {
	a := NewAdapter(time.Second)

	var rc fasthttp.RequestCtx
	rc.Request.Header.Set(RequestIDHeader, "abc")
	rc.SetUserValue(UserIDKey, "u-1")

	ctx, cancel := a.Attach(&rc)
	defer cancel()

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
	assert.Equal(t, "abc", appLogger.RequestID(ctx))
	assert.Equal(t, "abc", string(rc.Response.Header.Peek(RequestIDHeader)))
}

func TestAdapter_GeneratesStableRequestID(t *testing.T) {
	a := NewAdapter(0)

	var rc fasthttp.RequestCtx
	first, cancel := a.Attach(&rc)
	cancel()
	second, cancel := a.Attach(&rc)
	cancel()

	id := appLogger.RequestID(first)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, appLogger.RequestID(second))
}
