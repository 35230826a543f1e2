package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/pkg/httpcontext"
)

// AccessLog writes one line per request once the handler returns.
func AccessLog(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			next(ctx)

			fields := []zap.Field{
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", ctx.Response.StatusCode()),
				zap.Duration("duration", time.Since(start)),
			}
			if reqID := ctx.Response.Header.Peek(httpcontext.RequestIDHeader); len(reqID) > 0 {
				fields = append(fields, zap.ByteString("request_id", reqID))
			}
			if userID, ok := ctx.UserValue(httpcontext.UserIDKey).(string); ok {
				fields = append(fields, zap.String("user_id", userID))
			}
			logger.Info("request", fields...)
		}
	}
}
