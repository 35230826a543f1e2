package middleware

import (
	"context"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/httpcontext"
)

const userKey = "user"

// UserResolver maps request credentials onto an account.
type UserResolver interface {
	UserForSession(ctx context.Context, sessionID string) (*domain.User, error)
	UserForToken(ctx context.Context, token string) (*domain.User, error)
}

// RequireUser admits requests carrying a live session cookie or a valid
// bearer token and redirects everything else to loginPath.
func RequireUser(resolver UserResolver, cookieName, loginPath string, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if adapter == nil {
		adapter = httpcontext.NewAdapter(0)
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			user := resolve(ctx, resolver, cookieName, adapter, logger)
			if user == nil {
				ctx.Redirect(loginPath, fasthttp.StatusFound)
				return
			}

			SetUser(ctx, user)
			next(ctx)
		}
	}
}

func resolve(ctx *fasthttp.RequestCtx, resolver UserResolver, cookieName string, adapter *httpcontext.Adapter, logger *zap.Logger) *domain.User {
	stdCtx, cancel := adapter.Attach(ctx)
	defer cancel()

	if sessionID := string(ctx.Request.Header.Cookie(cookieName)); sessionID != "" {
		user, err := resolver.UserForSession(stdCtx, sessionID)
		if err == nil {
			return user
		}
		if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			logger.Warn("session lookup failed", zap.Error(err))
		}
	}

	if token := extractToken(ctx); token != "" {
		user, err := resolver.UserForToken(stdCtx, token)
		if err == nil {
			return user
		}
		logger.Debug("bearer token rejected", zap.Error(err))
	}
	return nil
}

// SetUser stores the authenticated user on the request.
func SetUser(ctx *fasthttp.RequestCtx, user *domain.User) {
	ctx.SetUserValue(userKey, user)
	ctx.SetUserValue(httpcontext.UserIDKey, user.ID)
}

// CurrentUser returns the user stored by RequireUser, or nil.
func CurrentUser(ctx *fasthttp.RequestCtx) *domain.User {
	user, _ := ctx.UserValue(userKey).(*domain.User)
	return user
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
