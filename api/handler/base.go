package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/render"
	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/middleware"
	"github.com/fastygo/todo/pkg/httpcontext"
	appLogger "github.com/fastygo/todo/pkg/logger"
)

const (
	DashboardPath = "/dashboard"
	LoginPath     = "/login"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	Adapter   *httpcontext.Adapter
	Logger    *zap.Logger
	Renderer  render.Renderer
	LoginPath string
}

type baseHandler struct {
	adapter   *httpcontext.Adapter
	logger    *zap.Logger
	renderer  render.Renderer
	loginPath string
}

func newBaseHandler(deps Deps) baseHandler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Renderer == nil {
		deps.Renderer = render.NewPageRenderer("Todo", "")
	}
	if deps.LoginPath == "" {
		deps.LoginPath = LoginPath
	}
	return baseHandler{
		adapter:   deps.Adapter,
		logger:    deps.Logger,
		renderer:  deps.Renderer,
		loginPath: deps.LoginPath,
	}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// currentUser returns the authenticated user, or redirects to login and
// returns nil.
func (h baseHandler) currentUser(ctx *fasthttp.RequestCtx) *domain.User {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		h.redirect(ctx, h.loginPath, http.StatusFound)
	}
	return user
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondInvalid(ctx *fasthttp.RequestCtx, message string) {
	h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), message, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		h.respondJSON(ctx, http.StatusUnprocessableEntity, transport.NewValidationError(verr))
		return
	}

	status, code := mapError(err)
	switch status {
	case http.StatusFound:
		h.redirect(ctx, h.loginPath, http.StatusFound)
		return
	case http.StatusInternalServerError:
		appLogger.WithRequestID(stdCtx, h.logger).Error("request failed",
			zap.ByteString("path", ctx.Path()), zap.Error(err))
		h.respondJSON(ctx, status, transport.NewError(code, "server error", nil))
		return
	}
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

func (h baseHandler) render(ctx *fasthttp.RequestCtx, stdCtx context.Context, component string, props render.Props) {
	if err := h.renderer.Render(ctx, component, props); err != nil {
		h.respondError(ctx, stdCtx, err)
	}
}

// redirect answers with a relative Location. Redirects after PUT, PATCH and
// DELETE must use 303 so the client follows with GET.
func (h baseHandler) redirect(ctx *fasthttp.RequestCtx, location string, status int) {
	ctx.Response.Header.Set("Location", location)
	ctx.SetStatusCode(status)
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusFound, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
