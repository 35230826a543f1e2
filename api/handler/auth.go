package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/render"
	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	authUC "github.com/fastygo/todo/usecase/auth"
)

// SessionCookie describes the browser session cookie.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

type AuthHandler struct {
	baseHandler
	uc       *authUC.UseCase
	cookie   SessionCookie
	tokenTTL time.Duration
}

func NewAuthHandler(uc *authUC.UseCase, cookie SessionCookie, tokenTTL time.Duration, deps Deps) *AuthHandler {
	if cookie.TTL <= 0 {
		cookie.TTL = 2 * time.Hour
	}
	if cookie.Name == "" {
		cookie.Name = "todo_session"
	}
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthHandler{
		baseHandler: newBaseHandler(deps),
		uc:          uc,
		cookie:      cookie,
		tokenTTL:    tokenTTL,
	}
}

type loginResponse struct {
	User      *domain.User `json:"user"`
	SessionID string       `json:"session_id"`
	ExpiresAt time.Time    `json:"expires_at"`
	Token     string       `json:"token,omitempty"`
}

// LoginForm shows the login page. email_login tells the page whether the
// email form can be submitted.
// Route: GET /login
func (h *AuthHandler) LoginForm(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.render(ctx, stdCtx, "auth/login", render.Props{"email_login": h.uc.DevLoginEnabled()})
}

// Login opens a session. Browser clients are sent to the dashboard, JSON
// clients receive the session and a bearer token.
// Route: POST /login
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	req, err := transport.DecodeLogin(ctx)
	if err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, session, err := h.uc.Login(stdCtx, req.Email, h.cookie.TTL)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.setCookie(ctx, session.ID, session.ExpiresAt)

	if !transport.IsJSON(ctx) || render.IsPageRequest(ctx) {
		h.redirect(ctx, DashboardPath, http.StatusSeeOther)
		return
	}

	token, err := h.uc.IssueToken(user, h.tokenTTL)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, loginResponse{
		User:      user,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
		Token:     token,
	})
}

// Refresh extends the current session.
// Route: POST /session/refresh
func (h *AuthHandler) Refresh(ctx *fasthttp.RequestCtx) {
	sessionID := string(ctx.Request.Header.Cookie(h.cookie.Name))
	if sessionID == "" {
		h.redirect(ctx, h.loginPath, http.StatusFound)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	session, err := h.uc.RefreshSession(stdCtx, sessionID, h.cookie.TTL)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			h.redirect(ctx, h.loginPath, http.StatusFound)
			return
		}
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.setCookie(ctx, session.ID, session.ExpiresAt)
	h.respondSuccess(ctx, http.StatusOK, session)
}

// Logout ends the current session.
// Route: POST /logout
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if sessionID := string(ctx.Request.Header.Cookie(h.cookie.Name)); sessionID != "" {
		if err := h.uc.RevokeSession(stdCtx, sessionID); err != nil {
			h.logger.Warn("failed to revoke session", zap.Error(err))
		}
	}
	ctx.Response.Header.DelClientCookie(h.cookie.Name)
	h.redirect(ctx, h.loginPath, http.StatusSeeOther)
}

func (h *AuthHandler) setCookie(ctx *fasthttp.RequestCtx, value string, expires time.Time) {
	c := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(c)

	c.SetKey(h.cookie.Name)
	c.SetValue(value)
	c.SetPath("/")
	c.SetHTTPOnly(true)
	c.SetSecure(h.cookie.Secure)
	c.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	c.SetExpire(expires)
	ctx.Response.Header.SetCookie(c)
}
