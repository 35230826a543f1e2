package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/todo/api/render"
	"github.com/fastygo/todo/api/transport"
	profileUC "github.com/fastygo/todo/usecase/profile"
)

type ProfileHandler struct {
	baseHandler
	uc         *profileUC.UseCase
	cookieName string
}

func NewProfileHandler(uc *profileUC.UseCase, cookieName string, deps Deps) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(deps),
		uc:          uc,
		cookieName:  cookieName,
	}
}

// Show renders the profile page.
// Route: GET /profile
func (h *ProfileHandler) Show(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	fresh, err := h.uc.GetProfile(stdCtx, user.ID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.render(ctx, stdCtx, "profile/edit", render.Props{"user": fresh})
}

// Update renames the account.
// Route: PUT /profile
func (h *ProfileHandler) Update(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	req, err := transport.DecodeProfile(ctx)
	if err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.UpdateProfile(stdCtx, user, req.Name); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.redirect(ctx, "/profile", http.StatusSeeOther)
}

// Destroy deletes the account together with all of its todos.
// Route: DELETE /profile
func (h *ProfileHandler) Destroy(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteAccount(stdCtx, user); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	ctx.Response.Header.DelClientCookie(h.cookieName)
	h.redirect(ctx, "/", http.StatusSeeOther)
}
