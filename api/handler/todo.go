package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/todo/api/render"
	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	todoUC "github.com/fastygo/todo/usecase/todo"
)

type TodoHandler struct {
	baseHandler
	uc *todoUC.UseCase
}

func NewTodoHandler(uc *todoUC.UseCase, deps Deps) *TodoHandler {
	return &TodoHandler{
		baseHandler: newBaseHandler(deps),
		uc:          uc,
	}
}

// Home sends visitors to their dashboard.
func (h *TodoHandler) Home(ctx *fasthttp.RequestCtx) {
	h.redirect(ctx, DashboardPath, http.StatusFound)
}

// Dashboard lists one page of the user's todos.
// Route: GET /dashboard?filter=&page=&per_page=
func (h *TodoHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	args := ctx.QueryArgs()
	req := todoUC.ListRequest{
		Filter:  string(args.Peek("filter")),
		Page:    string(args.Peek("page")),
		PerPage: string(args.Peek("per_page")),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	page, err := h.uc.List(stdCtx, user, req)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	h.render(ctx, stdCtx, "dashboard", render.Props{
		"todos":  transport.NewPaginator(page, DashboardPath, keptQuery(args)),
		"filter": page.Filter,
	})
}

// CreateForm shows the blank create view.
// Route: GET /todos/create
func (h *TodoHandler) CreateForm(ctx *fasthttp.RequestCtx) {
	if h.currentUser(ctx) == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.render(ctx, stdCtx, "todos/create", nil)
}

// Store creates a todo and returns to the dashboard under the sent filter.
// Route: POST /todos
func (h *TodoHandler) Store(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	payload, ok := h.parsePayload(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Create(stdCtx, user, payload)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.redirect(ctx, dashboardURL(result.Filter), http.StatusSeeOther)
}

// Edit shows a todo for editing along with the filter to return to.
// Route: GET /todos/{id}/edit?filter=
func (h *TodoHandler) Edit(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, ok := todoID(ctx)
	if !ok {
		h.respondError(ctx, stdCtx, domain.ErrTodoNotFound)
		return
	}

	result, err := h.uc.EditView(stdCtx, user, id, string(ctx.QueryArgs().Peek("filter")))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.render(ctx, stdCtx, "todos/edit", render.Props{
		"todo":   result.Todo,
		"filter": result.Filter,
	})
}

// Update replaces a todo's fields.
// Route: PUT /todos/{id}
func (h *TodoHandler) Update(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, ok := todoID(ctx)
	if !ok {
		h.respondError(ctx, stdCtx, domain.ErrTodoNotFound)
		return
	}

	payload, ok := h.parsePayload(ctx)
	if !ok {
		return
	}

	result, err := h.uc.Update(stdCtx, user, id, payload)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.redirect(ctx, dashboardURL(result.Filter), http.StatusSeeOther)
}

// Destroy deletes a todo.
// Route: DELETE /todos/{id}
func (h *TodoHandler) Destroy(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, ok := todoID(ctx)
	if !ok {
		h.respondError(ctx, stdCtx, domain.ErrTodoNotFound)
		return
	}

	if err := h.uc.Delete(stdCtx, user, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.redirect(ctx, DashboardPath, http.StatusSeeOther)
}

// Toggle flips a todo's completion flag.
// Route: PATCH /todos/{id}/toggle
func (h *TodoHandler) Toggle(ctx *fasthttp.RequestCtx) {
	user := h.currentUser(ctx)
	if user == nil {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	id, ok := todoID(ctx)
	if !ok {
		h.respondError(ctx, stdCtx, domain.ErrTodoNotFound)
		return
	}

	if _, err := h.uc.ToggleComplete(stdCtx, user, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.redirect(ctx, DashboardPath, http.StatusSeeOther)
}

func (h *TodoHandler) parsePayload(ctx *fasthttp.RequestCtx) (todoUC.Payload, bool) {
	req, err := transport.DecodeTodo(ctx)
	if err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return todoUC.Payload{}, false
	}
	return todoUC.Payload{
		Title:       req.Title.Ptr(),
		Description: req.Description.Ptr(),
		IsCompleted: req.IsCompleted.Ptr(),
		Filter:      req.Filter.Ptr(),
	}, true
}

// todoID parses the {id} route segment. Non-numeric ids cannot name a todo.
func todoID(ctx *fasthttp.RequestCtx) (int64, bool) {
	raw, _ := ctx.UserValue("id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func dashboardURL(filter string) string {
	return DashboardPath + "?filter=" + url.QueryEscape(filter)
}

// keptQuery lists the query pairs, except page, that paginator links carry.
func keptQuery(args *fasthttp.Args) []transport.QueryParam {
	var keep []transport.QueryParam
	args.VisitAll(func(key, value []byte) {
		if string(key) == "page" {
			return
		}
		keep = append(keep, transport.QueryParam{Key: string(key), Value: string(value)})
	})
	return keep
}
