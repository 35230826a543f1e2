package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/todo/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Todo    *apiHandler.TodoHandler
	Health  *apiHandler.HealthHandler
}

// Options toggles optional routes.
type Options struct {
	// DevLogin exposes the email-only POST /login.
	DevLogin bool
}

// New builds the route table. requireUser guards every page that acts on an
// account.
func New(handlers Handlers, requireUser func(fasthttp.RequestHandler) fasthttp.RequestHandler, opts Options) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.GET("/login", handlers.Auth.LoginForm)
	if opts.DevLogin {
		r.POST("/login", handlers.Auth.Login)
	}
	r.POST("/logout", handlers.Auth.Logout)
	r.POST("/session/refresh", handlers.Auth.Refresh)

	r.GET("/", handlers.Todo.Home)
	r.GET("/dashboard", requireUser(handlers.Todo.Dashboard))

	r.GET("/todos/create", requireUser(handlers.Todo.CreateForm))
	r.POST("/todos", requireUser(handlers.Todo.Store))
	r.GET("/todos/{id}/edit", requireUser(handlers.Todo.Edit))
	r.PUT("/todos/{id}", requireUser(handlers.Todo.Update))
	r.DELETE("/todos/{id}", requireUser(handlers.Todo.Destroy))
	r.PATCH("/todos/{id}/toggle", requireUser(handlers.Todo.Toggle))

	r.GET("/profile", requireUser(handlers.Profile.Show))
	r.PUT("/profile", requireUser(handlers.Profile.Update))
	r.DELETE("/profile", requireUser(handlers.Profile.Destroy))

	return r
}
