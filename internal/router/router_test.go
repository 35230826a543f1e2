package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestNew_RegistersRoutes(t *testing.T) {
	guarded := 0
	requireUser := func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		guarded++
		return next
	}

	r := New(Handlers{}, requireUser, Options{DevLogin: true})
	routes := r.List()

	assert.ElementsMatch(t, []string{"/health", "/login", "/", "/dashboard", "/todos/create", "/todos/{id}/edit", "/profile"}, routes[fasthttp.MethodGet])
	assert.ElementsMatch(t, []string{"/login", "/logout", "/session/refresh", "/todos"}, routes[fasthttp.MethodPost])
	assert.ElementsMatch(t, []string{"/todos/{id}", "/profile"}, routes[fasthttp.MethodPut])
	assert.ElementsMatch(t, []string{"/todos/{id}", "/profile"}, routes[fasthttp.MethodDelete])
	assert.ElementsMatch(t, []string{"/todos/{id}/toggle"}, routes[fasthttp.MethodPatch])
	assert.Equal(t, 10, guarded)
}

func TestNew_OmitsDevLoginByDefault(t *testing.T) {
	r := New(Handlers{}, func(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }, Options{})
	routes := r.List()

	assert.NotContains(t, routes[fasthttp.MethodPost], "/login")
	assert.Contains(t, routes[fasthttp.MethodPost], "/logout")
	assert.Contains(t, routes[fasthttp.MethodGet], "/login")
}
