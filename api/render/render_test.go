package render

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func pageRequest(uri string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI(uri)
	ctx.Request.Header.Set(HeaderPage, "true")
	return ctx
}

func TestPageRenderer_JSON(t *testing.T) {
	r := NewPageRenderer("Todo", "v1")
	ctx := pageRequest("/dashboard?filter=active")

	require.NoError(t, r.Render(ctx, "dashboard", Props{"filter": "active"}))

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "true", string(ctx.Response.Header.Peek(HeaderPage)))

	var page Page
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &page))
	assert.Equal(t, "dashboard", page.Component)
	assert.Equal(t, "/dashboard?filter=active", page.URL)
	assert.Equal(t, "v1", page.Version)
	assert.Equal(t, "active", page.Props["filter"])
}

func TestPageRenderer_StaleVersion(t *testing.T) {
	r := NewPageRenderer("Todo", "v2")
	ctx := pageRequest("/dashboard")
	ctx.Request.Header.Set(HeaderVersion, "v1")

	require.NoError(t, r.Render(ctx, "dashboard", nil))

	assert.Equal(t, http.StatusConflict, ctx.Response.StatusCode())
	assert.Equal(t, "/dashboard", string(ctx.Response.Header.Peek(HeaderLocation)))
}

func TestPageRenderer_Shell(t *testing.T) {
	r := NewPageRenderer("Todo", "v1")
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI("/todos/create")

	require.NoError(t, r.Render(ctx, "todos/create", Props{"title": "<b>"}))

	body := string(ctx.Response.Body())
	assert.True(t, strings.HasPrefix(string(ctx.Response.Header.ContentType()), "text/html"))
	assert.Contains(t, body, `id="app"`)
	assert.Contains(t, body, "todos/create")
	assert.NotContains(t, body, "<b>")
}
