// Package render turns a named page and its props into an HTTP response
// for a client-side page router.
package render

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/valyala/fasthttp"
)

const (
	HeaderPage     = "X-Inertia"
	HeaderVersion  = "X-Inertia-Version"
	HeaderLocation = "X-Inertia-Location"
)

// Props are the data handed to a page component.
type Props map[string]interface{}

// Page is the page object the front end boots or navigates with.
type Page struct {
	Component string `json:"component"`
	Props     Props  `json:"props"`
	URL       string `json:"url"`
	Version   string `json:"version"`
}

// Renderer writes the response for a named page.
type Renderer interface {
	Render(ctx *fasthttp.RequestCtx, component string, props Props) error
}

var shell = template.Must(template.New("app").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>{{.Title}}</title></head>
<body><div id="app" data-page="{{.Page}}"></div><script type="module" src="/build/app.js"></script></body>
</html>
`))

// PageRenderer answers page requests with the JSON page object and full
// loads with an HTML shell embedding it.
type PageRenderer struct {
	title   string
	version string
}

func NewPageRenderer(title, version string) *PageRenderer {
	return &PageRenderer{title: title, version: version}
}

func (r *PageRenderer) Render(ctx *fasthttp.RequestCtx, component string, props Props) error {
	if props == nil {
		props = Props{}
	}
	page := Page{
		Component: component,
		Props:     props,
		URL:       string(ctx.RequestURI()),
		Version:   r.version,
	}

	ctx.Response.Header.Set("Vary", HeaderPage)

	if !IsPageRequest(ctx) {
		return r.renderShell(ctx, page)
	}

	// Stale assets: make the client do a full reload of the same URL.
	if ctx.IsGet() && r.version != "" {
		if sent := string(ctx.Request.Header.Peek(HeaderVersion)); sent != "" && sent != r.version {
			ctx.Response.Header.Set(HeaderLocation, page.URL)
			ctx.SetStatusCode(http.StatusConflict)
			return nil
		}
	}

	body, err := json.Marshal(page)
	if err != nil {
		return err
	}
	ctx.Response.Header.Set(HeaderPage, "true")
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(body)
	return nil
}

func (r *PageRenderer) renderShell(ctx *fasthttp.RequestCtx, page Page) error {
	encoded, err := json.Marshal(page)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	data := struct {
		Title string
		Page  string
	}{Title: r.title, Page: string(encoded)}
	if err := shell.Execute(&buf, data); err != nil {
		return err
	}

	ctx.Response.Header.SetContentType("text/html; charset=utf-8")
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(buf.Bytes())
	return nil
}

// IsPageRequest reports whether the client navigates with page objects.
func IsPageRequest(ctx *fasthttp.RequestCtx) bool {
	return string(ctx.Request.Header.Peek(HeaderPage)) == "true"
}
