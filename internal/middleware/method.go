package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"
)

// MethodOverride lets HTML forms reach PUT, PATCH and DELETE routes by
// posting a _method field.
func MethodOverride(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		if ctx.IsPost() {
			method := strings.ToUpper(string(ctx.PostArgs().Peek("_method")))
			switch method {
			case fasthttp.MethodPut, fasthttp.MethodPatch, fasthttp.MethodDelete:
				ctx.Request.Header.SetMethod(method)
			}
		}
		next(ctx)
	}
}
