package transport

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/valyala/fasthttp"
)

var textType = reflect.TypeOf(Text(""))

// Text is a scalar field sent either as a JSON string, number or boolean, or
// as a form value. It always holds the textual form.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case bool:
		*t = Text(strconv.FormatBool(val))
	case float64:
		*t = Text(strconv.FormatFloat(val, 'f', -1, 64))
	case nil:
		*t = ""
	default:
		return &json.UnmarshalTypeError{Value: "object", Type: textType}
	}
	return nil
}

// Ptr returns the field as *string, nil when it was not sent.
func (t *Text) Ptr() *string {
	if t == nil {
		return nil
	}
	s := string(*t)
	return &s
}

// TodoRequest is the create/update body. Nil fields were not sent.
type TodoRequest struct {
	Title       *Text `json:"title"`
	Description *Text `json:"description"`
	IsCompleted *Text `json:"is_completed"`
	Filter      *Text `json:"filter"`
}

type LoginRequest struct {
	Email string `json:"email"`
}

type ProfileUpdateRequest struct {
	Name string `json:"name"`
}

// IsJSON reports whether the request body is declared as JSON.
func IsJSON(ctx *fasthttp.RequestCtx) bool {
	return bytes.HasPrefix(ctx.Request.Header.ContentType(), []byte("application/json"))
}

// DecodeTodo reads a TodoRequest from a JSON or form-encoded body.
func DecodeTodo(ctx *fasthttp.RequestCtx) (TodoRequest, error) {
	var req TodoRequest
	if IsJSON(ctx) {
		body := ctx.PostBody()
		if len(bytes.TrimSpace(body)) == 0 {
			return req, nil
		}
		err := json.Unmarshal(body, &req)
		return req, err
	}

	req.Title = formText(ctx, "title")
	req.Description = formText(ctx, "description")
	req.IsCompleted = formText(ctx, "is_completed")
	req.Filter = formText(ctx, "filter")
	return req, nil
}

// DecodeLogin reads a LoginRequest from a JSON or form-encoded body.
func DecodeLogin(ctx *fasthttp.RequestCtx) (LoginRequest, error) {
	var req LoginRequest
	if IsJSON(ctx) {
		err := json.Unmarshal(ctx.PostBody(), &req)
		return req, err
	}
	if t := formText(ctx, "email"); t != nil {
		req.Email = string(*t)
	}
	return req, nil
}

// DecodeProfile reads a ProfileUpdateRequest from a JSON or form-encoded body.
func DecodeProfile(ctx *fasthttp.RequestCtx) (ProfileUpdateRequest, error) {
	var req ProfileUpdateRequest
	if IsJSON(ctx) {
		err := json.Unmarshal(ctx.PostBody(), &req)
		return req, err
	}
	if t := formText(ctx, "name"); t != nil {
		req.Name = string(*t)
	}
	return req, nil
}

// formText looks key up in the urlencoded body, then in the query string.
func formText(ctx *fasthttp.RequestCtx, key string) *Text {
	for _, args := range []*fasthttp.Args{ctx.PostArgs(), ctx.QueryArgs()} {
		if args.Has(key) {
			t := Text(args.Peek(key))
			return &t
		}
	}
	return nil
}
