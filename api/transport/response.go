package transport

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/fastygo/todo/domain"
)

// Envelope is the JSON wrapper used for non-page responses and errors.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// NewValidationError lists the first message of every rejected field.
func NewValidationError(verr *domain.ValidationError) Envelope {
	return NewError(string(domain.ErrCodeInvalid), verr.Error(), map[string]interface{}{
		"errors": verr.Messages(),
	})
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// QueryParam is a query string pair kept on every paginator link.
type QueryParam struct {
	Key   string
	Value string
}

// PageLink is one entry of the paginator's numbered navigation.
type PageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// Paginator is the length-aware page shape consumed by the dashboard.
type Paginator struct {
	CurrentPage  int           `json:"current_page"`
	Data         []domain.Todo `json:"data"`
	FirstPageURL string        `json:"first_page_url"`
	From         *int          `json:"from"`
	LastPage     int           `json:"last_page"`
	LastPageURL  string        `json:"last_page_url"`
	Links        []PageLink    `json:"links"`
	NextPageURL  *string       `json:"next_page_url"`
	Path         string        `json:"path"`
	PerPage      int           `json:"per_page"`
	PrevPageURL  *string       `json:"prev_page_url"`
	To           *int          `json:"to"`
	Total        int           `json:"total"`
}

const (
	linkPrevious = "&laquo; Previous"
	linkNext     = "Next &raquo;"
	linkGap      = "..."

	// pages shown on each side of the current one before collapsing into a gap
	onEachSide = 3
)

// NewPaginator renders page for path. keep is appended to every link ahead
// of the page number.
func NewPaginator(page *domain.TodoPage, path string, keep []QueryParam) Paginator {
	u := pageURLer{path: path, keep: keep}

	p := Paginator{
		CurrentPage:  page.CurrentPage,
		Data:         page.Items,
		FirstPageURL: u.url(1),
		LastPage:     page.LastPage,
		LastPageURL:  u.url(page.LastPage),
		Path:         path,
		PerPage:      page.PerPage,
		Total:        page.Total,
	}
	if p.Data == nil {
		p.Data = []domain.Todo{}
	}
	if len(page.Items) > 0 {
		from, to := page.From(), page.To()
		p.From, p.To = &from, &to
	}
	if page.HasPrevious() {
		prev := u.url(page.CurrentPage - 1)
		p.PrevPageURL = &prev
	}
	if page.HasNext() {
		next := u.url(page.CurrentPage + 1)
		p.NextPageURL = &next
	}

	p.Links = append(p.Links, PageLink{URL: p.PrevPageURL, Label: linkPrevious})
	for _, n := range pageWindow(page.CurrentPage, page.LastPage) {
		if n == 0 {
			p.Links = append(p.Links, PageLink{Label: linkGap})
			continue
		}
		link := u.url(n)
		p.Links = append(p.Links, PageLink{URL: &link, Label: strconv.Itoa(n), Active: n == page.CurrentPage})
	}
	p.Links = append(p.Links, PageLink{URL: p.NextPageURL, Label: linkNext})
	return p
}

// pageWindow lists the page numbers to link, with 0 marking a gap. Short
// ranges are listed in full; long ones keep both ends and a slider around
// current.
func pageWindow(current, last int) []int {
	window := onEachSide + 4
	if last < onEachSide*2+8 {
		return pageRange(1, last)
	}

	var out []int
	switch {
	case current <= window:
		out = append(out, pageRange(1, window+onEachSide)...)
		out = append(out, 0)
		out = append(out, pageRange(last-1, last)...)
	case current > last-window:
		out = append(out, 1, 2, 0)
		out = append(out, pageRange(last-(window+onEachSide-1), last)...)
	default:
		out = append(out, 1, 2, 0)
		out = append(out, pageRange(current-onEachSide, current+onEachSide)...)
		out = append(out, 0)
		out = append(out, pageRange(last-1, last)...)
	}
	return out
}

func pageRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, n)
	}
	return out
}

type pageURLer struct {
	path string
	keep []QueryParam
}

func (u pageURLer) url(page int) string {
	var b strings.Builder
	b.WriteString(u.path)
	b.WriteByte('?')
	for _, q := range u.keep {
		b.WriteString(url.QueryEscape(q.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(q.Value))
		b.WriteByte('&')
	}
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(page))
	return b.String()
}
