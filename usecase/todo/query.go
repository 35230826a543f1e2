package todo

import (
	"math"
	"strconv"
	"strings"

	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/repository"
)

// ListRequest carries the dashboard query string values as received.
type ListRequest struct {
	Filter  string
	Page    string
	PerPage string
}

// NormalizePerPage accepts a numeric value in (0, 100] and falls back to the
// default page size for anything else.
func NormalizePerPage(raw string) int {
	raw = strings.TrimSpace(raw)
	if !isDecimal(raw) {
		return domain.DefaultPerPage
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return domain.DefaultPerPage
	}
	if v <= 0 || v > domain.MaxPerPage {
		return domain.DefaultPerPage
	}
	if n := int(v); n >= 1 {
		return n
	}
	return domain.DefaultPerPage
}

// isDecimal reports whether raw is written with decimal digits, a sign, a
// point and an exponent only. ParseFloat alone would also take hex floats,
// underscores, "inf" and "nan".
func isDecimal(raw string) bool {
	if raw == "" {
		return false
	}
	digits := false
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits = true
		case r == '.' || r == '+' || r == '-' || r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return digits
}

// NormalizePage treats anything that is not an integer >= 1 as the first page.
func NormalizePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// EchoFilter is the filter token reported back to the caller: verbatim, or
// "all" when none was sent.
func EchoFilter(raw string) string {
	if raw == "" {
		return domain.FilterAll
	}
	return raw
}

// completionPredicate maps a filter token onto the is_completed predicate.
// Unknown tokens, including case variants, select everything.
func completionPredicate(token string) *bool {
	switch token {
	case domain.FilterActive:
		v := false
		return &v
	case domain.FilterCompleted:
		v := true
		return &v
	default:
		return nil
	}
}

// BuildQuery scopes req to user and resolves paging into limit and offset.
func BuildQuery(user *domain.User, req ListRequest) (repository.TodoQuery, int, int) {
	page := NormalizePage(req.Page)
	perPage := NormalizePerPage(req.PerPage)

	offset := (page - 1) * perPage
	if page > math.MaxInt/perPage {
		offset = math.MaxInt
	}

	return repository.TodoQuery{
		UserID:    user.ID,
		Completed: completionPredicate(req.Filter),
		Limit:     perPage,
		Offset:    offset,
	}, page, perPage
}

// LastPage is the number of the final page, never less than 1.
func LastPage(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1
	}
	return (total + perPage - 1) / perPage
}
