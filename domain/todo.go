package domain

import "time"

// Filter tokens accepted by the dashboard. Matching is case-sensitive.
const (
	FilterAll       = "all"
	FilterActive    = "active"
	FilterCompleted = "completed"
)

const (
	TitleMaxLength       = 255
	DescriptionMaxLength = 10000

	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Todo is a single user-owned task item.
type Todo struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TodoInput is a validated, normalized set of mutable todo fields.
// IsCompleted is nil when the caller did not send the field.
type TodoInput struct {
	Title       string
	Description *string
	IsCompleted *bool
	Filter      string
}

// Apply copies the mutable fields onto t. Identity, owner and creation time
// are left untouched.
func (in TodoInput) Apply(t *Todo) {
	t.Title = in.Title
	t.Description = in.Description
	if in.IsCompleted != nil {
		t.IsCompleted = *in.IsCompleted
	}
}

// IsKnownFilter reports whether token is one of the accepted filter tokens.
func IsKnownFilter(token string) bool {
	switch token {
	case FilterAll, FilterActive, FilterCompleted:
		return true
	}
	return false
}

// TodoPage is one page of a user's todos together with paging metadata.
type TodoPage struct {
	Items       []Todo
	CurrentPage int
	PerPage     int
	Total       int
	LastPage    int
	// Filter is the token exactly as requested, even when unrecognized.
	Filter string
}

// From is the 1-based position of the first item on the page, or 0 when empty.
func (p *TodoPage) From() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.CurrentPage-1)*p.PerPage + 1
}

// To is the 1-based position of the last item on the page, or 0 when empty.
func (p *TodoPage) To() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.From() + len(p.Items) - 1
}

func (p *TodoPage) HasPrevious() bool {
	return p.CurrentPage > 1
}

func (p *TodoPage) HasNext() bool {
	return p.CurrentPage < p.LastPage
}
