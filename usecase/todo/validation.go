package todo

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fastygo/todo/domain"
)

// Payload is the raw, untrusted todo form. A nil field was not sent.
// Identity and ownership are deliberately absent: they never come from clients.
type Payload struct {
	Title       *string
	Description *string
	IsCompleted *string
	Filter      *string
}

// Validate normalizes p into a TodoInput or reports every failing field.
func Validate(p Payload) (domain.TodoInput, error) {
	var (
		input domain.TodoInput
		verr  domain.ValidationError
	)

	title := ""
	if p.Title != nil {
		title = strings.TrimSpace(*p.Title)
	}
	switch {
	case title == "":
		verr.Add("title", domain.ValidationRequired, "The title field is required.")
	case utf8.RuneCountInString(title) > domain.TitleMaxLength:
		verr.Add("title", domain.ValidationTooLong,
			fmt.Sprintf("The title field must not be greater than %d characters.", domain.TitleMaxLength))
	default:
		input.Title = title
	}

	if p.Description != nil {
		description := strings.TrimSpace(*p.Description)
		switch {
		case description == "":
		case utf8.RuneCountInString(description) > domain.DescriptionMaxLength:
			verr.Add("description", domain.ValidationTooLong,
				fmt.Sprintf("The description field must not be greater than %d characters.", domain.DescriptionMaxLength))
		default:
			input.Description = &description
		}
	}

	if p.IsCompleted != nil {
		completed := ParseBool(*p.IsCompleted)
		input.IsCompleted = &completed
	}

	input.Filter = RedirectFilter(p.Filter)

	if err := verr.OrNil(); err != nil {
		return domain.TodoInput{}, err
	}
	return input, nil
}

// ParseBool maps the usual textual booleans. Any other non-empty value is
// truthy rather than rejected.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "on", "yes":
		return true
	case "false", "0", "off", "no", "":
		return false
	default:
		return true
	}
}

// RedirectFilter returns token when it is a known filter and "all" otherwise.
func RedirectFilter(token *string) string {
	if token == nil || !domain.IsKnownFilter(*token) {
		return domain.FilterAll
	}
	return *token
}
