package reminders

import (
	"fmt"
	"strings"
)

// AmbiguousUserError is returned when a query matches more than one person.
// Matches holds the provenance labels of every candidate, in the order
// encountered.
type AmbiguousUserError struct {
	Query   string
	Matches []string
}

func (e *AmbiguousUserError) Error() string {
	return fmt.Sprintf("Ambiguous result for '%s' matches: %s", e.Query, strings.Join(e.Matches, ", "))
}

// MissingUserError is returned the first time an assignee token resolves
// to no one. ActionID and Row identify the offending action item.
type MissingUserError struct {
	Name     string
	ActionID string
	Row      string
}

func (e *MissingUserError) Error() string {
	return fmt.Sprintf("Missing '%s' on %s, row=%s", e.Name, e.ActionID, e.Row)
}

// UnknownFieldError is returned when a template placeholder names a field
// the person record does not have.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("Missing user field='%s'", e.Field)
}
