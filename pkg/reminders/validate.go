package reminders

import (
	"fmt"
	"sort"
	"strings"

	"github.com/action-reminders/reminders-go/pkg/records"
)

// ValidateUsers verifies every user carries the fields the message
// templates reference plus a usable email address. Validation is
// fail-complete: every invalid user produces exactly one message, and the
// whole list is scanned in one pass with no early exit.
func (e *Engine) ValidateUsers(users []records.Record) []string {
	fields := Fields(e.Preamble)
	for f := range Fields(e.Close) {
		fields[f] = true
	}
	delete(fields, daysField)    // not part of the user record
	delete(fields, e.EmailField) // missing email is reported separately

	var errors []string
	for _, user := range users {
		var reasons []string
		if !records.IsNonEmptyString(user[e.EmailField]) {
			reasons = append(reasons, "missing email")
		}
		if missing := missingFields(user, fields); len(missing) > 0 {
			reasons = append(reasons, fmt.Sprintf("missing email fields %s", strings.Join(missing, "/")))
		}
		if len(reasons) > 0 {
			errors = append(errors, fmt.Sprintf("%s (%s) error(s): %s",
				user.String(e.UserField), user.Row(), strings.Join(reasons, ", ")))
		}
	}
	return errors
}

// ValidateActions verifies every action names an assignee, has a
// date-typed due field, and carries every configured table column.
// Fail-complete, like ValidateUsers.
func (e *Engine) ValidateActions(actions []records.Record) []string {
	fields := make(map[string]bool, len(e.Columns))
	for _, column := range e.Columns {
		fields[column] = true
	}
	// assignee and due date get dedicated checks, avoid redundant errors
	delete(fields, e.UserField)
	delete(fields, e.DueField)

	var errors []string
	for _, action := range actions {
		var reasons []string
		if !records.IsNonEmptyString(action[e.UserField]) {
			reasons = append(reasons, "missing assignment")
		}
		if _, ok := records.DateValue(action[e.DueField]); !ok {
			reasons = append(reasons, "missing due date")
		}
		if missing := missingFields(action, fields); len(missing) > 0 {
			reasons = append(reasons, fmt.Sprintf("missing table fields %s", strings.Join(missing, "/")))
		}
		if len(reasons) > 0 {
			errors = append(errors, fmt.Sprintf("%s (%s) error(s): %s",
				action.String(e.IDField), action.Row(), strings.Join(reasons, ", ")))
		}
	}
	return errors
}

// missingFields returns the sorted field names absent from the record.
func missingFields(record records.Record, fields map[string]bool) []string {
	var missing []string
	for field := range fields {
		if _, ok := record[field]; !ok {
			missing = append(missing, field)
		}
	}
	sort.Strings(missing)
	return missing
}
