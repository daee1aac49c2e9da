package reminders

import (
	"strings"

	"github.com/action-reminders/reminders-go/pkg/records"
)

// FindUser searches the whole list of users for one with a field value the
// query is a substring of, case-insensitively. Any string-typed field can
// match, so a query may hit on a name, an alias, or an email address.
//
// Returns nil when nothing matches; callers decide how to react. Returns
// *AmbiguousUserError when more than one distinct user matches, carrying
// the provenance label of every candidate.
func FindUser(users []records.Record, query string) (records.Record, error) {
	search := strings.ToLower(strings.TrimSpace(query))

	var matches []records.Record
	for _, user := range users {
		for _, value := range user {
			s, ok := value.(string)
			if !ok {
				continue
			}
			if strings.Contains(strings.ToLower(s), search) {
				// a user is a candidate once, no matter how many fields hit
				matches = append(matches, user)
				break
			}
		}
	}

	if len(matches) == 0 {
		return nil, nil
	}
	if len(matches) > 1 {
		rows := make([]string, len(matches))
		for i, m := range matches {
			rows[i] = m.Row()
		}
		return nil, &AmbiguousUserError{Query: query, Matches: rows}
	}
	return matches[0], nil
}
