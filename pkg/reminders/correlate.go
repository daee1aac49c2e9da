package reminders

import (
	"strings"

	"github.com/action-reminders/reminders-go/pkg/records"
)

// Group pairs a user with the ordered action items assigned to them.
type Group struct {
	User    records.Record
	Actions []records.Record
}

// Correlate organizes actions by responsible user. An action's assignee
// field may name several users separated by '/'; each resolved user gets
// their own copy of the action. Group order is the first-appearance order
// of each distinct user while scanning the actions top to bottom.
//
// Correlation is fail-fast: the first assignee token that resolves to no
// one aborts with *MissingUserError, and an ambiguous token propagates the
// resolver's *AmbiguousUserError. No partial grouping is returned. This is
// deliberately unlike the validators, which collect every violation; an
// unresolvable assignee is a data-quality problem that poisons the whole
// run.
func (e *Engine) Correlate(users, actions []records.Record) ([]Group, error) {
	var order []string
	byName := make(map[string][]records.Record)

	for _, action := range actions {
		assignees, _ := action[e.UserField].(string)
		for _, name := range strings.Split(assignees, "/") {
			user, err := FindUser(users, name)
			if err != nil {
				return nil, err
			}
			if user == nil {
				return nil, &MissingUserError{
					Name:     name,
					ActionID: action.String(e.IDField),
					Row:      action.Row(),
				}
			}
			uname := user.String(e.UserField)
			if _, seen := byName[uname]; !seen {
				order = append(order, uname)
			}
			byName[uname] = append(byName[uname], action)
		}
	}

	// materialize the accumulated names back into (user, actions) pairs
	groups := make([]Group, 0, len(order))
	for _, uname := range order {
		user, err := FindUser(users, uname)
		if err != nil {
			return nil, err
		}
		groups = append(groups, Group{User: user, Actions: byName[uname]})
	}
	return groups, nil
}
