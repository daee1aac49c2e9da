// Package reminders implements the correlation and rendering core: fuzzy
// person resolution, grouping of action items by responsible person,
// required-field validation, and message template substitution.
package reminders

import (
	"sort"
	"time"

	"github.com/action-reminders/reminders-go/pkg/records"
)

// Engine holds the configured field roles and message settings the core
// operations work against. It is immutable during a run.
type Engine struct {
	UserField   string // identifying field shared by users and actions
	EmailField  string
	IDField     string
	DueField    string
	StatusField string
	OpenStatus  string // status value marking an action as still open

	Preamble string
	Close    string
	Columns  []string
	Align    map[string]string
}

// OpenActions keeps only the actions whose status field equals the
// configured open status. Closed items may reference users no longer in
// the system, so this runs before correlation.
func (e *Engine) OpenActions(actions []records.Record) []records.Record {
	var open []records.Record
	for _, action := range actions {
		if action.String(e.StatusField) == e.OpenStatus {
			open = append(open, action)
		}
	}
	return open
}

// DueBefore keeps only the actions whose due date falls before the cutoff.
func (e *Engine) DueBefore(actions []records.Record, cutoff time.Time) []records.Record {
	var due []records.Record
	for _, action := range actions {
		if t, ok := records.DateValue(action[e.DueField]); ok && t.Before(cutoff) {
			due = append(due, action)
		}
	}
	return due
}

// SortByDue orders actions by ascending due date so tables display them in
// deadline order. The input slice is not modified.
func (e *Engine) SortByDue(actions []records.Record) []records.Record {
	sorted := make([]records.Record, len(actions))
	copy(sorted, actions)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, _ := records.DateValue(sorted[i][e.DueField])
		tj, _ := records.DateValue(sorted[j][e.DueField])
		return ti.Before(tj)
	})
	return sorted
}
