package reminders

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/action-reminders/reminders-go/pkg/records"
)

// Placeholders are brace-delimited tokens; matches span to the nearest
// closing brace.
var fieldRe = regexp.MustCompile(`\{[^{}]*\}`)

// daysField is the reserved placeholder substituted with the look-ahead
// window instead of a user field.
const daysField = "days"

// Substitute expands every {name} placeholder in the template against the
// user record. The reserved {days} placeholder becomes the decimal form of
// days. Substitution is total-or-nothing: an unknown field aborts with
// *UnknownFieldError and no partial output is returned.
func Substitute(template string, user records.Record, days int) (string, error) {
	var substErr error
	result := fieldRe.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		if name == daysField {
			return strconv.Itoa(days)
		}
		if value, ok := user[name]; ok {
			return records.FormatValue(value)
		}
		if substErr == nil {
			substErr = &UnknownFieldError{Field: name}
		}
		return match
	})
	if substErr != nil {
		return "", substErr
	}
	return result, nil
}

// Fields extracts the set of distinct placeholder names in a template,
// braces stripped.
func Fields(template string) map[string]bool {
	fields := make(map[string]bool)
	for _, match := range fieldRe.FindAllString(template, -1) {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "{"), "}")
		fields[name] = true
	}
	return fields
}
