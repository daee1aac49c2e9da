package reminders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/action-reminders/reminders-go/pkg/records"
)

func testUsers() []records.Record {
	return []records.Record{
		{
			"User":         "Fred Flintstone",
			"First Name":   "Fred",
			"Email":        "fred@example.com",
			"Aliases":      "FF",
			records.RowKey: "users:1",
		},
		{
			"User":         "Wilma Flintstone",
			"First Name":   "Wilma",
			"Email":        "wilma@example.com",
			"Aliases":      "",
			records.RowKey: "users:2",
		},
		{
			"User":         "Barney Rubble",
			"First Name":   "Barney",
			"Email":        "barney@example.com",
			"Aliases":      "BR",
			records.RowKey: "users:3",
		},
	}
}

// TestFindUser_MatchesByAlias tests that a query matching only an alias
// field still resolves the user
func TestFindUser_MatchesByAlias(t *testing.T) {
	user, err := FindUser(testUsers(), "ff")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Fred Flintstone", user["User"])
}

// TestFindUser_MatchesByEmail tests substring matching on the email field
func TestFindUser_MatchesByEmail(t *testing.T) {
	user, err := FindUser(testUsers(), "barney@example")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Barney Rubble", user["User"])
}

// TestFindUser_CaseInsensitiveAndTrimmed tests query normalization
func TestFindUser_CaseInsensitiveAndTrimmed(t *testing.T) {
	user, err := FindUser(testUsers(), "  WILMA ")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Wilma Flintstone", user["User"])
}

// TestFindUser_NoMatch tests that an unknown query returns nil without an
// error; callers decide how to react
func TestFindUser_NoMatch(t *testing.T) {
	user, err := FindUser(testUsers(), "nobody")

	require.NoError(t, err)
	assert.Nil(t, user)
}

// TestFindUser_Ambiguous tests that a query matching several users fails
// with the provenance labels of every candidate, in encounter order
func TestFindUser_Ambiguous(t *testing.T) {
	user, err := FindUser(testUsers(), "flintstone")

	assert.Nil(t, user)
	require.Error(t, err)

	var ambiguous *AmbiguousUserError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "flintstone", ambiguous.Query)
	assert.Equal(t, []string{"users:1", "users:2"}, ambiguous.Matches)
	assert.Equal(t, "Ambiguous result for 'flintstone' matches: users:1, users:2", err.Error())
}

// TestFindUser_MatchedOncePerUser tests that a user matching on several
// fields is still a single candidate
func TestFindUser_MatchedOncePerUser(t *testing.T) {
	users := []records.Record{
		{
			"User":         "Fred Flintstone",
			"Nickname":     "fred",
			"Email":        "fred@example.com",
			records.RowKey: "users:1",
		},
	}

	user, err := FindUser(users, "fred")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Fred Flintstone", user["User"])
}

// TestFindUser_IgnoresNonStringFields tests that dates and numbers are
// skipped during matching
func TestFindUser_IgnoresNonStringFields(t *testing.T) {
	users := []records.Record{
		{
			"User":         "Fred Flintstone",
			"Badge":        float64(42),
			records.RowKey: "users:1",
		},
	}

	user, err := FindUser(users, "42")

	require.NoError(t, err)
	assert.Nil(t, user)
}
