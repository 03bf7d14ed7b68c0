package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNow_MatchesColumnPrecision(t *testing.T) {
	ts := Now()

	assert.Equal(t, time.UTC, ts.Location())
	assert.Equal(t, ts.Truncate(time.Microsecond), ts)
	assert.Zero(t, ts.Nanosecond()%int(time.Microsecond))
}

func TestConstructors_StampStorableTimes(t *testing.T) {
	author := UserRef(NewID())

	s, err := NewSuggestion(author, "Hello there", "en", "")
	require.NoError(t, err)
	d, err := NewDialog(author, DialogMessage{Role: RoleUserTurn, Content: "hi"})
	require.NoError(t, err)
	v, err := NewVocabulary(author, "casa", "es")
	require.NoError(t, err)

	for name, ts := range map[string]time.Time{
		"suggestion.created": s.CreatedAt,
		"suggestion.updated": s.UpdatedAt,
		"dialog.created":     d.CreatedAt,
		"dialog.updated":     d.UpdatedAt,
		"vocabulary.created": v.CreatedAt,
	} {
		assert.Equal(t, time.UTC, ts.Location(), name)
		assert.Equal(t, ts.Truncate(time.Microsecond), ts, name)
	}
}
