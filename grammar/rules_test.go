package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelectorRule(t *testing.T) {
	r, err := ParseSelectorRule("part(age, low, age, all) = 1")
	require.NoError(t, err)
	assert.Equal(t, "age", r.Name)
	assert.Equal(t, "low", r.Priority)
	assert.Equal(t, "age", r.Order)
	assert.Equal(t, "all", r.Property)
	require.NotNil(t, r.Part)
	assert.False(t, r.Part.All)
	assert.Equal(t, 1, r.Part.Count)
}

func TestParseSelectorRuleAllPart(t *testing.T) {
	r, err := ParseSelectorRule("part(hints, high, weight, hint) = all")
	require.NoError(t, err)
	assert.True(t, r.Part.All)
	assert.Equal(t, "hint", r.Property)
}

func TestParseSelectorRuleRejectsJunk(t *testing.T) {
	_, err := ParseSelectorRule("part(x, sideways, age, all) = 1")
	assert.Error(t, err)
}

func TestParseActionRuleAssign(t *testing.T) {
	r, err := ParseActionRule("given = 100 -> assign(max_weight, 25)")
	require.NoError(t, err)
	assert.Equal(t, "given", r.Trigger)
	assert.Equal(t, 100, r.Count)
	require.NotNil(t, r.Action.Assign)
	assert.Equal(t, "max_weight", r.Action.Assign.Name)
	assert.Equal(t, "25", r.Action.Assign.Value)
}

func TestParseActionRuleSetAndExit(t *testing.T) {
	r, err := ParseActionRule("kept = 5000 -> set(print_kept)")
	require.NoError(t, err)
	require.NotNil(t, r.Action.Set)
	assert.Equal(t, "print_kept", *r.Action.Set)

	r, err = ParseActionRule("level = 3 -> exit")
	require.NoError(t, err)
	assert.True(t, r.Action.Exit)
}

func TestParseAttrAction(t *testing.T) {
	a, err := ParseAttrAction("clear(print_given)")
	require.NoError(t, err)
	require.NotNil(t, a.Clear)
	assert.Equal(t, "print_given", *a.Clear)
}
