package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestDiffFields_SetAndClear(t *testing.T) {
	description := "Old description."
	instructions := "Sow in spring."

	events := DiffFields("CommonName", "Foxglove",
		Text("Description", strPtr("A biennial."), &description),
		Text("Planting instructions", strPtr(""), &instructions),
	)

	require.Len(t, events, 2)
	assert.Equal(t, "Description for 'Foxglove' set to: A biennial.", events[0].Message)
	assert.Equal(t, ActionSet, events[0].Action)
	assert.Equal(t, "Old description.", events[0].Old)
	assert.Equal(t, "Planting instructions for 'Foxglove' has been cleared.", events[1].Message)
	assert.Equal(t, ActionCleared, events[1].Action)

	assert.Equal(t, "A biennial.", description)
	assert.Equal(t, "", instructions)
}

func TestDiffFields_AbsentAndEqual(t *testing.T) {
	description := "Same."
	inStock := true

	events := DiffFields("Cultivar", "Foxy Foxglove",
		Text("Description", nil, &description),
		Text("Description", strPtr("  Same.  "), &description),
		Flag("In stock", boolPtr(true), &inStock),
	)
	assert.Empty(t, events)
	assert.Equal(t, "Same.", description)
}

func TestDiffFields_FlagFalseIsNotCleared(t *testing.T) {
	active := true
	events := DiffFields("Cultivar", "Foxy Foxglove", Flag("Active", boolPtr(false), &active))

	require.Len(t, events, 1)
	assert.Equal(t, "Active for 'Foxy Foxglove' set to: false", events[0].Message)
	assert.False(t, active)
}

func TestField_CustomEquality(t *testing.T) {
	stored := 250 // cents
	f := Field[int]{
		Label:   "Price",
		Staged:  250,
		Present: true,
		Get:     func() int { return stored },
		Set:     func(v int) { stored = v },
		Equal:   func(a, b int) bool { return a == b },
		Format:  func(v int) string { return "$2.50" },
	}
	_, changed := f.Diff("Packet", "F100")
	assert.False(t, changed)

	f.Staged = 299
	f.Format = func(v int) string { return map[int]string{250: "$2.50", 299: "$2.99"}[v] }
	ev, changed := f.Diff("Packet", "F100")
	require.True(t, changed)
	assert.Equal(t, "Price for 'F100' set to: $2.99", ev.Message)
	assert.Equal(t, "$2.50", ev.Old)
	assert.Equal(t, 299, stored)
}

func TestSplitListAndSameSet(t *testing.T) {
	assert.Nil(t, SplitList("  "))
	assert.Equal(t, []string{"Digitalis", "Foxgloves"}, SplitList("Digitalis, Foxgloves,"))

	assert.True(t, SameSet([]string{"b", "a"}, []string{"a", "b", "a"}))
	assert.False(t, SameSet([]string{"a"}, []string{"a", "b"}))
	assert.True(t, SameSet(nil, []string{}))
}
