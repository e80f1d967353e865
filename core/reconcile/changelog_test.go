package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventMessages(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{"created", Created("CommonName", "Foxglove"), "The CommonName 'Foxglove' does not yet exist in the database, so it has been created."},
		{"loaded", Loaded("Index", "Perennial"), "The Index 'Perennial' has been loaded from the database."},
		{"set", Set("Index", "Perennial", "Description", "", "Come back every year."), "Description for 'Perennial' set to: Come back every year."},
		{"cleared", Cleared("Index", "Perennial", "Description", "x"), "Description for 'Perennial' has been cleared."},
		{"added", Added("CommonName", "Foxglove", "grows with", "Coleus"), "'Coleus' has been added to grows with for 'Foxglove'."},
		{"removed", Removed("CommonName", "Foxglove", "grows with", "Butterfly Weed"), "'Butterfly Weed' has been removed from grows with for 'Foxglove'."},
		{"unchanged", Unchanged("CommonName", "Foxglove"), "No changes were made to 'Foxglove'."},
		{"visible", Visibility("Cultivar", "Foxy Foxglove", true), "'Foxy Foxglove' is now visible."},
		{"hidden", Visibility("Cultivar", "Foxy Foxglove", false), "'Foxy Foxglove' is now hidden."},
		{"warning", Warning("Packet", "F100", "owned elsewhere"), "WARNING: owned elsewhere"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ev.Message)
		})
	}
}

func TestActionIsChange(t *testing.T) {
	for _, a := range []Action{ActionCreated, ActionSet, ActionCleared, ActionAdded, ActionRemoved, ActionVisibility} {
		assert.True(t, a.IsChange(), a)
	}
	for _, a := range []Action{ActionLoaded, ActionUnchanged, ActionRejected, ActionWarning} {
		assert.False(t, a.IsChange(), a)
	}
}

func TestChangeLog(t *testing.T) {
	log := &ChangeLog{}
	log.Append(Created("Index", "Perennial"))
	log.Append(Unchanged("CommonName", "Foxglove"), Warning("Packet", "F1", "careful"))

	assert.Equal(t, 3, log.Len())
	assert.Equal(t, []string{
		"The Index 'Perennial' does not yet exist in the database, so it has been created.",
		"No changes were made to 'Foxglove'.",
		"WARNING: careful",
	}, log.Render())

	// Events returns a copy
	events := log.Events()
	events[0].Message = "mutated"
	assert.NotEqual(t, "mutated", log.Events()[0].Message)
}
