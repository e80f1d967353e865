package reconcile

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	Name        string
	Placeholder bool
}

func memberKey(m member) string { return m.Name }

// relation is an in-memory membership used to check convergence.
type relation struct {
	members map[string]member
}

func newRelation(names ...string) *relation {
	r := &relation{members: map[string]member{}}
	for _, n := range names {
		r.members[n] = member{Name: n}
	}
	return r
}

func (r *relation) current() []member {
	out := make([]member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	return out
}

func (r *relation) names() []string {
	out := make([]string, 0, len(r.members))
	for n := range r.members {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (r *relation) ops() SetOps[member] {
	return SetOps[member]{
		Kind: "CommonName",
		Resolve: func(m member) (member, error) {
			m.Placeholder = true
			return m, nil
		},
		Attach: func(m member) error {
			r.members[m.Name] = m
			return nil
		},
		Detach: func(m member) error {
			delete(r.members, m.Name)
			return nil
		},
	}
}

func members(names ...string) []member {
	out := make([]member, 0, len(names))
	for _, n := range names {
		out = append(out, member{Name: n})
	}
	return out
}

func TestReconcileSet_Switcheroo(t *testing.T) {
	rel := newRelation("Butterfly Weed")

	result, events, err := ReconcileSet("Foxglove", "grows with", rel.current(), members("Coleus"), memberKey, rel.ops())
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "'Butterfly Weed' has been removed from grows with for 'Foxglove'.", events[0].Message)
	assert.Equal(t, ActionRemoved, events[0].Action)
	assert.Equal(t, "'Coleus' has been added to grows with for 'Foxglove'.", events[1].Message)
	assert.Equal(t, ActionAdded, events[1].Action)

	assert.Equal(t, []string{"Coleus"}, rel.names())
	assert.True(t, result.Changed())
	require.Len(t, result.Added, 1)
	assert.True(t, result.Added[0].Placeholder, "added members go through the resolver")
}

func TestReconcileSet_NoChanges(t *testing.T) {
	rel := newRelation("Coleus", "Foxglove")

	result, events, err := ReconcileSet("Zinnia", "grows with", rel.current(), members("Foxglove", "Coleus", "Coleus"), memberKey, rel.ops())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.False(t, result.Changed())
	assert.Len(t, result.Members(), 2)
}

func TestReconcileSet_DeterministicOrder(t *testing.T) {
	rel := newRelation("d", "b", "x")
	_, events, err := ReconcileSet("Owner", "synonyms", rel.current(), members("c", "a", "x"), memberKey, rel.ops())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"'b' has been removed from synonyms for 'Owner'.",
		"'d' has been removed from synonyms for 'Owner'.",
		"'a' has been added to synonyms for 'Owner'.",
		"'c' has been added to synonyms for 'Owner'.",
	}, Messages(events))
}

func TestReconcileSet_Convergence(t *testing.T) {
	universe := []string{"a", "b", "c", "d", "e", "f", "g"}
	rng := rand.New(rand.NewSource(42))

	pick := func() []string {
		var out []string
		for _, n := range universe {
			if rng.Intn(2) == 0 {
				out = append(out, n)
			}
		}
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}

	for i := 0; i < 50; i++ {
		rel := newRelation(pick()...)
		staged := pick()

		_, _, err := ReconcileSet("Owner", "members", rel.current(), members(staged...), memberKey, rel.ops())
		require.NoError(t, err)

		want := append([]string{}, staged...)
		sort.Strings(want)
		if len(want) == 0 {
			assert.Empty(t, rel.names())
			continue
		}
		assert.Equal(t, want, rel.names())
	}
}

func TestReconcileSet_ErrorsStopProcessing(t *testing.T) {
	rel := newRelation("a")
	boom := errors.New("boom")
	ops := rel.ops()
	ops.Resolve = func(m member) (member, error) { return m, boom }

	_, events, err := ReconcileSet("Owner", "members", rel.current(), members("b"), memberKey, ops)
	assert.ErrorIs(t, err, boom)
	// the removal happened before the failing addition
	require.Len(t, events, 1)
	assert.Equal(t, ActionRemoved, events[0].Action)
}

func TestReconcileSet_CustomLabel(t *testing.T) {
	rel := newRelation()
	ops := rel.ops()
	ops.Label = func(m member) string { return "Foxglove " + m.Name }

	_, events, err := ReconcileSet("Coleus", "grows with cultivars", nil, members("Polkadot Petra"), memberKey, ops)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "'Foxglove Polkadot Petra' has been added to grows with cultivars for 'Coleus'.", events[0].Message)
}
