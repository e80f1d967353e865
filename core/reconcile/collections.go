package reconcile

import (
	"fmt"
	"sort"
)

// SetOps are the callbacks ReconcileSet uses to apply a membership change.
type SetOps[M any] struct {
	// Kind is the owner's entity kind, used on emitted events.
	Kind string

	// Resolve turns a staged member into a persisted one, creating a
	// placeholder when needed. Nil means staged members are used as-is.
	Resolve func(M) (M, error)

	// Attach links a resolved member to the owner.
	Attach func(M) error

	// Detach unlinks a member from the owner without deleting it.
	Detach func(M) error

	// Label renders a member for messages. Nil means the member key.
	Label func(M) string
}

// SetResult is the membership after reconciliation.
type SetResult[M any] struct {
	Added   []M
	Removed []M
	Kept    []M
}

// Members returns the final membership: kept members followed by added ones.
func (r SetResult[M]) Members() []M {
	out := make([]M, 0, len(r.Kept)+len(r.Added))
	out = append(out, r.Kept...)
	return append(out, r.Added...)
}

// Changed reports whether anything was added or removed.
func (r SetResult[M]) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

// ReconcileSet converges the current members of a relation onto the staged
// members, comparing by natural key. Removals are applied and reported before
// additions, each group ordered by key.
func ReconcileSet[M any](owner, relation string, current, staged []M, key func(M) string, ops SetOps[M]) (SetResult[M], []Event, error) {
	var result SetResult[M]

	currentByKey := indexByKey(current, key)
	stagedByKey := indexByKey(staged, key)

	label := func(m M) string {
		if ops.Label != nil {
			return ops.Label(m)
		}
		return key(m)
	}

	var events []Event

	for _, k := range sortedKeys(currentByKey) {
		m := currentByKey[k]
		if _, ok := stagedByKey[k]; ok {
			result.Kept = append(result.Kept, m)
			continue
		}
		if ops.Detach != nil {
			if err := ops.Detach(m); err != nil {
				return result, events, fmt.Errorf("failed to remove %s from %s: %w", label(m), relation, err)
			}
		}
		result.Removed = append(result.Removed, m)
		events = append(events, Removed(ops.Kind, owner, relation, label(m)))
	}

	for _, k := range sortedKeys(stagedByKey) {
		if _, ok := currentByKey[k]; ok {
			continue
		}
		m := stagedByKey[k]
		if ops.Resolve != nil {
			resolved, err := ops.Resolve(m)
			if err != nil {
				return result, events, err
			}
			m = resolved
		}
		if ops.Attach != nil {
			if err := ops.Attach(m); err != nil {
				return result, events, fmt.Errorf("failed to add %s to %s: %w", label(m), relation, err)
			}
		}
		result.Added = append(result.Added, m)
		events = append(events, Added(ops.Kind, owner, relation, label(m)))
	}

	return result, events, nil
}

func indexByKey[M any](items []M, key func(M) string) map[string]M {
	out := make(map[string]M, len(items))
	for _, it := range items {
		k := key(it)
		if _, dup := out[k]; !dup {
			out[k] = it
		}
	}
	return out
}

func sortedKeys[M any](m map[string]M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
