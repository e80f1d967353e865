package reconcile

import "seed-catalog/core/reconcile"

// applyVisibility shows or hides an entity processed as a primary record.
// The record is visible unless its Visible column says otherwise, so a
// placeholder created by a reference becomes visible once its own record
// arrives. It reports whether the flag changed; entities created by this
// record change silently since their creation event already covers it.
func applyVisibility(kind, entity string, created bool, visible *bool, invisible *bool) ([]reconcile.Event, bool) {
	want := visible == nil || *visible
	if *invisible == !want {
		return nil, false
	}
	*invisible = !want
	if created {
		return nil, true
	}
	return []reconcile.Event{reconcile.Visibility(kind, entity, want)}, true
}
