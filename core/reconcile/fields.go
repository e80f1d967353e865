package reconcile

import (
	"fmt"
	"sort"
	"strings"
)

// FieldDiffer compares one staged field against the persisted value and, when
// they differ, applies the staged value and returns the event describing it.
type FieldDiffer interface {
	Diff(kind, entity string) (Event, bool)
}

// Field binds a staged value to a persisted one through accessor functions.
// A field whose Present flag is false is left untouched.
type Field[T any] struct {
	Label   string
	Staged  T
	Present bool
	Get     func() T
	Set     func(T)
	Equal   func(a, b T) bool
	Format  func(T) string
	IsEmpty func(T) bool
}

// Diff implements FieldDiffer.
func (f Field[T]) Diff(kind, entity string) (Event, bool) {
	if !f.Present {
		return Event{}, false
	}
	current := f.Get()
	if f.equal(current, f.Staged) {
		return Event{}, false
	}
	f.Set(f.Staged)

	old := f.format(current)
	if f.empty(f.Staged) {
		return Cleared(kind, entity, f.Label, old), true
	}
	return Set(kind, entity, f.Label, old, f.format(f.Staged)), true
}

func (f Field[T]) equal(a, b T) bool {
	if f.Equal != nil {
		return f.Equal(a, b)
	}
	return f.format(a) == f.format(b)
}

func (f Field[T]) format(v T) string {
	if f.Format != nil {
		return f.Format(v)
	}
	return fmt.Sprint(v)
}

func (f Field[T]) empty(v T) bool {
	if f.IsEmpty != nil {
		return f.IsEmpty(v)
	}
	return f.format(v) == ""
}

// Text binds an optional staged string to a persisted string.
// A nil staged value means the column was absent.
func Text(label string, staged *string, target *string) Field[string] {
	f := Field[string]{
		Label: label,
		Get:   func() string { return *target },
		Set:   func(v string) { *target = v },
		Equal: func(a, b string) bool { return a == b },
	}
	if staged != nil {
		f.Staged = strings.TrimSpace(*staged)
		f.Present = true
	}
	return f
}

// Flag binds an optional staged bool to a persisted bool.
func Flag(label string, staged *bool, target *bool) Field[bool] {
	f := Field[bool]{
		Label:   label,
		Get:     func() bool { return *target },
		Set:     func(v bool) { *target = v },
		Equal:   func(a, b bool) bool { return a == b },
		IsEmpty: func(bool) bool { return false },
	}
	if staged != nil {
		f.Staged = *staged
		f.Present = true
	}
	return f
}

// DiffFields runs every differ in order and collects the resulting events.
func DiffFields(kind, entity string, fields ...FieldDiffer) []Event {
	var events []Event
	for _, f := range fields {
		if ev, changed := f.Diff(kind, entity); changed {
			events = append(events, ev)
		}
	}
	return events
}

// SynonymSeparator joins synonyms in their delimited string form.
const SynonymSeparator = ", "

// SplitList splits a delimited synonym string into trimmed, non-empty names.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SameSet reports whether two name lists hold the same members, ignoring order
// and duplicates.
func SameSet(a, b []string) bool {
	return strings.Join(normalizeSet(a), "\x00") == strings.Join(normalizeSet(b), "\x00")
}

func normalizeSet(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
