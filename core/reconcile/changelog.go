package reconcile

import (
	"fmt"
	"sync"
)

// Created builds the event for an entity that was missing and has been created.
func Created(kind, entity string) Event {
	return Event{
		Entity:  entity,
		Kind:    kind,
		Action:  ActionCreated,
		Message: fmt.Sprintf("The %s '%s' does not yet exist in the database, so it has been created.", kind, entity),
	}
}

// Loaded builds the event for an entity found by its natural key.
func Loaded(kind, entity string) Event {
	return Event{
		Entity:  entity,
		Kind:    kind,
		Action:  ActionLoaded,
		Message: fmt.Sprintf("The %s '%s' has been loaded from the database.", kind, entity),
	}
}

// Set builds the event for a field that received a new value.
func Set(kind, entity, field, old, value string) Event {
	return Event{
		Entity:  entity,
		Kind:    kind,
		Field:   field,
		Action:  ActionSet,
		Old:     old,
		New:     value,
		Message: fmt.Sprintf("%s for '%s' set to: %s", field, entity, value),
	}
}

// Cleared builds the event for a field that was emptied.
func Cleared(kind, entity, field, old string) Event {
	return Event{
		Entity:  entity,
		Kind:    kind,
		Field:   field,
		Action:  ActionCleared,
		Old:     old,
		Message: fmt.Sprintf("%s for '%s' has been cleared.", field, entity),
	}
}

// Added builds the event for a member attached to a relation.
func Added(kind, owner, relation, member string) Event {
	return Event{
		Entity:  owner,
		Kind:    kind,
		Field:   relation,
		Action:  ActionAdded,
		New:     member,
		Message: fmt.Sprintf("'%s' has been added to %s for '%s'.", member, relation, owner),
	}
}

// Removed builds the event for a member detached from a relation.
func Removed(kind, owner, relation, member string) Event {
	return Event{
		Entity:  owner,
		Kind:    kind,
		Field:   relation,
		Action:  ActionRemoved,
		Old:     member,
		Message: fmt.Sprintf("'%s' has been removed from %s for '%s'.", member, relation, owner),
	}
}

// Unchanged builds the single event of a record that changed nothing.
func Unchanged(kind, entity string) Event {
	return Event{
		Entity:  entity,
		Kind:    kind,
		Action:  ActionUnchanged,
		Message: fmt.Sprintf("No changes were made to '%s'.", entity),
	}
}

// Visibility builds the event for an entity that was shown or hidden.
func Visibility(kind, entity string, visible bool) Event {
	state := "hidden"
	if visible {
		state = "visible"
	}
	return Event{
		Entity:  entity,
		Kind:    kind,
		Field:   "Visibility",
		Action:  ActionVisibility,
		New:     state,
		Message: fmt.Sprintf("'%s' is now %s.", entity, state),
	}
}

// Warning builds an informational event that does not count as a change.
func Warning(kind, entity, message string) Event {
	return Event{
		Entity:  entity,
		Kind:    kind,
		Action:  ActionWarning,
		Message: "WARNING: " + message,
	}
}

// ChangeLog is the append-only, session-scoped sink of change events.
type ChangeLog struct {
	mu     sync.Mutex
	events []Event
}

// Append adds events to the end of the log.
func (l *ChangeLog) Append(events ...Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, events...)
}

// Events returns a copy of the logged events in order.
func (l *ChangeLog) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len returns the number of logged events.
func (l *ChangeLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Render returns the human-readable messages in order.
func (l *ChangeLog) Render() []string {
	return Messages(l.Events())
}

// Messages renders events to their messages.
func Messages(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Message)
	}
	return out
}
