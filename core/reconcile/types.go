package reconcile

import "time"

// Action is the kind of change a structured event describes.
type Action string

const (
	// ActionCreated means the entity did not exist and was created.
	ActionCreated Action = "created"
	// ActionLoaded means the entity was found by its natural key.
	ActionLoaded Action = "loaded"
	// ActionSet means a field received a new value.
	ActionSet Action = "set"
	// ActionCleared means a field was emptied.
	ActionCleared Action = "cleared"
	// ActionAdded means a member joined a relation.
	ActionAdded Action = "added"
	// ActionRemoved means a member left a relation.
	ActionRemoved Action = "removed"
	// ActionUnchanged is the single event of a record that changed nothing.
	ActionUnchanged Action = "unchanged"
	// ActionVisibility means the entity was shown or hidden.
	ActionVisibility Action = "visibility"
	// ActionRejected means the record was refused.
	ActionRejected Action = "rejected"
	// ActionWarning is informational and does not count as a change.
	ActionWarning Action = "warning"
)

// IsChange reports whether events with this action count as a modification.
func (a Action) IsChange() bool {
	switch a {
	case ActionCreated, ActionSet, ActionCleared, ActionAdded, ActionRemoved, ActionVisibility:
		return true
	}
	return false
}

// Event is one structured entry of the change report.
type Event struct {
	// Entity is the display name of the entity the event is about.
	Entity string `json:"entity" yaml:"entity"`

	// Kind is the entity kind (e.g., "CommonName").
	Kind string `json:"kind" yaml:"kind"`

	// Field is the field or relation name, empty for whole-entity events.
	Field string `json:"field,omitempty" yaml:"field,omitempty"`

	// Action classifies the event.
	Action Action `json:"action" yaml:"action"`

	// Old is the previous value, when meaningful.
	Old string `json:"old,omitempty" yaml:"old,omitempty"`

	// New is the new value or the member that was added/removed.
	New string `json:"new,omitempty" yaml:"new,omitempty"`

	// Message is the human-readable rendering of the event.
	Message string `json:"message" yaml:"message"`
}

// Outcome is the final classification of one staged record.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeRejected  Outcome = "rejected"
)

// RecordResult describes what happened to one staged record.
type RecordResult struct {
	Kind    string  `json:"kind" yaml:"kind"`
	Label   string  `json:"label" yaml:"label"`
	Row     int     `json:"row" yaml:"row"`
	State   State   `json:"state" yaml:"state"`
	Outcome Outcome `json:"outcome" yaml:"outcome"`
	Changes int     `json:"changes" yaml:"changes"`
	Reason  string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Rejection is an entry of the report's rejected section.
type Rejection struct {
	Kind   string `json:"kind" yaml:"kind"`
	Label  string `json:"label" yaml:"label"`
	Row    int    `json:"row" yaml:"row"`
	Reason string `json:"reason" yaml:"reason"`
}

// KindSummary aggregates record outcomes for one entity kind.
type KindSummary struct {
	Kind      string `json:"kind" yaml:"kind"`
	Created   int    `json:"created" yaml:"created"`
	Updated   int    `json:"updated" yaml:"updated"`
	Unchanged int    `json:"unchanged" yaml:"unchanged"`
	Rejected  int    `json:"rejected" yaml:"rejected"`
}

// Total returns the number of records counted in this summary.
func (s KindSummary) Total() int {
	return s.Created + s.Updated + s.Unchanged + s.Rejected
}

// Report is the result of one reconciliation pass.
type Report struct {
	// RunID identifies the pass; it is also the ReconcileRun key when persisted.
	RunID string `json:"run_id" yaml:"run_id"`

	// DryRun is true when nothing was persisted.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	// Events is the ordered change log of every accepted record.
	Events []Event `json:"events" yaml:"events"`

	// Records holds one result per staged record, in processing order.
	Records []RecordResult `json:"records" yaml:"records"`

	// Summary holds per-kind outcome counts in processing order.
	Summary []KindSummary `json:"summary" yaml:"summary"`

	// Rejected lists every refused record with its reason.
	Rejected []Rejection `json:"rejected" yaml:"rejected"`
}

// Options controls a reconciliation pass.
type Options struct {
	// DryRun executes every record and rolls everything back at the end.
	DryRun bool

	// Confirmed indicates the caller agreed to persist changes.
	// A pass that is neither confirmed nor a dry run is refused.
	Confirmed bool
}
