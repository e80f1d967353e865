package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"seed-catalog/core/database"
	"seed-catalog/core/dbctx"
	"seed-catalog/core/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotConfirmed is returned when a persisting pass was not confirmed.
var ErrNotConfirmed = errors.New("reconciliation must be confirmed or run as a dry run")

// Unit is one staged record scheduled for reconciliation.
type Unit struct {
	// Kind is the entity kind, used for ordering and the summary.
	Kind string

	// Label identifies the record in logs and the rejected section.
	Label string

	// Row is the record's position in its source document (1-based).
	Row int

	// Apply resolves, diffs and reconciles the record inside dc's transaction.
	Apply func(dc dbctx.Context, rec *Recorder) error

	// OnReject optionally inspects the store after the record was rejected and
	// returns warnings to append to the change log.
	OnReject func(dc dbctx.Context, cause error) []Event
}

// Observer receives per-record and per-run measurements.
type Observer interface {
	ObserveRecord(kind string, outcome Outcome, elapsed time.Duration)
	ObserveRun(dryRun bool, elapsed time.Duration)
}

// Recorder collects the events and identity outcome of one record.
type Recorder struct {
	kind    string
	entity  string
	created bool
	state   *RecordState
	events  []Event
	logger  *zap.Logger
}

// Resolved records the primary entity's display name and whether the
// resolver created it, and moves the record to Resolved.
func (r *Recorder) Resolved(entity string, created bool) error {
	r.entity = entity
	r.created = created
	return r.state.Advance(StateResolved)
}

// Rename updates the display name used for the unchanged message.
func (r *Recorder) Rename(entity string) {
	r.entity = entity
}

// Emit appends events. Loaded events are only logged.
func (r *Recorder) Emit(events ...Event) {
	for _, ev := range events {
		if ev.Action == ActionLoaded {
			r.logger.Debug(ev.Message, zap.String("entity", ev.Entity))
			continue
		}
		r.events = append(r.events, ev)
	}
}

// Events returns the events emitted so far.
func (r *Recorder) Events() []Event {
	return r.events
}

// Changed reports whether any emitted event modified the store.
func (r *Recorder) Changed() bool {
	for _, ev := range r.events {
		if ev.Action.IsChange() {
			return true
		}
	}
	return false
}

// Engine runs staged records through per-record transactions.
type Engine struct {
	db       *gorm.DB
	logger   *zap.Logger
	order    map[string]int
	kinds    []string
	observer Observer
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithKindOrder sets the processing order of entity kinds.
// Units of unlisted kinds run last, in their original order.
func WithKindOrder(kinds ...string) EngineOption {
	return func(e *Engine) {
		e.kinds = kinds
		e.order = make(map[string]int, len(kinds))
		for i, k := range kinds {
			e.order[k] = i
		}
	}
}

// WithObserver registers a metrics observer.
func WithObserver(o Observer) EngineOption {
	return func(e *Engine) {
		e.observer = o
	}
}

// NewEngine creates a new Engine.
func NewEngine(db *gorm.DB, log *zap.Logger, opts ...EngineOption) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{db: db, logger: log, order: map[string]int{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// gatewayError marks a persistence failure that aborts the whole batch.
type gatewayError struct {
	err error
}

func (g *gatewayError) Error() string { return g.err.Error() }
func (g *gatewayError) Unwrap() error { return g.err }

// Run reconciles every unit in kind order. Record-level failures, including
// statements the database refuses, are collected in the report's rejected
// section. A gateway failure (begin, commit, savepoint or a lost connection)
// stops the pass and is returned alongside the partial report. A failed
// commit is returned unmodified.
func (e *Engine) Run(ctx context.Context, units []Unit, opts Options) (*Report, error) {
	if !opts.DryRun && !opts.Confirmed {
		return nil, ErrNotConfirmed
	}

	report := &Report{
		RunID:     uuid.NewString(),
		DryRun:    opts.DryRun,
		StartedAt: time.Now(),
	}
	log := logger.WithRun(e.logger, report.RunID)
	changeLog := &ChangeLog{}
	summaries := newSummaryTable(e.kinds)

	var outer *dbctx.UnitOfWork
	if opts.DryRun {
		var err error
		outer, err = dbctx.Begin(ctx, e.db)
		if err != nil {
			return nil, err
		}
		defer outer.Rollback()
	}

	finish := func() {
		report.FinishedAt = time.Now()
		report.Events = changeLog.Events()
		report.Summary = summaries.list()
		if e.observer != nil {
			e.observer.ObserveRun(opts.DryRun, report.FinishedAt.Sub(report.StartedAt))
		}
	}

	for i, u := range e.sortUnits(units) {
		if err := ctx.Err(); err != nil {
			finish()
			return report, err
		}

		start := time.Now()
		rlog := log.With(logger.RecordFields(u.Kind, u.Label, u.Row)...)
		rec, err := e.process(ctx, outer, i, u, rlog)

		var gw *gatewayError
		if errors.As(err, &gw) {
			rlog.Error("Reconciliation aborted", zap.Error(gw.err))
			finish()
			return report, gw.err
		}

		result := RecordResult{Kind: u.Kind, Label: u.Label, Row: u.Row}
		if err != nil {
			_ = rec.state.Advance(StateRejected)
			result.State = rec.state.Current()
			result.Outcome = OutcomeRejected
			result.Reason = err.Error()
			report.Rejected = append(report.Rejected, Rejection{Kind: u.Kind, Label: u.Label, Row: u.Row, Reason: err.Error()})
			rlog.Warn("Record rejected", zap.Error(err))

			if u.OnReject != nil {
				dc := dbctx.Context{Ctx: ctx}
				if outer != nil {
					dc = outer.Context()
				} else {
					dc.Tx = e.db
				}
				changeLog.Append(u.OnReject(dc, err)...)
			}
		} else {
			events := rec.Events()
			result.Changes = countChanges(events)
			switch {
			case rec.created:
				result.Outcome = OutcomeCreated
			case result.Changes > 0:
				result.Outcome = OutcomeUpdated
			default:
				result.Outcome = OutcomeUnchanged
				events = append(events, Unchanged(u.Kind, rec.entity))
			}
			result.State = rec.state.Current()
			changeLog.Append(events...)
			rlog.Debug("Record reconciled", zap.String("outcome", string(result.Outcome)))
		}

		summaries.count(u.Kind, result.Outcome)
		report.Records = append(report.Records, result)
		if e.observer != nil {
			e.observer.ObserveRecord(u.Kind, result.Outcome, time.Since(start))
		}
	}

	finish()
	return report, nil
}

// process applies one unit, retrying once on an identity conflict.
func (e *Engine) process(ctx context.Context, outer *dbctx.UnitOfWork, idx int, u Unit, log *zap.Logger) (*Recorder, error) {
	for attempt := 0; ; attempt++ {
		rec := &Recorder{kind: u.Kind, entity: u.Label, state: NewRecordState(), logger: log}

		var err error
		if outer != nil {
			err = e.attemptDry(outer, idx, u, rec)
		} else {
			err = e.attempt(ctx, u, rec)
		}

		switch {
		case err == nil:
			return rec, nil
		case errors.As(err, new(*gatewayError)):
			return rec, err
		case isConflict(err):
			if attempt == 0 {
				log.Debug("Identity conflict, retrying record", zap.Error(err))
				continue
			}
			if !errors.Is(err, ErrIdentityConflict) {
				err = &IdentityConflictError{Kind: u.Kind, Key: u.Label, Err: err}
			}
			return rec, err
		case IsRecordError(err):
			return rec, err
		case database.IsConnectionError(err):
			return rec, &gatewayError{err: fmt.Errorf("failed to reconcile %s '%s' (row %d): %w", u.Kind, u.Label, u.Row, err)}
		default:
			// The statement failed inside this record's transaction only
			return rec, fmt.Errorf("failed to reconcile %s '%s': %w", u.Kind, u.Label, err)
		}
	}
}

func (e *Engine) attempt(ctx context.Context, u Unit, rec *Recorder) error {
	uow, err := dbctx.Begin(ctx, e.db)
	if err != nil {
		return &gatewayError{err: err}
	}
	defer uow.Rollback()

	if err := u.Apply(uow.Context(), rec); err != nil {
		return err
	}
	if err := markDiffed(rec); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return &gatewayError{err: err}
	}
	return rec.state.Advance(StateCommitted)
}

func (e *Engine) attemptDry(outer *dbctx.UnitOfWork, idx int, u Unit, rec *Recorder) error {
	sp := fmt.Sprintf("record_%d", idx)
	if err := outer.SavePoint(sp); err != nil {
		return &gatewayError{err: fmt.Errorf("failed to create savepoint: %w", err)}
	}

	err := u.Apply(outer.Context(), rec)
	if err == nil {
		err = markDiffed(rec)
	}
	if err != nil {
		if rbErr := outer.RollbackTo(sp); rbErr != nil {
			return &gatewayError{err: fmt.Errorf("failed to roll back to savepoint: %w", rbErr)}
		}
		return err
	}
	return nil
}

// markDiffed moves a successfully applied record to Diffed, passing through
// Resolved when the unit never reported its identity.
func markDiffed(rec *Recorder) error {
	if rec.state.Current() == StatePending {
		if err := rec.state.Advance(StateResolved); err != nil {
			return err
		}
	}
	return rec.state.Advance(StateDiffed)
}

func isConflict(err error) bool {
	return errors.Is(err, ErrIdentityConflict) || database.IsUniqueViolation(err)
}

func countChanges(events []Event) int {
	n := 0
	for _, ev := range events {
		if ev.Action.IsChange() {
			n++
		}
	}
	return n
}

// sortUnits orders units by kind rank, keeping source order within a kind.
func (e *Engine) sortUnits(units []Unit) []Unit {
	out := make([]Unit, len(units))
	copy(out, units)
	rank := func(kind string) int {
		if r, ok := e.order[kind]; ok {
			return r
		}
		return len(e.order)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i].Kind) < rank(out[j].Kind)
	})
	return out
}

type summaryTable struct {
	order []string
	byKey map[string]*KindSummary
}

func newSummaryTable(kinds []string) *summaryTable {
	t := &summaryTable{byKey: map[string]*KindSummary{}}
	for _, k := range kinds {
		t.get(k)
	}
	return t
}

func (t *summaryTable) get(kind string) *KindSummary {
	s, ok := t.byKey[kind]
	if !ok {
		s = &KindSummary{Kind: kind}
		t.byKey[kind] = s
		t.order = append(t.order, kind)
	}
	return s
}

func (t *summaryTable) count(kind string, outcome Outcome) {
	s := t.get(kind)
	switch outcome {
	case OutcomeCreated:
		s.Created++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeUnchanged:
		s.Unchanged++
	case OutcomeRejected:
		s.Rejected++
	}
}

func (t *summaryTable) list() []KindSummary {
	out := make([]KindSummary, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, *t.byKey[k])
	}
	return out
}
