// Package reconcile provides the generic machinery for merging staged records
// into a persisted entity graph and reporting exactly what changed.
//
// The package is storage-agnostic beyond GORM transactions and knows nothing
// about concrete entity kinds. Features describe their records as Units and
// plug their resolution and diffing logic into the Engine.
//
// # Architecture
//
// The reconcile system consists of five main components:
//
// 1. Engine: Orders units by kind and runs each one inside its own transaction
// (or a savepoint of a single rolled-back transaction for dry runs). Format and
// validation errors reject the record, identity conflicts are retried once, and
// any other persistence failure aborts the batch.
//
// 2. Field differ: Field[T] binds a staged value to a persisted one. DiffFields
// applies changed values and emits one event per changed field.
//
// 3. Set reconciler: ReconcileSet converges a relation onto a staged member set
// by natural key, reporting removals before additions.
//
// 4. Change log: Structured Events rendered to messages, collected per run in
// a Report with per-kind summaries and a rejected section.
//
// 5. Snapshot cache: TTL cache with singleflight stampede protection for
// read-only snapshots.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(db, log, reconcile.WithKindOrder("Index", "CommonName"))
//	report, err := engine.Run(ctx, units, reconcile.Options{DryRun: true})
//	if err != nil {
//	    return err
//	}
//	_ = reconcile.Write(os.Stdout, report, reconcile.FormatTable)
package reconcile
