package reconcile

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"seed-catalog/core/database"
	"seed-catalog/core/dbctx"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type plant struct {
	ID   uint
	Kind string
	Name string `gorm:"uniqueIndex"`
}

func setupEngineDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&plant{}))
	return db
}

// createUnit inserts a plant unless it exists and reports what happened.
func createUnit(db *gorm.DB, kind, name string) Unit {
	return Unit{
		Kind:  kind,
		Label: name,
		Apply: func(dc dbctx.Context, rec *Recorder) error {
			tx := dc.DB(db)
			var p plant
			err := tx.Where("name = ?", name).First(&p).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := tx.Create(&plant{Kind: kind, Name: name}).Error; err != nil {
					return err
				}
				rec.Emit(Created(kind, name))
				return rec.Resolved(name, true)
			}
			if err != nil {
				return err
			}
			rec.Emit(Loaded(kind, name))
			return rec.Resolved(name, false)
		},
	}
}

func plantNames(t *testing.T, db *gorm.DB) []string {
	var names []string
	require.NoError(t, db.Model(&plant{}).Order("name").Pluck("name", &names).Error)
	return names
}

func TestEngine_RequiresConfirmation(t *testing.T) {
	engine := NewEngine(setupEngineDB(t), zap.NewNop())
	_, err := engine.Run(context.Background(), nil, Options{})
	assert.ErrorIs(t, err, ErrNotConfirmed)
}

func TestEngine_CreatesThenUnchanged(t *testing.T) {
	db := setupEngineDB(t)
	engine := NewEngine(db, zap.NewNop(), WithKindOrder("Index", "CommonName"))
	units := []Unit{createUnit(db, "CommonName", "Foxglove"), createUnit(db, "Index", "Perennial")}

	report, err := engine.Run(context.Background(), units, Options{Confirmed: true})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"The Index 'Perennial' does not yet exist in the database, so it has been created.",
		"The CommonName 'Foxglove' does not yet exist in the database, so it has been created.",
	}, report.Lines())
	require.Len(t, report.Records, 2)
	assert.Equal(t, "Index", report.Records[0].Kind, "kind order is honored")
	assert.Equal(t, StateCommitted, report.Records[0].State)
	assert.Equal(t, OutcomeCreated, report.Records[1].Outcome)
	assert.Equal(t, 1, report.For("Index").Created)
	assert.NotEmpty(t, report.RunID)

	// Second pass changes nothing
	report, err = engine.Run(context.Background(), units, Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"No changes were made to 'Perennial'.",
		"No changes were made to 'Foxglove'.",
	}, report.Lines())
	assert.Equal(t, 2, report.Totals().Unchanged)
}

func TestEngine_RejectedRecordRollsBackOnlyItself(t *testing.T) {
	db := setupEngineDB(t)
	engine := NewEngine(db, zap.NewNop())

	bad := Unit{
		Kind:  "BotanicalName",
		Label: "Invalid Botanical Name",
		Row:   2,
		Apply: func(dc dbctx.Context, rec *Recorder) error {
			if err := dc.DB(db).Create(&plant{Kind: "BotanicalName", Name: "Invalid Botanical Name"}).Error; err != nil {
				return err
			}
			return NewValidationError("BotanicalName", "name", "Invalid Botanical Name", "second word must be lowercase")
		},
	}

	units := []Unit{createUnit(db, "Index", "Perennial"), bad, createUnit(db, "Index", "Annual")}
	report, err := engine.Run(context.Background(), units, Options{Confirmed: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"Annual", "Perennial"}, plantNames(t, db))
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, "Invalid Botanical Name", report.Rejected[0].Label)
	assert.Equal(t, 2, report.Rejected[0].Row)
	assert.Contains(t, report.Rejected[0].Reason, "second word must be lowercase")
	assert.Equal(t, StateRejected, report.Records[1].State)
	assert.Equal(t, 1, report.For("BotanicalName").Rejected)
}

func TestEngine_DryRunPersistsNothing(t *testing.T) {
	db := setupEngineDB(t)
	engine := NewEngine(db, zap.NewNop())

	bad := Unit{
		Kind:  "Packet",
		Label: "F100",
		Apply: func(dc dbctx.Context, rec *Recorder) error {
			require.NoError(t, dc.DB(db).Create(&plant{Name: "F100"}).Error)
			return NewFormatError("price", "$2.9.9", "more than one '.'")
		},
	}
	units := []Unit{createUnit(db, "Index", "Perennial"), bad, createUnit(db, "CommonName", "Foxglove")}

	report, err := engine.Run(context.Background(), units, Options{DryRun: true})
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Len(t, report.Lines(), 2)
	assert.Len(t, report.Rejected, 1)
	assert.Equal(t, StateDiffed, report.Records[0].State)
	assert.Empty(t, plantNames(t, db))
}

func TestEngine_RetriesIdentityConflictOnce(t *testing.T) {
	db := setupEngineDB(t)
	engine := NewEngine(db, zap.NewNop())

	attempts := 0
	flaky := Unit{
		Kind:  "Index",
		Label: "Perennial",
		Apply: func(dc dbctx.Context, rec *Recorder) error {
			attempts++
			if attempts == 1 {
				return &IdentityConflictError{Kind: "Index", Key: "Perennial"}
			}
			return createUnit(db, "Index", "Perennial").Apply(dc, rec)
		},
	}

	report, err := engine.Run(context.Background(), []Unit{flaky}, Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Empty(t, report.Rejected)
	assert.Equal(t, []string{"Perennial"}, plantNames(t, db))
}

func TestEngine_SecondConflictRejectsRecord(t *testing.T) {
	db := setupEngineDB(t)
	require.NoError(t, db.Create(&plant{Name: "Perennial"}).Error)
	engine := NewEngine(db, zap.NewNop())

	attempts := 0
	dup := Unit{
		Kind:  "Index",
		Label: "Perennial",
		Apply: func(dc dbctx.Context, rec *Recorder) error {
			attempts++
			return dc.DB(db).Create(&plant{Name: "Perennial"}).Error
		},
	}

	report, err := engine.Run(context.Background(), []Unit{dup, createUnit(db, "Index", "Annual")}, Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	require.Len(t, report.Rejected, 1)
	assert.Contains(t, report.Rejected[0].Reason, "already exists")
	assert.Equal(t, []string{"Annual", "Perennial"}, plantNames(t, db))
}

func TestEngine_StatementErrorRejectsOnlyItsRecord(t *testing.T) {
	db := setupEngineDB(t)
	engine := NewEngine(db, zap.NewNop())

	tooLong := &mysqldriver.MySQLError{Number: 1406, Message: "Data too long for column 'sku' at row 1"}
	failing := Unit{
		Kind:  "Packet",
		Label: "F100-EXTRA-LONG-SKU-THAT-DOES-NOT-FIT-32",
		Row:   5,
		Apply: func(dc dbctx.Context, rec *Recorder) error {
			if err := dc.DB(db).Create(&plant{Kind: "Packet", Name: "partial"}).Error; err != nil {
				return err
			}
			return fmt.Errorf("failed to save Packet: %w", tooLong)
		},
	}

	units := []Unit{createUnit(db, "Index", "Perennial"), failing, createUnit(db, "Index", "Annual")}
	report, err := engine.Run(context.Background(), units, Options{Confirmed: true})
	require.NoError(t, err)

	require.Len(t, report.Records, 3)
	require.Len(t, report.Rejected, 1)
	assert.Equal(t, 5, report.Rejected[0].Row)
	assert.Contains(t, report.Rejected[0].Reason, "Data too long")
	assert.Equal(t, StateRejected, report.Records[1].State)
	assert.Equal(t, []string{"Annual", "Perennial"}, plantNames(t, db), "the failed record rolls back alone")
}

func TestEngine_LostConnectionAbortsBatch(t *testing.T) {
	db := setupEngineDB(t)
	engine := NewEngine(db, zap.NewNop())

	failing := Unit{
		Kind:  "Index",
		Label: "Broken",
		Row:   5,
		Apply: func(dc dbctx.Context, rec *Recorder) error { return driver.ErrBadConn },
	}

	units := []Unit{createUnit(db, "Index", "Perennial"), failing, createUnit(db, "Index", "Annual")}
	report, err := engine.Run(context.Background(), units, Options{Confirmed: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, driver.ErrBadConn)
	assert.Contains(t, err.Error(), "Broken")

	require.NotNil(t, report)
	assert.Len(t, report.Records, 1)
	assert.Equal(t, []string{"Perennial"}, plantNames(t, db))
}

func TestEngine_CommitFailureIsReturnedUnmodified(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	lost := errors.New("connection lost")
	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(lost)

	engine := NewEngine(db, zap.NewNop())
	noop := Unit{Kind: "Index", Label: "Perennial", Apply: func(dc dbctx.Context, rec *Recorder) error {
		return rec.Resolved("Perennial", false)
	}}

	_, err = engine.Run(context.Background(), []Unit{noop}, Options{Confirmed: true})
	assert.Equal(t, lost, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEngine_OnRejectWarnings(t *testing.T) {
	db := setupEngineDB(t)
	engine := NewEngine(db, zap.NewNop())

	unit := Unit{
		Kind:  "CommonName",
		Label: "coleus",
		Apply: func(dc dbctx.Context, rec *Recorder) error {
			return NewValidationError("CommonName", "name", "", "required")
		},
		OnReject: func(dc dbctx.Context, cause error) []Event {
			return []Event{Warning("CommonName", "coleus", fmt.Sprintf("still referenced: %v", cause))}
		},
	}

	report, err := engine.Run(context.Background(), []Unit{unit}, Options{Confirmed: true})
	require.NoError(t, err)
	require.Len(t, report.Events, 1)
	assert.Equal(t, ActionWarning, report.Events[0].Action)
}

func TestEngine_CanceledContext(t *testing.T) {
	db := setupEngineDB(t)
	engine := NewEngine(db, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := engine.Run(ctx, []Unit{createUnit(db, "Index", "Perennial")}, Options{Confirmed: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Records)
}

type recordingObserver struct {
	records map[Outcome]int
	runs    int
}

func (o *recordingObserver) ObserveRecord(kind string, outcome Outcome, elapsed time.Duration) {
	o.records[outcome]++
}

func (o *recordingObserver) ObserveRun(dryRun bool, elapsed time.Duration) {
	o.runs++
}

func TestEngine_Observer(t *testing.T) {
	db := setupEngineDB(t)
	obs := &recordingObserver{records: map[Outcome]int{}}
	engine := NewEngine(db, zap.NewNop(), WithObserver(obs))

	_, err := engine.Run(context.Background(), []Unit{createUnit(db, "Index", "Perennial")}, Options{Confirmed: true})
	require.NoError(t, err)
	assert.Equal(t, 1, obs.records[OutcomeCreated])
	assert.Equal(t, 1, obs.runs)
}
