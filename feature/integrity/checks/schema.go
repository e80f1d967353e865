package checks

import (
	"fmt"
	"strings"
	"sync"

	"seed-catalog/core/database"
	"seed-catalog/feature/catalog/models"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SchemaReport strictly types the result of a schema integrity check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport is the result for one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies the database schema using the catalog models as the
// source of truth.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Tables:  make(map[string]TableReport),
		Matched: true,
		Errors:  []string{},
	}

	cache := &sync.Map{}
	for _, model := range models.All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
		}

		actualCols, err := database.GetTableColumns(db, s.Table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", s.Table, err))
			report.Matched = false
			continue
		}
		if len(actualCols) == 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("Table %s does not exist", s.Table))
			report.Matched = false
			continue
		}

		tbl := checkTable(db, s, actualCols)
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[s.Table] = tbl
	}

	return report, nil
}

func checkTable(db *gorm.DB, s *schema.Schema, actualCols []database.ColumnInfo) TableReport {
	tbl := TableReport{
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}

	actualMap := make(map[string]database.ColumnInfo, len(actualCols))
	for _, col := range actualCols {
		actualMap[strings.ToLower(col.Field)] = col
	}

	for _, field := range s.Fields {
		if field.DBName == "" || field.IgnoreMigration {
			continue
		}
		actCol, exists := actualMap[strings.ToLower(field.DBName)]
		if !exists {
			tbl.MissingColumns = append(tbl.MissingColumns, field.DBName)
			tbl.Status = "error"
			continue
		}

		expType := strings.ToLower(db.Dialector.DataTypeOf(field))
		want, got := typeFamily(expType), typeFamily(actCol.Type)
		// Soft check: unknown families are not compared
		if want != "" && got != "" && want != got {
			mismatch := fmt.Sprintf("%s: expected %s, got %s", field.DBName, expType, actCol.Type)
			tbl.TypeMismatches = append(tbl.TypeMismatches, mismatch)
			tbl.Status = "error"
		}
	}
	return tbl
}

// typeFamily groups column types so that dialect spellings of the same
// storage class compare equal.
func typeFamily(t string) string {
	t = strings.ToLower(t)
	switch {
	case strings.Contains(t, "json"):
		return "json"
	case strings.Contains(t, "int"), strings.Contains(t, "bool"), strings.Contains(t, "serial"):
		return "integer"
	case strings.Contains(t, "char"), strings.Contains(t, "text"), strings.Contains(t, "clob"):
		return "text"
	case strings.Contains(t, "real"), strings.Contains(t, "float"), strings.Contains(t, "double"),
		strings.Contains(t, "decimal"):
		return "real"
	case strings.Contains(t, "time"), strings.Contains(t, "date"):
		return "time"
	case strings.Contains(t, "blob"), strings.Contains(t, "binary"), strings.Contains(t, "bytea"):
		return "binary"
	default:
		return ""
	}
}
