package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TableSpec describes a table the application expects. When the table is
// missing it is created from Model; when it exists, Columns lists the
// fields that are added if absent. TextColumns must hold plain text; a
// legacy Postgres array column there is converted to JSON text in place.
type TableSpec struct {
	Name        string
	Model       any
	Columns     []string
	TextColumns []string
}

type SchemaReport struct {
	CreatedTables    []string
	AddedColumns     []string
	ConvertedColumns []string
	Failures         []error
}

// EnsureSchema brings a live database up to the expected shape. It is
// idempotent and best-effort: every failure is logged and collected, and
// the remaining steps still run.
func (d *DB) EnsureSchema(ctx context.Context, tables []TableSpec) SchemaReport {
	var report SchemaReport
	log := d.log.WithField("component", "schema_guard")
	log.Info("checking database schema")

	migrator := d.gorm.WithContext(ctx).Migrator()
	for _, t := range tables {
		tlog := log.WithField("table", t.Name)

		if !migrator.HasTable(t.Name) {
			tlog.Warn("table missing, creating it")
			if err := migrator.CreateTable(t.Model); err != nil {
				tlog.WithError(err).Error("create table failed")
				report.Failures = append(report.Failures, err)
				continue
			}
			report.CreatedTables = append(report.CreatedTables, t.Name)
			continue
		}

		for _, col := range t.Columns {
			if migrator.HasColumn(t.Model, col) {
				continue
			}
			clog := tlog.WithField("column", col)
			clog.Warn("column missing, adding it")
			if err := migrator.AddColumn(t.Model, col); err != nil {
				clog.WithError(err).Error("add column failed")
				report.Failures = append(report.Failures, err)
				continue
			}
			report.AddedColumns = append(report.AddedColumns, t.Name+"."+col)
		}

		if len(t.TextColumns) > 0 {
			d.convertArrayColumns(ctx, t, tlog, &report)
		}
	}

	log.WithFields(logrus.Fields{
		"created_tables": len(report.CreatedTables),
		"added_columns":  len(report.AddedColumns),
		"converted":      len(report.ConvertedColumns),
		"failures":       len(report.Failures),
	}).Info("database schema check complete")
	return report
}

// convertArrayColumns rewrites TEXT[] columns listed in TextColumns as TEXT
// holding a JSON array, which is what the repositories write and read.
func (d *DB) convertArrayColumns(ctx context.Context, t TableSpec, log logrus.FieldLogger, report *SchemaReport) {
	if d.gorm.Dialector.Name() != "postgres" {
		return
	}

	types, err := d.gorm.WithContext(ctx).Migrator().ColumnTypes(t.Model)
	if err != nil {
		log.WithError(err).Error("read column types failed")
		report.Failures = append(report.Failures, err)
		return
	}

	wanted := make(map[string]bool, len(t.TextColumns))
	for _, c := range t.TextColumns {
		wanted[c] = true
	}

	for _, ct := range types {
		if !wanted[ct.Name()] || !isArrayType(ct.DatabaseTypeName()) {
			continue
		}
		clog := log.WithFields(logrus.Fields{"column": ct.Name(), "type": ct.DatabaseTypeName()})
		clog.Warn("array column found, converting to JSON text")
		if err := d.gorm.WithContext(ctx).Exec(arrayToTextSQL(d.gorm, t.Name, ct.Name())).Error; err != nil {
			clog.WithError(err).Error("convert column failed")
			report.Failures = append(report.Failures, err)
			continue
		}
		report.ConvertedColumns = append(report.ConvertedColumns, t.Name+"."+ct.Name())
	}
}

// isArrayType matches Postgres array type names as reported by the
// catalog ("_text") or in DDL form ("text[]", "ARRAY").
func isArrayType(name string) bool {
	name = strings.TrimSpace(name)
	return strings.HasPrefix(name, "_") || strings.HasSuffix(name, "[]") || strings.EqualFold(name, "ARRAY")
}

func arrayToTextSQL(db *gorm.DB, table, column string) string {
	q := func(s string) string {
		var b strings.Builder
		db.Dialector.QuoteTo(&b, s)
		return b.String()
	}
	return fmt.Sprintf(
		"ALTER TABLE %s ALTER COLUMN %s TYPE TEXT USING COALESCE(array_to_json(%s)::text, '[]')",
		q(table), q(column), q(column),
	)
}
