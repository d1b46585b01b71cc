// Package warehouse pushes a sheet to an external Snowflake table. The
// sink is operator-triggered and off by default; its failures are reported
// to the caller and never touch in-memory workbook state.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sf "github.com/snowflakedb/gosnowflake"

	"github.com/openpmo/scorecard/internal/domain/model"
)

// Destination names the warehouse table a sheet is pushed to.
type Destination struct {
	Account   string
	User      string
	Password  string
	Warehouse string
	Database  string
	Schema    string
	Table     string
}

func (d Destination) validate() error {
	switch {
	case d.Account == "", d.User == "", d.Database == "", d.Schema == "", d.Table == "":
		return ErrBadDest
	}
	return nil
}

// Sink uploads rectangular tables to a warehouse destination.
type Sink interface {
	// Upload replaces the destination table with the sheet's contents and
	// returns the number of rows written.
	Upload(ctx context.Context, dest Destination, sheet *model.Sheet) (int, error)
}

// opener abstracts sql.Open so tests can stub the driver.
type opener func(dsn string) (*sql.DB, error)

// SnowflakeSink implements Sink on database/sql with the gosnowflake
// driver.
type SnowflakeSink struct {
	open opener
}

// Option applies a configuration option to the SnowflakeSink.
type Option func(*SnowflakeSink)

// WithOpener overrides the database opener, used by tests.
func WithOpener(open func(dsn string) (*sql.DB, error)) Option {
	return func(s *SnowflakeSink) {
		if open != nil {
			s.open = open
		}
	}
}

// NewSnowflakeSink creates a sink with configuration options.
func NewSnowflakeSink(opts ...Option) *SnowflakeSink {
	s := &SnowflakeSink{
		open: func(dsn string) (*sql.DB, error) { return sql.Open("snowflake", dsn) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload recreates the destination table from the sheet and inserts every
// row. All cells travel as text; warehouse-side typing is out of scope.
func (s *SnowflakeSink) Upload(ctx context.Context, dest Destination, sheet *model.Sheet) (int, error) {
	if err := dest.validate(); err != nil {
		return 0, err
	}
	if sheet == nil || len(sheet.Columns) == 0 {
		return 0, ErrEmptySheet
	}

	dsn, err := DSN(dest)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	db, err := s.open(dsn)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConnect, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConnect, err)
	}

	table := fmt.Sprintf("%s.%s.%s", quoteIdent(dest.Database), quoteIdent(dest.Schema), quoteIdent(dest.Table))
	if _, err := db.ExecContext(ctx, createTableSQL(table, sheet.Columns)); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	insert := insertSQL(table, sheet.Columns)
	rows := 0
	for _, row := range sheet.Rows {
		args := make([]any, len(sheet.Columns))
		for i, col := range sheet.Columns {
			args[i] = row[col].Raw()
		}
		if _, err := db.ExecContext(ctx, insert, args...); err != nil {
			return rows, fmt.Errorf("%w: row %d: %w", ErrUpload, rows, err)
		}
		rows++
	}
	return rows, nil
}

// DSN builds the gosnowflake connection string for a destination.
func DSN(dest Destination) (string, error) {
	cfg := &sf.Config{
		Account:   dest.Account,
		User:      dest.User,
		Password:  dest.Password,
		Warehouse: dest.Warehouse,
		Database:  dest.Database,
		Schema:    dest.Schema,
	}
	dsn, err := sf.DSN(cfg)
	if err != nil {
		return "", fmt.Errorf("build dsn: %w", err)
	}
	return dsn, nil
}

func createTableSQL(table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col) + " TEXT"
	}
	return fmt.Sprintf("CREATE OR REPLACE TABLE %s (%s)", table, strings.Join(defs, ", "))
}

func insertSQL(table string, columns []string) string {
	names := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		names[i] = quoteIdent(col)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(names, ", "), strings.Join(marks, ", "))
}

// quoteIdent double-quotes an identifier, escaping embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
