// Package quality scans a workbook for data-quality findings: empty cells
// in key columns and cells in date columns that fail every accepted date
// format. The scan is a pure read and is recomputed on every render pass.
package quality

import (
	"github.com/openpmo/scorecard/internal/domain/dates"
	"github.com/openpmo/scorecard/internal/domain/model"
)

// FindingKind classifies a detected issue.
type FindingKind string

// Finding kinds.
const (
	NullValue       FindingKind = "null_value"
	UnparseableDate FindingKind = "unparseable_date"
)

// Finding is one detected data-quality issue. Row is the zero-based data
// row index within the sheet.
type Finding struct {
	Sheet  string      `json:"sheet"`
	Column string      `json:"column"`
	Row    int         `json:"row"`
	Kind   FindingKind `json:"kind"`
	Raw    string      `json:"raw,omitempty"`
}

// Checker scans workbooks against configured key and date columns.
type Checker struct {
	keyColumns  []string
	dateColumns []string
}

// Option applies a configuration option to the Checker.
type Option func(*Checker)

// WithKeyColumns sets the columns that must never be empty.
func WithKeyColumns(columns []string) Option {
	return func(c *Checker) {
		c.keyColumns = append([]string(nil), columns...)
	}
}

// WithDateColumns sets the columns whose cells must parse as dates.
func WithDateColumns(columns []string) Option {
	return func(c *Checker) {
		c.dateColumns = append([]string(nil), columns...)
	}
}

// NewChecker creates a checker with configuration options.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check scans every sheet and returns findings in deterministic order:
// sheet order, then configured column order (key columns before date
// columns), then row order.
func (c *Checker) Check(wb *model.Workbook) []Finding {
	var findings []Finding
	for _, sheet := range wb.Ordered() {
		for _, col := range c.keyColumns {
			if !sheet.HasColumn(col) {
				continue
			}
			for i := range sheet.Rows {
				if sheet.Cell(i, col).IsEmpty() {
					findings = append(findings, Finding{
						Sheet:  sheet.Name,
						Column: col,
						Row:    i,
						Kind:   NullValue,
					})
				}
			}
		}
		for _, col := range c.dateColumns {
			if !sheet.HasColumn(col) {
				continue
			}
			for i := range sheet.Rows {
				cell := sheet.Cell(i, col)
				if cell.IsEmpty() || cell.Kind == model.KindDate {
					continue
				}
				if _, ok := dates.Parse(cell.Raw()); !ok {
					findings = append(findings, Finding{
						Sheet:  sheet.Name,
						Column: col,
						Row:    i,
						Kind:   UnparseableDate,
						Raw:    cell.Raw(),
					})
				}
			}
		}
	}
	return findings
}
