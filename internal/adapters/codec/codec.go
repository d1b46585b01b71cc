// Package codec converts between the in-memory workbook model and the
// spreadsheet wire formats: multi-sheet xlsx for upload/download and
// single-sheet CSV export.
package codec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/openpmo/scorecard/internal/domain/columns"
	"github.com/openpmo/scorecard/internal/domain/model"
)

// Decode reads a full xlsx workbook into the in-memory model. The first
// row of each sheet becomes its column set; unnamed columns get positional
// names, and the scorecard sheets have alias headers canonicalized.
// A malformed file returns an error and no partial workbook.
func Decode(r io.Reader) (*model.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenWorkbook, err)
	}
	defer f.Close()

	wb := model.NewWorkbook()
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %w", ErrOpenWorkbook, name, err)
		}
		sheet := decodeSheet(name, rows)
		columns.Normalize(sheet)
		wb.AddSheet(sheet)
	}
	if len(wb.SheetOrder) == 0 {
		return nil, ErrEmptyWorkbook
	}
	return wb, nil
}

func decodeSheet(name string, rows [][]string) *model.Sheet {
	s := &model.Sheet{Name: name}
	if len(rows) == 0 {
		return s
	}
	for i, header := range rows[0] {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column %d", i+1)
		}
		s.Columns = append(s.Columns, header)
	}
	for _, raw := range rows[1:] {
		row := make(model.Row, len(s.Columns))
		for i, col := range s.Columns {
			if i < len(raw) {
				row[col] = model.Parse(raw[i])
			}
		}
		s.Rows = append(s.Rows, row)
	}
	return s
}

// Encode serializes the workbook to xlsx bytes, preserving sheet, column,
// and row order. It is a pure function of the in-memory state.
func Encode(wb *model.Workbook) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for _, sheet := range wb.Ordered() {
		if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %w", ErrEncode, sheet.Name, err)
		}
		if err := writeSheet(f, sheet); err != nil {
			return nil, err
		}
	}

	// Remove the default sheet unless the workbook declares one.
	if wb.Sheet("Sheet1") == nil {
		if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
			if err := f.DeleteSheet("Sheet1"); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrEncode, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet *model.Sheet) error {
	for i, col := range sheet.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrEncode, err)
		}
		if err := f.SetCellValue(sheet.Name, cell, col); err != nil {
			return fmt.Errorf("%w: %w", ErrEncode, err)
		}
	}
	for r, row := range sheet.Rows {
		for c, col := range sheet.Columns {
			v := row[col]
			if v.IsEmpty() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrEncode, err)
			}
			if err := f.SetCellValue(sheet.Name, cell, cellValue(v)); err != nil {
				return fmt.Errorf("%w: %w", ErrEncode, err)
			}
		}
	}
	return nil
}

// cellValue picks the excelize representation for a tagged value. Dates
// are written as their ISO day string so a round-trip re-parses cleanly.
func cellValue(v model.Value) any {
	switch v.Kind {
	case model.KindNumber:
		return v.Number
	case model.KindDate:
		return v.Date.Format("2006-01-02")
	default:
		return v.Text
	}
}

// EncodeCSV serializes one sheet to UTF-8 comma-delimited CSV with the
// column names as header row.
func EncodeCSV(sheet *model.Sheet) ([]byte, error) {
	if sheet == nil {
		return nil, ErrUnknownSheet
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(sheet.Columns); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	record := make([]string, len(sheet.Columns))
	for _, row := range sheet.Rows {
		for i, col := range sheet.Columns {
			record[i] = row[col].Raw()
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}
