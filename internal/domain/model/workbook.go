package model

// Sheet is one named rectangular table. Columns is the ordered header set;
// every row maps column name to a Value. Missing keys read as the empty
// cell, so all rows always share the sheet's column set.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Row maps column name to cell value.
type Row map[string]Value

// Workbook is the full set of sheets currently loaded for one session.
// SheetOrder preserves the order sheets appeared in the source file.
type Workbook struct {
	SheetOrder []string
	Sheets     map[string]*Sheet
}

// DefaultColumns is the starter column set used when no workbook has been
// uploaded yet.
var DefaultColumns = []string{"Initiative", "Owner", "Status", "Due Date", "Notes"}

// NewWorkbook creates an empty workbook with no sheets.
func NewWorkbook() *Workbook {
	return &Workbook{Sheets: make(map[string]*Sheet)}
}

// NewStarterWorkbook creates a single blank sheet with the default column
// set, offered when a session begins without an upload.
func NewStarterWorkbook() *Workbook {
	wb := NewWorkbook()
	wb.AddSheet(&Sheet{Name: "Sheet1", Columns: append([]string(nil), DefaultColumns...)})
	return wb
}

// AddSheet appends a sheet, replacing any existing sheet of the same name
// while keeping its original position.
func (wb *Workbook) AddSheet(s *Sheet) {
	if _, ok := wb.Sheets[s.Name]; !ok {
		wb.SheetOrder = append(wb.SheetOrder, s.Name)
	}
	wb.Sheets[s.Name] = s
}

// Sheet returns the named sheet, or nil when absent.
func (wb *Workbook) Sheet(name string) *Sheet {
	return wb.Sheets[name]
}

// Ordered returns the sheets in source order.
func (wb *Workbook) Ordered() []*Sheet {
	out := make([]*Sheet, 0, len(wb.SheetOrder))
	for _, name := range wb.SheetOrder {
		if s, ok := wb.Sheets[name]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Cell reads the value at (row, column). Out-of-range rows and unknown
// columns read as the empty cell.
func (s *Sheet) Cell(row int, column string) Value {
	if row < 0 || row >= len(s.Rows) {
		return Empty()
	}
	return s.Rows[row][column]
}

// SetCell writes a value in place. It returns false when the row index is
// out of range or the column is not part of the sheet.
func (s *Sheet) SetCell(row int, column string, v Value) bool {
	if row < 0 || row >= len(s.Rows) || !s.HasColumn(column) {
		return false
	}
	if s.Rows[row] == nil {
		s.Rows[row] = make(Row, len(s.Columns))
	}
	s.Rows[row][column] = v
	return true
}

// AppendRow adds a row, keeping only cells for known columns.
func (s *Sheet) AppendRow(r Row) int {
	row := make(Row, len(s.Columns))
	for _, col := range s.Columns {
		if v, ok := r[col]; ok {
			row[col] = v
		}
	}
	s.Rows = append(s.Rows, row)
	return len(s.Rows) - 1
}

// DeleteRow removes the row at index, preserving order of the rest. It
// returns false when the index is out of range.
func (s *Sheet) DeleteRow(row int) bool {
	if row < 0 || row >= len(s.Rows) {
		return false
	}
	s.Rows = append(s.Rows[:row], s.Rows[row+1:]...)
	return true
}

// HasColumn reports whether the sheet declares the column.
func (s *Sheet) HasColumn(column string) bool {
	for _, c := range s.Columns {
		if c == column {
			return true
		}
	}
	return false
}
