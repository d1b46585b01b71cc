// Package model defines the in-memory workbook structures shared by the
// quality checker, the scorecard roll-up, and the workbook codec.
package model

import (
	"strconv"
	"strings"
	"time"
)

// Kind tags the dynamic type of a cell value.
type Kind int

// Cell value kinds.
const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDate
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Value is a small tagged union for spreadsheet cell contents. Exactly one
// of the payload fields is meaningful, selected by Kind. The zero Value is
// the empty cell.
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Date   time.Time
}

// Empty returns the empty cell value.
func Empty() Value { return Value{} }

// Text wraps a non-empty string as a text value. Whitespace-only input
// collapses to the empty cell.
func Text(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Value{}
	}
	return Value{Kind: KindText, Text: s}
}

// Number wraps a float as a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumber, Number: f} }

// Date wraps a timestamp as a date value, truncated to the day.
func Date(t time.Time) Value {
	return Value{Kind: KindDate, Date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Parse classifies a raw cell string into the tagged union. Numbers stay
// numbers; everything else non-empty is text. Date detection is left to
// the consumers so quality findings can report the raw string that failed
// to parse.
func Parse(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(n)
	}
	return Value{Kind: KindText, Text: raw}
}

// IsEmpty reports whether the value is the empty cell.
func (v Value) IsEmpty() bool { return v.Kind == KindEmpty }

// Raw returns the value formatted back to its raw cell string. Empty cells
// yield "".
func (v Value) Raw() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindDate:
		return v.Date.Format("2006-01-02")
	default:
		return ""
	}
}
