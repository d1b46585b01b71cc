package model

import "errors"

// Sentinel kinds for workbook edits.
var (
	ErrBadCell = errors.New("cell out of range")
)
