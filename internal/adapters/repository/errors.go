package repository

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrNoSession   = errors.New("session not found")
	ErrNilWorkbook = errors.New("nil workbook")
)
