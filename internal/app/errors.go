package service

import "github.com/openpmo/scorecard/internal/domain/model"

// Sentinel kinds for service errors. Edit failures reuse the workbook
// sentinel so callers can match either way.
var (
	ErrBadCell = model.ErrBadCell
)
