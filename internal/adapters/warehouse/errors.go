package warehouse

import "errors"

// Sentinel kinds for warehouse sink errors.
var (
	ErrDisabled   = errors.New("warehouse sink not configured")
	ErrBadDest    = errors.New("incomplete warehouse destination")
	ErrConnect    = errors.New("warehouse connection failed")
	ErrUpload     = errors.New("warehouse upload failed")
	ErrEmptySheet = errors.New("nothing to upload")
)
