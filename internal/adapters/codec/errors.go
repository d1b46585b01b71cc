package codec

import "errors"

// Sentinel kinds for codec errors.
var (
	ErrOpenWorkbook  = errors.New("open workbook failed")
	ErrEmptyWorkbook = errors.New("workbook has no sheets")
	ErrUnknownSheet  = errors.New("unknown sheet")
	ErrEncode        = errors.New("encode workbook failed")
)
