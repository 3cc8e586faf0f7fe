package attachment

import "errors"

var (
	ErrInvalidInput = errors.New("invalid attachment data")
	ErrTooLarge     = errors.New("attachment exceeds size limit")
)
