package device

import "errors"

var (
	ErrNotFound     = errors.New("device not found")
	ErrInvalidAuth  = errors.New("invalid store id or pin")
	ErrInvalidInput = errors.New("invalid device data")
	ErrExists       = errors.New("device already registered")
)
