package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnsupportedSize  = errors.New("unsupported n-gram size")
	ErrUnknownMeasure   = errors.New("unknown association measure")
	ErrDegenerate       = errors.New("degenerate contingency row")
)
