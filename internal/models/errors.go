package models

import "errors"

// Custom errors
var (
	ErrNotFound         = errors.New("record not found")
	ErrNoData           = errors.New("no data published for partition")
	ErrInvalidRecord    = errors.New("record failed boundary validation")
	ErrStoreUnavailable = errors.New("outcome store unavailable")
	ErrInvalidWindow    = errors.New("invalid lookback window")
)
