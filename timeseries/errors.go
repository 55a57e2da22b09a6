package timeseries

import "errors"

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrOffsetOutOfRange = errors.New("offset out of range")
)
