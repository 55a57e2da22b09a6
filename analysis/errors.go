package analysis

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid config")
)
