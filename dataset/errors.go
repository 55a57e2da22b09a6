package dataset

import "errors"

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrUnknownEntity = errors.New("unknown entity")
	ErrBadValue      = errors.New("bad value")
)
