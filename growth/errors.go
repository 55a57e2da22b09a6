package growth

import (
	"errors"

	"github.com/sgostarter/growthfit/timeseries"
)

var (
	ErrInsufficientData   = timeseries.ErrInsufficientData
	ErrConvergenceFailure = errors.New("convergence failure")
	ErrDegenerateParams   = errors.New("degenerate parameters")
	ErrInvalidGuess       = errors.New("invalid initial guess")
	ErrInvalidThreshold   = errors.New("invalid peak threshold")
	ErrUnknownModel       = errors.New("unknown model")
)
