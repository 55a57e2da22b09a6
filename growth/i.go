package growth

import (
	"fmt"
	"strings"
	"time"

	"github.com/sgostarter/growthfit/timeseries"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindExponential
	KindLogistic
)

func (k Kind) String() string {
	switch k {
	case KindExponential:
		return "exponential"
	case KindLogistic:
		return "logistic"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) (err error) {
	*k, err = ParseKind(string(text))

	return
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exponential", "exp":
		return KindExponential, nil
	case "logistic", "logistica":
		return KindLogistic, nil
	}

	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

func ModelFor(k Kind) (Model, error) {
	switch k {
	case KindExponential:
		return Exponential{}, nil
	case KindLogistic:
		return Logistic{}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownModel, k)
}

// Model is a parametric curve shape of elapsed days.
type Model interface {
	Kind() Kind
	ParamCount() int

	Evaluate(elapsed float64, params []float64) float64
	InitialGuess(s *timeseries.Series) []float64

	// Describe derives the display label and calendar quantities from fitted params.
	Describe(params []float64, t0 time.Time, threshold float64) (Description, error)
}

type PeakDeriver interface {
	DerivedPeak(params []float64, t0 time.Time, threshold float64) (Peak, error)
}

type Peak struct {
	At        time.Time `json:"at" yaml:"at"`
	Offset    float64   `json:"offset" yaml:"offset"`
	Magnitude float64   `json:"magnitude" yaml:"magnitude"`
}

type Description struct {
	Label string     `json:"label" yaml:"label"`
	Start *time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	Peak  *Peak      `json:"peak,omitempty" yaml:"peak,omitempty"`
}
