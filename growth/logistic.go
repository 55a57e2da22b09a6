package growth

import (
	"fmt"
	"math"
	"time"

	"github.com/sgostarter/growthfit/timeseries"
	"gonum.org/v1/gonum/floats"
)

const (
	logisticDefaultOffset = 500.0
	logisticDefaultRate   = 0.2

	peakDateLayout = "02/01"
)

// Logistic is K / (1 + C*exp(-h*t)), params [K, C, h].
type Logistic struct{}

func (Logistic) Kind() Kind {
	return KindLogistic
}

func (Logistic) ParamCount() int {
	return 3
}

func (Logistic) Evaluate(elapsed float64, params []float64) float64 {
	return params[0] / (1 + params[1]*math.Exp(-params[2]*elapsed))
}

// InitialGuess puts the capacity at the largest observation and picks C so the
// curve passes through the first one.
func (Logistic) InitialGuess(s *timeseries.Series) []float64 {
	k := floats.Max(s.Values)

	c := k/s.Values[0] - 1
	if !(c > 0) || math.IsInf(c, 0) {
		c = logisticDefaultOffset
	}

	return []float64{k, c, logisticDefaultRate}
}

func (Logistic) DerivedPeak(params []float64, t0 time.Time, threshold float64) (peak Peak, err error) {
	if !(threshold > 0 && threshold < 1) {
		err = fmt.Errorf("%w: %v", ErrInvalidThreshold, threshold)

		return
	}

	k, c, h := params[0], params[1], params[2]

	offset := -math.Log((1-threshold)/(threshold*c)) / h
	if !isFinite(offset) || !isFinite(k) {
		err = fmt.Errorf("%w: K=%v C=%v h=%v", ErrDegenerateParams, k, c, h)

		return
	}

	at, err := timeseries.AtElapsed(t0, offset)
	if err != nil {
		err = fmt.Errorf("%w: peak date: %w", ErrDegenerateParams, err)

		return
	}

	peak = Peak{
		At:        at,
		Offset:    offset,
		Magnitude: threshold * k,
	}

	return
}

func (m Logistic) Describe(params []float64, t0 time.Time, threshold float64) (d Description, err error) {
	peak, err := m.DerivedPeak(params, t0, threshold)
	if err != nil {
		return
	}

	d.Label = fmt.Sprintf("Max=%.0f peak=%s", params[0], peak.At.Format(peakDateLayout))
	d.Peak = &peak

	return
}
