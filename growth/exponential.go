package growth

import (
	"fmt"
	"math"
	"time"

	"github.com/sgostarter/growthfit/timeseries"
	"gonum.org/v1/gonum/stat"
)

// Exponential is i0 * exp(t/tau), params [tau, i0].
type Exponential struct{}

func (Exponential) Kind() Kind {
	return KindExponential
}

func (Exponential) ParamCount() int {
	return 2
}

func (Exponential) Evaluate(elapsed float64, params []float64) float64 {
	return params[1] * math.Exp(elapsed/params[0])
}

// InitialGuess seeds from a straight-line fit of log(y), which is exact for noise-free data.
// A negative slope seeds a decay (tau < 0).
func (Exponential) InitialGuess(s *timeseries.Series) []float64 {
	if s.Len() >= 2 {
		logs := make([]float64, s.Len())
		for idx, v := range s.Values {
			logs[idx] = math.Log(v)
		}

		alpha, beta := stat.LinearRegression(s.Elapsed, logs, nil, false)
		if beta != 0 && isFinite(alpha) && isFinite(1/beta) {
			return []float64{1 / beta, math.Exp(alpha)}
		}
	}

	span := s.Span()
	if span < 1 {
		span = 1
	}

	return []float64{span, s.Values[0]}
}

// StartOffset is ln(i0)*tau: the curve crosses 1 at -StartOffset days from the anchor.
func (Exponential) StartOffset(params []float64) float64 {
	return math.Log(params[1]) * params[0]
}

func (m Exponential) Describe(params []float64, t0 time.Time, _ float64) (d Description, err error) {
	tau := params[0]
	offset := m.StartOffset(params)

	if !isFinite(tau) || tau == 0 || !isFinite(offset) {
		err = fmt.Errorf("%w: tau=%v i0=%v", ErrDegenerateParams, tau, params[1])

		return
	}

	start, err := timeseries.AtElapsed(t0, -offset)
	if err != nil {
		err = fmt.Errorf("%w: start date: %w", ErrDegenerateParams, err)

		return
	}

	d.Label = fmt.Sprintf("tau=%.2f t0=%.2f", tau, offset)
	d.Start = &start

	return
}
