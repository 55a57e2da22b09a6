package timeseries

import (
	"fmt"
	"math"
	"time"
)

const (
	Day = 24 * time.Hour

	// MaxOffsetDays keeps converted offsets inside time.Duration range.
	MaxOffsetDays = 100000
)

func ElapsedDays(t0, t time.Time) float64 {
	return float64(t.Sub(t0)) / float64(Day)
}

func AtElapsed(t0 time.Time, days float64) (t time.Time, err error) {
	if math.IsNaN(days) || math.IsInf(days, 0) || math.Abs(days) > MaxOffsetDays {
		err = fmt.Errorf("%w: %v days", ErrOffsetOutOfRange, days)

		return
	}

	t = t0.Add(time.Duration(days * float64(Day)))

	return
}

// Normalize subtracts shift from every value, converts timestamps into day offsets
// from the first sample and drops non-positive values.
func Normalize(samples []Sample, shift float64) (s *Series, err error) {
	if len(samples) == 0 {
		err = fmt.Errorf("%w: empty series", ErrInsufficientData)

		return
	}

	t0 := samples[0].At

	s = &Series{
		T0:      t0,
		Elapsed: make([]float64, 0, len(samples)),
		Values:  make([]float64, 0, len(samples)),
	}

	for _, sample := range samples {
		v := sample.Value - shift
		if !(v > 0) || math.IsInf(v, 0) {
			continue
		}

		s.Elapsed = append(s.Elapsed, ElapsedDays(t0, sample.At))
		s.Values = append(s.Values, v)
	}

	if s.Len() == 0 {
		s = nil
		err = fmt.Errorf("%w: no positive values in %d samples", ErrInsufficientData, len(samples))

		return
	}

	return
}
