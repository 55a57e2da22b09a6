package timeseries

import "time"

type Sample struct {
	At    time.Time `json:"at" yaml:"at"`
	Value float64   `json:"value" yaml:"value"`
}

// Series is a day-offset view of samples anchored at T0. Only strictly positive
// values are kept.
type Series struct {
	T0      time.Time `json:"t0" yaml:"t0"`
	Elapsed []float64 `json:"elapsed" yaml:"elapsed"`
	Values  []float64 `json:"values" yaml:"values"`
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}

	return len(s.Values)
}

func (s *Series) Span() float64 {
	if s.Len() == 0 {
		return 0
	}

	return s.Elapsed[len(s.Elapsed)-1] - s.Elapsed[0]
}
