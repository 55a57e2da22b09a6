package growth

import (
	"math"
	"time"

	"github.com/sgostarter/growthfit/timeseries"
)

type FitResult struct {
	Kind        Kind        `json:"kind" yaml:"kind"`
	Params      []float64   `json:"params" yaml:"params"`
	T0          time.Time   `json:"t0" yaml:"t0"`
	Description Description `json:"description" yaml:"description"`
	Iterations  int         `json:"iterations" yaml:"iterations"`
	RSS         float64     `json:"rss" yaml:"rss"`
	RSquared    float64     `json:"rSquared" yaml:"rSquared"`

	model Model
}

type Curve struct {
	Times   []time.Time `json:"times" yaml:"times"`
	Elapsed []float64   `json:"elapsed" yaml:"elapsed"`
	Values  []float64   `json:"values" yaml:"values"`
}

func (r *FitResult) Label() string {
	return r.Description.Label
}

// EvaluateElapsed is NaN when Kind names no model or Params do not match it.
func (r *FitResult) EvaluateElapsed(elapsed float64) float64 {
	model := r.curveModel()
	if model == nil || len(r.Params) != model.ParamCount() {
		return math.NaN()
	}

	return model.Evaluate(elapsed, r.Params)
}

// curveModel falls back to Kind for results built or decoded outside the fitter.
func (r *FitResult) curveModel() Model {
	if r.model != nil {
		return r.model
	}

	model, err := ModelFor(r.Kind)
	if err != nil {
		return nil
	}

	return model
}

func (r *FitResult) Evaluate(ts []time.Time) []float64 {
	vs := make([]float64, len(ts))

	for idx, t := range ts {
		vs[idx] = r.EvaluateElapsed(timeseries.ElapsedDays(r.T0, t))
	}

	return vs
}

// Extrapolate evaluates the fit on the observed timestamps followed by forwardDays
// daily points after the last one.
func (r *FitResult) Extrapolate(observed []time.Time, forwardDays int) *Curve {
	if forwardDays < 0 {
		forwardDays = 0
	}

	ts := make([]time.Time, 0, len(observed)+forwardDays)
	ts = append(ts, observed...)

	last := r.T0
	if len(observed) > 0 {
		last = observed[len(observed)-1]
	}

	for day := 1; day <= forwardDays; day++ {
		ts = append(ts, last.Add(time.Duration(day)*timeseries.Day))
	}

	c := &Curve{
		Times:   ts,
		Elapsed: make([]float64, len(ts)),
		Values:  make([]float64, len(ts)),
	}

	for idx, t := range ts {
		c.Elapsed[idx] = timeseries.ElapsedDays(r.T0, t)
		c.Values[idx] = r.EvaluateElapsed(c.Elapsed[idx])
	}

	return c
}
