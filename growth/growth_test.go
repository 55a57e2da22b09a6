package growth

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/sgostarter/growthfit/timeseries"
	"github.com/sgostarter/i/l"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var utStart = time.Date(2020, 2, 24, 0, 0, 0, 0, time.UTC)

func utSeries(t *testing.T, n int, fn func(elapsed float64) float64) *timeseries.Series {
	samples := make([]timeseries.Sample, 0, n)
	for idx := 0; idx < n; idx++ {
		samples = append(samples, timeseries.Sample{
			At:    utStart.Add(time.Duration(idx) * timeseries.Day),
			Value: fn(float64(idx)),
		})
	}

	s, err := timeseries.Normalize(samples, 0)
	require.NoError(t, err)

	return s
}

func utFitter() Fitter {
	return NewFitter(&Config{}, l.NewConsoleLoggerWrapper())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Logistic")
	assert.Nil(t, err)
	assert.Equal(t, KindLogistic, k)

	k, err = ParseKind("exponential")
	assert.Nil(t, err)
	assert.Equal(t, KindExponential, k)

	_, err = ParseKind("gompertz")
	assert.True(t, errors.Is(err, ErrUnknownModel))

	m, err := ModelFor(KindLogistic)
	assert.Nil(t, err)
	assert.EqualValues(t, 3, m.ParamCount())

	_, err = ModelFor(KindUnknown)
	assert.True(t, errors.Is(err, ErrUnknownModel))

	var kk Kind
	assert.Nil(t, kk.UnmarshalText([]byte("exponential")))
	assert.Equal(t, KindExponential, kk)

	text, err := kk.MarshalText()
	assert.Nil(t, err)
	assert.Equal(t, "exponential", string(text))
}

func TestExponentialRoundTrip(t *testing.T) {
	const tau, i0 = 4.0, 3.0

	s := utSeries(t, 15, func(x float64) float64 {
		return i0 * math.Exp(x/tau)
	})

	for _, guess := range [][]float64{nil, {3.5, 2}} {
		r, err := utFitter().Fit(Exponential{}, s, guess)
		require.NoError(t, err)

		assert.InEpsilon(t, tau, r.Params[0], 0.01)
		assert.InEpsilon(t, i0, r.Params[1], 0.01)
		assert.InDelta(t, 1, r.RSquared, 1e-9)
		assert.Equal(t, KindExponential, r.Kind)
		assert.Equal(t, utStart, r.T0)
	}
}

func TestExponentialDecay(t *testing.T) {
	vs := []float64{100, 50, 25, 12.5}

	s := utSeries(t, len(vs), func(x float64) float64 {
		return vs[int(x)]
	})

	r, err := utFitter().Fit(Exponential{}, s, nil)
	require.NoError(t, err)

	assert.InDelta(t, -1/math.Ln2, r.Params[0], 1e-6)
	assert.InDelta(t, 100, r.Params[1], 1e-6)
	assert.InDelta(t, 1, r.RSquared, 1e-9)
	assert.Equal(t, "tau=-1.44 t0=-6.64", r.Label())
	require.NotNil(t, r.Description.Start)
	assert.True(t, r.Description.Start.After(utStart))
}

func TestExponentialScenario(t *testing.T) {
	vs := []float64{10, 20, 41, 79}

	s := utSeries(t, len(vs), func(x float64) float64 {
		return vs[int(x)]
	})

	r, err := utFitter().Fit(Exponential{}, s, nil)
	require.NoError(t, err)

	var tau, t0 float64

	n, err := fmt.Sscanf(r.Label(), "tau=%f t0=%f", &tau, &t0)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.InDelta(t, 1.5, tau, 0.3)
	assert.NotNil(t, r.Description.Start)
	assert.Nil(t, r.Description.Peak)

	t.Log(r.Label(), r.Params, r.Iterations)
}

func TestExponentialDescribe(t *testing.T) {
	d, err := Exponential{}.Describe([]float64{2, math.Exp(2)}, utStart, 0)
	require.NoError(t, err)

	assert.Equal(t, "tau=2.00 t0=4.00", d.Label)
	require.NotNil(t, d.Start)
	assert.WithinDuration(t, utStart.Add(-4*timeseries.Day), *d.Start, time.Second)

	_, err = Exponential{}.Describe([]float64{2, -1}, utStart, 0)
	assert.True(t, errors.Is(err, ErrDegenerateParams))

	// ln(50)*1e5 days is outside the representable date range.
	_, err = Exponential{}.Describe([]float64{1e5, 50}, utStart, 0)
	assert.True(t, errors.Is(err, ErrDegenerateParams))
}

type utUndatedModel struct {
	Exponential
}

func (utUndatedModel) Describe([]float64, time.Time, float64) (Description, error) {
	return Description{}, fmt.Errorf("%w: start date out of range", ErrDegenerateParams)
}

func TestDescribeFailureFailsFit(t *testing.T) {
	s := utSeries(t, 10, func(x float64) float64 {
		return 2 * math.Exp(x/3)
	})

	r, err := utFitter().Fit(utUndatedModel{}, s, nil)
	assert.True(t, errors.Is(err, ErrConvergenceFailure), "%v", err)
	assert.True(t, errors.Is(err, ErrDegenerateParams), "%v", err)
	assert.Nil(t, r)
}

func TestLogisticPeak(t *testing.T) {
	const k, c, h, threshold = 1000.0, 100.0, 0.2, 0.95

	peak, err := Logistic{}.DerivedPeak([]float64{k, c, h}, utStart, threshold)
	require.NoError(t, err)

	assert.InDelta(t, threshold*k, k/(1+c*math.Exp(-h*peak.Offset)), 1e-9)
	assert.InDelta(t, threshold*k, peak.Magnitude, 1e-9)
	assert.InDelta(t, peak.Offset, timeseries.ElapsedDays(utStart, peak.At), 1e-6)

	_, err = Logistic{}.DerivedPeak([]float64{k, c, h}, utStart, 1.5)
	assert.True(t, errors.Is(err, ErrInvalidThreshold))

	_, err = Logistic{}.DerivedPeak([]float64{k, -c, h}, utStart, threshold)
	assert.True(t, errors.Is(err, ErrDegenerateParams))
}

func TestLogisticRoundTrip(t *testing.T) {
	const k, c, h = 1000.0, 100.0, 0.2

	s := utSeries(t, 60, func(x float64) float64 {
		return k / (1 + c*math.Exp(-h*x))
	})

	r, err := utFitter().Fit(Logistic{}, s, nil)
	require.NoError(t, err)

	assert.InEpsilon(t, k, r.Params[0], 0.01)
	assert.InEpsilon(t, c, r.Params[1], 0.01)
	assert.InEpsilon(t, h, r.Params[2], 0.01)

	// 37.75 days after 24/02 is 01/04 18:00.
	assert.Equal(t, "Max=1000 peak=01/04", r.Label())
	require.NotNil(t, r.Description.Peak)
	assert.InDelta(t, 950, r.Description.Peak.Magnitude, 1)
}

func TestLogisticInsufficientData(t *testing.T) {
	s := utSeries(t, 2, func(x float64) float64 {
		return 10 + x
	})

	_, err := utFitter().Fit(Logistic{}, s, nil)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestConstantSeriesFails(t *testing.T) {
	s := utSeries(t, 5, func(float64) float64 {
		return 5
	})

	r, err := utFitter().Fit(Exponential{}, s, nil)
	assert.True(t, errors.Is(err, ErrConvergenceFailure), "%v", err)
	assert.Nil(t, r)
}

func TestInvalidGuess(t *testing.T) {
	s := utSeries(t, 5, func(x float64) float64 {
		return math.Exp(x)
	})

	_, err := utFitter().Fit(Exponential{}, s, []float64{1})
	assert.True(t, errors.Is(err, ErrInvalidGuess))

	_, err = utFitter().Fit(Exponential{}, s, []float64{math.NaN(), 1})
	assert.True(t, errors.Is(err, ErrInvalidGuess))
}

func TestFitResultWithoutFitter(t *testing.T) {
	r := &FitResult{
		Kind:   KindExponential,
		Params: []float64{1, 1},
		T0:     utStart,
	}

	vs := r.Evaluate([]time.Time{utStart, utStart.Add(timeseries.Day)})
	assert.InDelta(t, 1, vs[0], 1e-12)
	assert.InDelta(t, math.E, vs[1], 1e-12)

	c := r.Extrapolate(nil, 2)
	require.Len(t, c.Values, 2)
	assert.Equal(t, []float64{1, 2}, c.Elapsed)
	assert.InDelta(t, math.Exp(2), c.Values[1], 1e-9)

	assert.True(t, math.IsNaN((&FitResult{Params: []float64{1, 1}}).EvaluateElapsed(1)))
	assert.True(t, math.IsNaN((&FitResult{Kind: KindLogistic, Params: []float64{1, 1}}).EvaluateElapsed(1)))

	s := utSeries(t, 10, func(x float64) float64 {
		return 2 * math.Exp(x/3)
	})

	fitted, err := utFitter().Fit(Exponential{}, s, nil)
	require.NoError(t, err)

	d, err := json.Marshal(fitted)
	require.NoError(t, err)

	var decoded FitResult
	require.NoError(t, json.Unmarshal(d, &decoded))

	assert.Equal(t, KindExponential, decoded.Kind)
	assert.Equal(t, fitted.Label(), decoded.Label())
	assert.Equal(t, fitted.EvaluateElapsed(12.5), decoded.EvaluateElapsed(12.5))
}

func TestConfigFillDefaults(t *testing.T) {
	cfg := Config{}
	cfg.FillDefaults()
	assert.Equal(t, DefaultMaxIterations, cfg.MaxIterations)
	assert.EqualValues(t, DefaultPeakThreshold, cfg.PeakThreshold)

	cfg = Config{PeakThreshold: -0.5, MaxIterations: -1}
	cfg.FillDefaults()
	assert.EqualValues(t, -0.5, cfg.PeakThreshold)
	assert.Equal(t, -1, cfg.MaxIterations)
}

func TestExtrapolationContinuity(t *testing.T) {
	s := utSeries(t, 10, func(x float64) float64 {
		return 2 * math.Exp(x/3)
	})

	r, err := utFitter().Fit(Exponential{}, s, nil)
	require.NoError(t, err)

	observed := make([]time.Time, 0, s.Len())
	for _, e := range s.Elapsed {
		at, err := timeseries.AtElapsed(s.T0, e)
		require.NoError(t, err)

		observed = append(observed, at)
	}

	last := s.Len() - 1
	assert.Equal(t, r.EvaluateElapsed(s.Elapsed[last]), r.Evaluate(observed[last:])[0])

	c := r.Extrapolate(observed, 7)
	require.Len(t, c.Times, s.Len()+7)
	require.Len(t, c.Values, s.Len()+7)

	assert.Equal(t, r.Evaluate(observed), c.Values[:s.Len()])
	assert.Equal(t, s.Elapsed, c.Elapsed[:s.Len()])

	for idx := s.Len(); idx < len(c.Times); idx++ {
		assert.Equal(t, timeseries.Day, c.Times[idx].Sub(c.Times[idx-1]))
		assert.Greater(t, c.Values[idx], c.Values[idx-1])
	}

	assert.Len(t, r.Extrapolate(observed, 0).Times, s.Len())
}
