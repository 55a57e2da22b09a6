package analysis

import (
	"time"

	"github.com/sgostarter/growthfit/dataset"
	"github.com/sgostarter/growthfit/growth"
	"github.com/sgostarter/growthfit/timeseries"
	"github.com/sgostarter/i/l"
)

type EntityFit struct {
	Entity  string
	Shift   float64
	Samples []timeseries.Sample
	Series  *timeseries.Series
	Result  *growth.FitResult
}

type Analyzer struct {
	logger l.Wrapper
	cfg    Config
	model  growth.Model
	fitter growth.Fitter
}

func NewAnalyzer(cfg *Config, logger l.Wrapper) (*Analyzer, error) {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	var c Config
	if cfg != nil {
		c = *cfg
	}

	c.FillDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	kind, err := growth.ParseKind(c.Model)
	if err != nil {
		return nil, err
	}

	model, err := growth.ModelFor(kind)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		logger: logger.WithFields(l.StringField(l.ClsKey, "analyzer")),
		cfg:    c,
		model:  model,
		fitter: growth.NewFitter(&c.Fit, logger),
	}, nil
}

func (a *Analyzer) Config() Config {
	return a.cfg
}

// Fit runs the normalize and fit steps for one entity's records.
func (a *Analyzer) Fit(entity string, records []dataset.Record) (ef *EntityFit, err error) {
	samples, err := dataset.ExtractSamples(records, a.cfg.DateField, a.cfg.YField)
	if err != nil {
		return
	}

	shift := a.cfg.Shift(entity)

	series, err := timeseries.Normalize(samples, shift)
	if err != nil {
		return
	}

	result, err := a.fitter.Fit(a.model, series, nil)
	if err != nil {
		return
	}

	ef = &EntityFit{
		Entity:  entity,
		Shift:   shift,
		Samples: samples,
		Series:  series,
		Result:  result,
	}

	return
}

func (ef *EntityFit) Times() []time.Time {
	ts := make([]time.Time, len(ef.Samples))
	for idx, sample := range ef.Samples {
		ts[idx] = sample.At
	}

	return ts
}
