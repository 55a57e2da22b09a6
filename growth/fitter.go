package growth

import (
	"fmt"

	"github.com/sgostarter/growthfit/timeseries"
	"github.com/sgostarter/i/l"
	"gonum.org/v1/gonum/stat"
)

type Fitter interface {
	// Fit estimates params of model over s; a nil guess uses model.InitialGuess.
	Fit(model Model, s *timeseries.Series, guess []float64) (*FitResult, error)
}

func NewFitter(cfg *Config, logger l.Wrapper) Fitter {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	var c Config
	if cfg != nil {
		c = *cfg
	}

	c.FillDefaults()

	return &fitterImpl{
		logger: logger.WithFields(l.StringField(l.ClsKey, "fitterImpl")),
		cfg:    c,
	}
}

type fitterImpl struct {
	logger l.Wrapper
	cfg    Config
}

func (impl *fitterImpl) Fit(model Model, s *timeseries.Series, guess []float64) (result *FitResult, err error) {
	if model == nil {
		err = fmt.Errorf("%w: nil model", ErrUnknownModel)

		return
	}

	if s.Len() < model.ParamCount() {
		err = fmt.Errorf("%w: %d positive samples for %d %s params",
			ErrInsufficientData, s.Len(), model.ParamCount(), model.Kind())

		return
	}

	if guess == nil {
		guess = model.InitialGuess(s)
	}

	if len(guess) != model.ParamCount() || !allFinite(guess) {
		err = fmt.Errorf("%w: %v for %s", ErrInvalidGuess, guess, model.Kind())

		return
	}

	logger := impl.logger.WithFields(l.StringField("model", model.Kind().String()), l.IntField("samples", s.Len()))

	problem := &lmProblem{
		model: model,
		x:     s.Elapsed,
		y:     s.Values,
	}

	params, st, err := problem.solve(guess, &impl.cfg)
	if err == nil && !allFinite(params) {
		err = fmt.Errorf("%w: non-finite params %v", ErrConvergenceFailure, params)
	}

	if err == nil {
		err = problem.checkConditioning(params)
	}

	if err != nil {
		logger.WithFields(l.ErrorField(err), l.IntField("iterations", st.Iterations)).Debug("fit failed")

		return
	}

	description, err := model.Describe(params, s.T0, impl.cfg.PeakThreshold)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrConvergenceFailure, err)

		logger.WithFields(l.ErrorField(err)).Debug("describe failed")

		return
	}

	estimates := make([]float64, s.Len())
	for idx, x := range s.Elapsed {
		estimates[idx] = model.Evaluate(x, params)
	}

	result = &FitResult{
		Kind:        model.Kind(),
		Params:      params,
		T0:          s.T0,
		Description: description,
		Iterations:  st.Iterations,
		RSS:         st.Cost,
		RSquared:    stat.RSquaredFrom(estimates, s.Values, nil),
		model:       model,
	}

	logger.WithFields(l.IntField("iterations", st.Iterations), l.StringField("label", description.Label)).Debug("fit done")

	return
}
