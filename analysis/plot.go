package analysis

import (
	"errors"
	"strings"

	"github.com/sgostarter/growthfit/dataset"
	"github.com/sgostarter/growthfit/growth"
	"github.com/sgostarter/growthfit/timeseries"
	"github.com/sgostarter/i/l"
)

// PlotData is what an external plotter needs for one entity: the shifted observations
// and the fitted curve extended ForwardDays past the last observation.
type PlotData struct {
	Entity   string            `json:"entity" yaml:"entity"`
	Label    string            `json:"label" yaml:"label"`
	Observed growth.Curve      `json:"observed" yaml:"observed"`
	Fitted   growth.Curve      `json:"fitted" yaml:"fitted"`
	Result   *growth.FitResult `json:"result" yaml:"result"`
}

type PlotGroup struct {
	Title   string      `json:"title" yaml:"title"`
	YField  string      `json:"yField" yaml:"yField"`
	Entries []*PlotData `json:"entries" yaml:"entries"`
	Failed  []string    `json:"failed,omitempty" yaml:"failed,omitempty"`
}

func (a *Analyzer) Plot(entity string, records []dataset.Record) (*PlotData, error) {
	ef, err := a.Fit(entity, records)
	if err != nil {
		return nil, err
	}

	ts := ef.Times()

	observed := growth.Curve{
		Times:   ts,
		Elapsed: make([]float64, len(ts)),
		Values:  make([]float64, len(ts)),
	}

	for idx, sample := range ef.Samples {
		observed.Elapsed[idx] = timeseries.ElapsedDays(ef.Result.T0, sample.At)
		observed.Values[idx] = sample.Value - ef.Shift
	}

	return &PlotData{
		Entity:   entity,
		Label:    ef.Result.Label(),
		Observed: observed,
		Fitted:   *ef.Result.Extrapolate(ts, a.cfg.ForwardDays),
		Result:   ef.Result,
	}, nil
}

// PlotGroup overlays several entities; with more than one entity each label is
// prefixed by the entity name. Entities whose fit fails are listed in Failed.
func (a *Analyzer) PlotGroup(ds *dataset.Dataset, entities []string) (group *PlotGroup, err error) {
	if len(entities) == 0 {
		entities = ds.Entities
	}

	group = &PlotGroup{
		Title:  strings.Join(entities, ", "),
		YField: a.cfg.YField,
	}

	for _, entity := range entities {
		records, e := ds.Records(entity)
		if e != nil {
			group = nil
			err = e

			return
		}

		pd, e := a.Plot(entity, records)
		if e != nil {
			if errors.Is(e, dataset.ErrUnknownField) {
				group = nil
				err = e

				return
			}

			a.logger.WithFields(l.ErrorField(e), l.StringField("entity", entity)).Warn("plot skipped")

			group.Failed = append(group.Failed, entity)

			continue
		}

		if len(entities) > 1 {
			pd.Label = entity + " " + pd.Label
		}

		group.Entries = append(group.Entries, pd)
	}

	return
}
