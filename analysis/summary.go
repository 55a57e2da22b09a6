package analysis

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/sgostarter/growthfit/dataset"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/routineman"
)

type SummaryLine struct {
	Entity string
	Label  string
	Err    error
}

func (line SummaryLine) String() string {
	if line.Err != nil {
		return line.Entity + ": " + line.Err.Error()
	}

	return line.Entity + ": " + line.Label
}

// Summary fits every entity of ds. Data problems of one entity are reported on its line;
// an unknown field aborts the whole run.
func (a *Analyzer) Summary(ctx context.Context, ds *dataset.Dataset) ([]SummaryLine, error) {
	entities := append([]string(nil), ds.Entities...)
	sort.Strings(entities)

	lines := make([]SummaryLine, len(entities))

	if a.cfg.Parallel && len(entities) > 1 {
		routineMan := routineman.NewRoutineMan(ctx, a.logger)

		for idx := range entities {
			idx := idx

			routineMan.StartRoutine(func(context.Context, func() bool) {
				lines[idx] = a.summarize(ds, entities[idx])
			}, "summary:"+entities[idx])
		}

		routineMan.Wait()
	} else {
		for idx, entity := range entities {
			lines[idx] = a.summarize(ds, entity)
			if errors.Is(lines[idx].Err, dataset.ErrUnknownField) {
				return nil, lines[idx].Err
			}
		}
	}

	for _, line := range lines {
		if errors.Is(line.Err, dataset.ErrUnknownField) {
			return nil, line.Err
		}

		if line.Err != nil {
			a.logger.WithFields(l.ErrorField(line.Err), l.StringField("entity", line.Entity)).Warn("fit skipped")
		}
	}

	return lines, nil
}

func (a *Analyzer) summarize(ds *dataset.Dataset, entity string) (line SummaryLine) {
	line.Entity = entity

	records, err := ds.Records(entity)
	if err != nil {
		line.Err = err

		return
	}

	ef, err := a.Fit(entity, records)
	if err != nil {
		line.Err = err

		return
	}

	line.Label = ef.Result.Label()

	return
}

func FormatSummary(lines []SummaryLine) string {
	var ss strings.Builder

	for _, line := range lines {
		ss.WriteString(line.String())
		ss.WriteString("\n")
	}

	return ss.String()
}
