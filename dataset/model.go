package dataset

import (
	"fmt"

	"github.com/sgostarter/growthfit/timeseries"
	"github.com/spf13/cast"
)

// Record is one upstream JSON object; field names are owned by the data source.
type Record map[string]any

type Dataset struct {
	Name     string
	Entities []string

	records map[string][]Record
}

// GroupBy splits records by entityField keeping first-seen order. An empty entityField
// puts every record under fallback.
func GroupBy(name string, records []Record, entityField, fallback string) (ds *Dataset, err error) {
	ds = &Dataset{
		Name:    name,
		records: make(map[string][]Record),
	}

	for idx, record := range records {
		entity := fallback

		if entityField != "" {
			v, ok := record[entityField]
			if !ok {
				ds = nil
				err = fmt.Errorf("%w: %q in record %d of %s", ErrUnknownField, entityField, idx, name)

				return
			}

			entity, err = cast.ToStringE(v)
			if err != nil {
				ds = nil
				err = fmt.Errorf("%w: %s=%v: %w", ErrBadValue, entityField, v, err)

				return
			}
		}

		if _, exists := ds.records[entity]; !exists {
			ds.Entities = append(ds.Entities, entity)
		}

		ds.records[entity] = append(ds.records[entity], record)
	}

	return
}

func (ds *Dataset) Records(entity string) ([]Record, error) {
	records, ok := ds.records[entity]
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownEntity, entity, ds.Name)
	}

	return records, nil
}

func (ds *Dataset) Samples(entity, dateField, yField string) ([]timeseries.Sample, error) {
	records, err := ds.Records(entity)
	if err != nil {
		return nil, err
	}

	return ExtractSamples(records, dateField, yField)
}

func ExtractSamples(records []Record, dateField, yField string) (samples []timeseries.Sample, err error) {
	samples = make([]timeseries.Sample, 0, len(records))

	for idx, record := range records {
		dv, ok := record[dateField]
		if !ok {
			err = fmt.Errorf("%w: %q in record %d", ErrUnknownField, dateField, idx)

			return
		}

		yv, ok := record[yField]
		if !ok {
			err = fmt.Errorf("%w: %q in record %d", ErrUnknownField, yField, idx)

			return
		}

		var sample timeseries.Sample

		sample.At, err = cast.ToTimeE(dv)
		if err != nil {
			err = fmt.Errorf("%w: %s=%v: %w", ErrBadValue, dateField, dv, err)

			return
		}

		sample.Value, err = cast.ToFloat64E(yv)
		if err != nil {
			err = fmt.Errorf("%w: %s=%v: %w", ErrBadValue, yField, yv, err)

			return
		}

		samples = append(samples, sample)
	}

	return
}
