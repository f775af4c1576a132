package features

import (
	"encoding/json"
	"fmt"
	"maps"

	"gonum.org/v1/gonum/stat"
)

// DefaultOutletSize fills a null Outlet_Size.
const DefaultOutletSize = "Medium"

// meanImputed lists the numeric fields whose nulls are replaced by the
// population mean.
var meanImputed = []string{ItemWeight}

// PopulationStats holds the reference statistics used for imputation. It is
// computed once per pipeline run and is read-only afterwards.
type PopulationStats struct {
	means map[string]float64
}

// NewPopulationStats builds stats from precomputed means, e.g. when loading a
// persisted artifact.
func NewPopulationStats(means map[string]float64) *PopulationStats {
	return &PopulationStats{means: maps.Clone(means)}
}

// ComputeStats derives the imputation statistics from the reference
// population. Nulls are excluded from every mean.
func ComputeStats(population []RawRecord) (*PopulationStats, error) {
	if len(population) == 0 {
		return nil, fmt.Errorf("%w: empty reference population", ErrSchemaBuild)
	}

	means := make(map[string]float64, len(meanImputed))
	for _, field := range meanImputed {
		values := make([]float64, 0, len(population))
		for i, r := range population {
			v := r.Get(field)
			if v.IsNull() {
				continue
			}
			f, ok := v.Float()
			if !ok || !finite(f) {
				return nil, fmt.Errorf("%w: record %d: %w", ErrSchemaBuild, i, fieldErr(field, ErrInvalidValue))
			}
			values = append(values, f)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("%w: %s is null in every record", ErrSchemaBuild, field)
		}
		means[field] = stat.Mean(values, nil)
	}

	return &PopulationStats{means: means}, nil
}

// Mean returns the imputation mean for field.
func (s *PopulationStats) Mean(field string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	m, ok := s.means[field]
	return m, ok
}

// Means returns a copy of every stored mean.
func (s *PopulationStats) Means() map[string]float64 {
	return maps.Clone(s.means)
}

type statsJSON struct {
	Means map[string]float64 `json:"means"`
}

func (s *PopulationStats) MarshalJSON() ([]byte, error) {
	return json.Marshal(statsJSON{Means: s.means})
}

func (s *PopulationStats) UnmarshalJSON(data []byte) error {
	var raw statsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.means = raw.Means
	return nil
}

// Impute replaces a null with the field's fill value. Item_Weight takes the
// population mean and Outlet_Size takes DefaultOutletSize; a null anywhere
// else is ErrMissingRequiredField. Non-null values pass through.
func Impute(field string, v Value, stats *PopulationStats) (Value, error) {
	if !v.IsNull() {
		return v, nil
	}

	switch field {
	case ItemWeight:
		mean, ok := stats.Mean(field)
		if !ok {
			return Null, fieldErr(field, fmt.Errorf("no population mean: %w", ErrMissingRequiredField))
		}
		return Number(mean), nil
	case OutletSize:
		return Text(DefaultOutletSize), nil
	default:
		return Null, fieldErr(field, ErrMissingRequiredField)
	}
}

// cleanRow is a record after normalization and imputation, split by kind.
type cleanRow struct {
	numeric     map[string]float64
	categorical map[string]string
}

// clean runs the normalize-then-impute sequence shared by schema building
// and encoding.
func clean(r RawRecord, stats *PopulationStats) (cleanRow, error) {
	row := cleanRow{
		numeric:     make(map[string]float64, len(numericFields)),
		categorical: make(map[string]string, len(categoricalFields)),
	}

	for _, field := range numericFields {
		v, err := Impute(field, r.Get(field), stats)
		if err != nil {
			return cleanRow{}, err
		}
		f, ok := v.Float()
		if !ok || !finite(f) {
			return cleanRow{}, fieldErr(field, ErrInvalidValue)
		}
		row.numeric[field] = f
	}

	for _, field := range categoricalFields {
		v, err := Impute(field, Normalize(field, r.Get(field)), stats)
		if err != nil {
			return cleanRow{}, err
		}
		s, ok := v.Text()
		if !ok {
			return cleanRow{}, fieldErr(field, ErrInvalidValue)
		}
		row.categorical[field] = s
	}

	return row, nil
}
