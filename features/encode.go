package features

import (
	"errors"
	"fmt"
)

// Vector is one encoded record, indexed by the columns of the schema it was
// encoded against.
type Vector []float64

// Encode projects a raw record onto schema. The record is normalized and
// imputed exactly as during schema building; numeric columns carry the
// cleaned value and one-hot columns are 1 only for the record's category.
// A category equal to the field's reference, or one the schema never saw,
// leaves every column of that field at 0.
//
// Training, batch prediction and single-record prediction all go through
// this function.
func Encode(r RawRecord, schema *Schema, stats *PopulationStats) (Vector, error) {
	if schema == nil || stats == nil {
		return nil, errors.New("features: encode needs a schema and population stats")
	}

	row, err := clean(r, stats)
	if err != nil {
		return nil, err
	}

	v := make(Vector, schema.Len())
	for i, c := range schema.columns {
		switch c.Kind {
		case NumericColumn:
			v[i] = row.numeric[c.Field]
		case OneHotColumn:
			if row.categorical[c.Field] == c.Category {
				v[i] = 1
			}
		default:
			return nil, fmt.Errorf("%w: column %q has unknown kind %q", ErrSchemaMismatch, c.Name, c.Kind)
		}
	}

	return v, nil
}
