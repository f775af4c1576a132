// Package features turns raw sales records into the fixed-width vectors a
// regression model is trained on and predicts from.
package features

import (
	"errors"
	"fmt"
)

// Encoder pairs a frozen schema with the population stats it was built
// from. It is immutable and safe for concurrent use.
type Encoder struct {
	schema *Schema
	stats  *PopulationStats
}

// Fit computes the population stats and builds the schema, once.
func Fit(population []RawRecord) (*Encoder, error) {
	stats, err := ComputeStats(population)
	if err != nil {
		return nil, err
	}
	schema, err := BuildSchema(population, stats)
	if err != nil {
		return nil, err
	}
	return &Encoder{schema: schema, stats: stats}, nil
}

// NewEncoder restores an encoder from a persisted schema and stats.
func NewEncoder(schema *Schema, stats *PopulationStats) (*Encoder, error) {
	if schema == nil || stats == nil {
		return nil, errors.New("features: encoder needs a schema and population stats")
	}
	return &Encoder{schema: schema, stats: stats}, nil
}

func (e *Encoder) Schema() *Schema {
	return e.schema
}

func (e *Encoder) Stats() *PopulationStats {
	return e.stats
}

// Encode encodes one record.
func (e *Encoder) Encode(r RawRecord) (Vector, error) {
	return Encode(r, e.schema, e.stats)
}

// EncodeBatch encodes records in order. The first failing record aborts the
// batch.
func (e *Encoder) EncodeBatch(records []RawRecord) ([]Vector, error) {
	out := make([]Vector, len(records))
	for i, r := range records {
		v, err := e.Encode(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// EncodeBatch fits an encoder on population and encodes every record with it.
func EncodeBatch(records, population []RawRecord) ([]Vector, *Schema, error) {
	enc, err := Fit(population)
	if err != nil {
		return nil, nil, err
	}
	vs, err := enc.EncodeBatch(records)
	if err != nil {
		return nil, nil, err
	}
	return vs, enc.schema, nil
}

// EncodeOne fits an encoder on population and encodes a single record. It is
// EncodeBatch with a batch of one.
func EncodeOne(record RawRecord, population []RawRecord) (Vector, *Schema, error) {
	vs, schema, err := EncodeBatch([]RawRecord{record}, population)
	if err != nil {
		return nil, nil, err
	}
	return vs[0], schema, nil
}
