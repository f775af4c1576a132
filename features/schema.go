package features

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// ColumnKind distinguishes passthrough numeric columns from one-hot columns.
type ColumnKind string

const (
	NumericColumn ColumnKind = "numeric"
	OneHotColumn  ColumnKind = "one_hot"
)

// Column is one entry of the canonical schema.
type Column struct {
	Name     string     `json:"name"`
	Field    string     `json:"field"`
	Kind     ColumnKind `json:"kind"`
	Category string     `json:"category,omitempty"`
}

// Schema is the ordered column set a model is bound to. It never changes
// after construction.
type Schema struct {
	columns    []Column
	references map[string]string
	oneHot     map[string]map[string]int
}

// BuildSchema derives the canonical schema from the reference population.
// Numeric columns come first in declared order, then each categorical field
// in declared order with its distinct cleaned values sorted and the first
// one dropped as the reference category.
func BuildSchema(population []RawRecord, stats *PopulationStats) (*Schema, error) {
	if len(population) == 0 {
		return nil, fmt.Errorf("%w: empty reference population", ErrSchemaBuild)
	}
	if stats == nil {
		return nil, fmt.Errorf("%w: no population stats", ErrSchemaBuild)
	}

	seen := make(map[string]map[string]struct{}, len(categoricalFields))
	for _, field := range categoricalFields {
		seen[field] = make(map[string]struct{})
	}

	declared := featureFields()
	for i, r := range population {
		for _, field := range declared {
			if !r.Has(field) {
				return nil, fmt.Errorf("%w: record %d has no %s field", ErrSchemaBuild, i, field)
			}
		}
		row, err := clean(r, stats)
		if err != nil {
			if errors.Is(err, ErrInvalidValue) {
				return nil, fmt.Errorf("%w: record %d: %w", ErrSchemaBuild, i, err)
			}
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		for field, value := range row.categorical {
			seen[field][value] = struct{}{}
		}
	}

	columns := make([]Column, 0, len(numericFields))
	for _, field := range numericFields {
		columns = append(columns, Column{Name: field, Field: field, Kind: NumericColumn})
	}

	references := make(map[string]string, len(categoricalFields))
	for _, field := range categoricalFields {
		values := slices.Sorted(maps.Keys(seen[field]))
		references[field] = values[0]
		for _, value := range values[1:] {
			columns = append(columns, Column{
				Name:     oneHotName(field, value),
				Field:    field,
				Kind:     OneHotColumn,
				Category: value,
			})
		}
	}

	return newSchema(columns, references)
}

// NewSchema rebuilds a schema from persisted columns and reference
// categories. Columns are validated but never reordered.
func NewSchema(columns []Column, references map[string]string) (*Schema, error) {
	return newSchema(slices.Clone(columns), maps.Clone(references))
}

func newSchema(columns []Column, references map[string]string) (*Schema, error) {
	s := &Schema{
		columns:    columns,
		references: references,
		oneHot:     make(map[string]map[string]int),
	}

	names := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		if _, dup := names[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrSchemaMismatch, c.Name)
		}
		names[c.Name] = struct{}{}

		switch c.Kind {
		case NumericColumn:
			if !isNumericField(c.Field) || c.Name != c.Field {
				return nil, fmt.Errorf("%w: column %q is not a numeric feature", ErrSchemaMismatch, c.Name)
			}
		case OneHotColumn:
			if !isCategoricalField(c.Field) || c.Name != oneHotName(c.Field, c.Category) {
				return nil, fmt.Errorf("%w: column %q is not a one-hot feature", ErrSchemaMismatch, c.Name)
			}
			if s.oneHot[c.Field] == nil {
				s.oneHot[c.Field] = make(map[string]int)
			}
			s.oneHot[c.Field][c.Category] = i
		default:
			return nil, fmt.Errorf("%w: column %q has unknown kind %q", ErrSchemaMismatch, c.Name, c.Kind)
		}
	}

	return s, nil
}

// Len is the width of every vector encoded against s.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Columns returns a copy of the ordered columns.
func (s *Schema) Columns() []Column {
	return slices.Clone(s.columns)
}

// Names returns the ordered column names.
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, c := range s.columns {
		names[i] = c.Name
	}
	return names
}

// Reference returns the dropped category of a categorical field. Records
// holding it, or any category the schema never saw, encode as all zeros.
func (s *Schema) Reference(field string) (string, bool) {
	ref, ok := s.references[field]
	return ref, ok
}

// Categories returns the encoded (non-reference) categories of field in
// column order.
func (s *Schema) Categories(field string) []string {
	var out []string
	for _, c := range s.columns {
		if c.Kind == OneHotColumn && c.Field == field {
			out = append(out, c.Category)
		}
	}
	return out
}

// Fingerprint is a hex SHA-256 over the ordered column names. Two schemas
// with the same fingerprint index vectors identically.
func (s *Schema) Fingerprint() string {
	sum := sha256.Sum256([]byte(strings.Join(s.Names(), "\n")))
	return hex.EncodeToString(sum[:])
}

// Equal reports whether both schemas have the same columns in the same order.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	return slices.Equal(s.columns, other.columns)
}

// Check fails with ErrSchemaMismatch when v was not encoded against a schema
// of this width.
func (s *Schema) Check(v Vector) error {
	if len(v) != len(s.columns) {
		return fmt.Errorf("%w: vector has %d columns, schema has %d", ErrSchemaMismatch, len(v), len(s.columns))
	}
	return nil
}

// CheckNames fails with ErrSchemaMismatch unless names match the schema's
// column names exactly, in order.
func (s *Schema) CheckNames(names []string) error {
	if !slices.Equal(names, s.Names()) {
		return fmt.Errorf("%w: feature names do not match schema %s", ErrSchemaMismatch, s.Fingerprint()[:12])
	}
	return nil
}

type schemaJSON struct {
	Columns    []Column          `json:"columns"`
	References map[string]string `json:"references"`
}

func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(schemaJSON{Columns: s.columns, References: s.references})
}

func (s *Schema) UnmarshalJSON(data []byte) error {
	var raw schemaJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := newSchema(raw.Columns, raw.References)
	if err != nil {
		return err
	}
	*s = *parsed
	return nil
}

func oneHotName(field, category string) string {
	return field + "_" + category
}

func featureFields() []string {
	return append(NumericFields(), categoricalFields...)
}
