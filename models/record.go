package models

import (
	"outlet-sales/features"
)

// SalesRecord is one row of the sales_data table. Nullable columns are
// pointers.
type SalesRecord struct {
	ID                      int64
	ItemIdentifier          string
	ItemWeight              *float64
	ItemFatContent          string
	ItemVisibility          *float64
	ItemType                string
	ItemMRP                 float64
	OutletIdentifier        string
	OutletEstablishmentYear int
	OutletSize              *string
	OutletLocationType      string
	OutletType              string
	ItemOutletSales         *float64
}

// Raw converts the row into the field map the feature pipeline consumes.
func (r *SalesRecord) Raw() features.RawRecord {
	return features.RawRecord{
		features.ItemIdentifier:          features.Text(r.ItemIdentifier),
		features.ItemWeight:              optNumber(r.ItemWeight),
		features.ItemFatContent:          features.Text(r.ItemFatContent),
		features.ItemVisibility:          optNumber(r.ItemVisibility),
		features.ItemType:                features.Text(r.ItemType),
		features.ItemMRP:                 features.Number(r.ItemMRP),
		features.OutletIdentifier:        features.Text(r.OutletIdentifier),
		features.OutletEstablishmentYear: features.Number(float64(r.OutletEstablishmentYear)),
		features.OutletSize:              optText(r.OutletSize),
		features.OutletLocationType:      features.Text(r.OutletLocationType),
		features.OutletType:              features.Text(r.OutletType),
		features.ItemOutletSales:         optNumber(r.ItemOutletSales),
	}
}

// HasTarget reports whether the row carries a known sales figure.
func (r *SalesRecord) HasTarget() bool {
	return r.ItemOutletSales != nil
}

// Key identifies an item/outlet pair.
func (r *SalesRecord) Key() string {
	return r.ItemIdentifier + "|" + r.OutletIdentifier
}

// RawRecords converts every row.
func RawRecords(records []*SalesRecord) []features.RawRecord {
	out := make([]features.RawRecord, len(records))
	for i, r := range records {
		out[i] = r.Raw()
	}
	return out
}

func optNumber(f *float64) features.Value {
	if f == nil {
		return features.Null
	}
	return features.Number(*f)
}

func optText(s *string) features.Value {
	if s == nil {
		return features.Null
	}
	return features.Text(*s)
}

// Float64 and String return pointers to their argument, for building rows.
func Float64(f float64) *float64 { return &f }
func String(s string) *string    { return &s }
