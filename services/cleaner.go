package services

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"outlet-sales/models"
	"outlet-sales/utils"
)

// Cleaner transforms RawSalesRows into typed SalesRecords. It parses numbers
// and turns empty cells into nulls; category spellings are left alone for
// the feature pipeline to normalize.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean processes raw rows and returns the usable records. Rows without
// identifiers, with unparseable numbers, or missing a required category are
// dropped. Repeated item/outlet pairs keep their first occurrence.
func (c *Cleaner) Clean(raw []*models.RawSalesRow) []*models.SalesRecord {
	seen := utils.NewKeySet()
	result := make([]*models.SalesRecord, 0, len(raw))

	for _, r := range raw {
		rec, reason := c.parse(r)
		if rec == nil {
			c.logger.Warn("[cleaner] Dropping line %d (%s/%s): %s", r.Line, r.ItemIdentifier, r.OutletIdentifier, reason)
			continue
		}
		if !seen.Add(rec.Key()) {
			c.logger.Debug("[cleaner] Duplicate item/outlet skipped on line %d: %s", r.Line, rec.Key())
			continue
		}
		result = append(result, rec)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d rows (dropped %d)",
		len(raw), len(result), len(raw)-len(result))
	return result
}

func (c *Cleaner) parse(r *models.RawSalesRow) (*models.SalesRecord, string) {
	rec := &models.SalesRecord{
		ItemIdentifier:     strings.ToUpper(cellText(r.ItemIdentifier)),
		ItemFatContent:     cellText(r.ItemFatContent),
		ItemType:           cellText(r.ItemType),
		OutletIdentifier:   strings.ToUpper(cellText(r.OutletIdentifier)),
		OutletSize:         optionalText(r.OutletSize),
		OutletLocationType: cellText(r.OutletLocationType),
		OutletType:         cellText(r.OutletType),
	}

	if rec.ItemIdentifier == "" || rec.OutletIdentifier == "" {
		return nil, "missing identifier"
	}
	for _, req := range []struct{ name, value string }{
		{"fat content", rec.ItemFatContent},
		{"item type", rec.ItemType},
		{"location type", rec.OutletLocationType},
		{"outlet type", rec.OutletType},
	} {
		if req.value == "" {
			return nil, "missing " + req.name
		}
	}

	var ok bool
	if rec.ItemMRP, ok = parseFloat(r.ItemMRP); !ok {
		return nil, "bad MRP " + strconv.Quote(r.ItemMRP)
	}
	year, ok := parseFloat(r.OutletEstablishmentYear)
	if !ok || year != float64(int(year)) {
		return nil, "bad establishment year " + strconv.Quote(r.OutletEstablishmentYear)
	}
	rec.OutletEstablishmentYear = int(year)

	var err string
	if rec.ItemWeight, err = optionalFloat("weight", r.ItemWeight); err != "" {
		return nil, err
	}
	if rec.ItemVisibility, err = optionalFloat("visibility", r.ItemVisibility); err != "" {
		return nil, err
	}
	if rec.ItemOutletSales, err = optionalFloat("sales", r.ItemOutletSales); err != "" {
		return nil, err
	}
	return rec, ""
}

// missingMarkers are cell spellings read as an empty cell.
var missingMarkers = map[string]struct{}{
	"NaN": {}, "nan": {}, "-NaN": {}, "-nan": {},
	"NA": {}, "N/A": {}, "n/a": {}, "#N/A": {}, "<NA>": {},
	"NULL": {}, "null": {}, "None": {},
}

// cellText normalises whitespace and maps missing markers to "".
func cellText(raw string) string {
	s := normaliseText(raw)
	if _, missing := missingMarkers[s]; missing {
		return ""
	}
	return s
}

// parseFloat accepts finite numbers only; NaN and ±Inf are rejected.
func parseFloat(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func optionalFloat(name, raw string) (*float64, string) {
	if cellText(raw) == "" {
		return nil, ""
	}
	f, ok := parseFloat(raw)
	if !ok {
		return nil, "bad " + name + " " + strconv.Quote(raw)
	}
	return &f, ""
}

func optionalText(raw string) *string {
	s := cellText(raw)
	if s == "" {
		return nil
	}
	return &s
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
