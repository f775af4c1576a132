package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"outlet-sales/features"
)

func TestSalesRecordRawMapsNulls(t *testing.T) {
	r := &SalesRecord{
		ItemIdentifier:          "FDX07",
		ItemFatContent:          "Regular",
		ItemVisibility:          Float64(0),
		ItemType:                "Fruits and Vegetables",
		ItemMRP:                 182.095,
		OutletIdentifier:        "OUT010",
		OutletEstablishmentYear: 1998,
		OutletLocationType:      "Tier 3",
		OutletType:              "Grocery Store",
	}

	raw := r.Raw()

	assert.True(t, raw.Get(features.ItemWeight).IsNull())
	assert.True(t, raw.Get(features.OutletSize).IsNull())
	assert.True(t, raw.Get(features.ItemOutletSales).IsNull())
	assert.Equal(t, features.Number(1998), raw.Get(features.OutletEstablishmentYear))
	assert.Equal(t, features.Number(0), raw.Get(features.ItemVisibility))
	assert.Equal(t, features.Text("Grocery Store"), raw.Get(features.OutletType))
	assert.False(t, r.HasTarget())
	assert.Equal(t, "FDX07|OUT010", r.Key())
}

func TestSinglePredictionDifference(t *testing.T) {
	p := &SinglePrediction{Record: &SalesRecord{ItemOutletSales: Float64(100)}, Predicted: 130}
	diff, ok := p.Difference()
	assert.True(t, ok)
	assert.Equal(t, 30.0, diff)

	p.Record.ItemOutletSales = nil
	_, ok = p.Difference()
	assert.False(t, ok)
}
