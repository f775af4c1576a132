package features

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatsMeanExcludesNulls(t *testing.T) {
	population := []RawRecord{
		with(baseRecord(), ItemWeight, Number(10)),
		with(baseRecord(), ItemWeight, Null),
		with(baseRecord(), ItemWeight, Number(20)),
	}

	stats, err := ComputeStats(population)
	require.NoError(t, err)

	mean, ok := stats.Mean(ItemWeight)
	require.True(t, ok)
	assert.Equal(t, 15.0, mean)
}

func TestComputeStatsErrors(t *testing.T) {
	tests := []struct {
		name       string
		population []RawRecord
	}{
		{"empty", nil},
		{"all weights null", []RawRecord{with(baseRecord(), ItemWeight, Null), without(baseRecord(), ItemWeight)}},
		{"text weight", []RawRecord{with(baseRecord(), ItemWeight, Text("heavy"))}},
		{"NaN weight", []RawRecord{with(baseRecord(), ItemWeight, Number(10)), with(baseRecord(), ItemWeight, Number(math.NaN()))}},
		{"infinite weight", []RawRecord{with(baseRecord(), ItemWeight, Number(math.Inf(1)))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeStats(tt.population)
			assert.ErrorIs(t, err, ErrSchemaBuild)
		})
	}
}

func TestImpute(t *testing.T) {
	stats := NewPopulationStats(map[string]float64{ItemWeight: 12.5})

	got, err := Impute(ItemWeight, Null, stats)
	require.NoError(t, err)
	assert.Equal(t, Number(12.5), got)

	got, err = Impute(OutletSize, Null, stats)
	require.NoError(t, err)
	assert.Equal(t, Text(DefaultOutletSize), got)

	got, err = Impute(ItemWeight, Number(7), stats)
	require.NoError(t, err)
	assert.Equal(t, Number(7), got, "non-null values pass through")
}

func TestImputeWithoutRuleIsMissingRequiredField(t *testing.T) {
	stats := NewPopulationStats(map[string]float64{ItemWeight: 12.5})

	for _, field := range []string{ItemVisibility, ItemMRP, OutletEstablishmentYear, ItemFatContent, ItemType, OutletLocationType, OutletType} {
		_, err := Impute(field, Null, stats)
		require.ErrorIs(t, err, ErrMissingRequiredField, field)

		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, field, fe.Field)
	}
}

func TestImputeWeightWithoutStats(t *testing.T) {
	_, err := Impute(ItemWeight, Null, NewPopulationStats(nil))
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestPopulationStatsJSON(t *testing.T) {
	stats := NewPopulationStats(map[string]float64{ItemWeight: 12.857})

	data, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.JSONEq(t, `{"means":{"Item_Weight":12.857}}`, string(data))

	var restored PopulationStats
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, stats.Means(), restored.Means())
}
