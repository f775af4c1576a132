package storage

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"outlet-sales/config"
	"outlet-sales/features"
	"outlet-sales/models"
	"outlet-sales/regression"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open(config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewStore(db, config.DriverSQLite)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func sampleRecords() []*models.SalesRecord {
	return []*models.SalesRecord{
		{
			ItemIdentifier: "FDA15", ItemWeight: models.Float64(9.3), ItemFatContent: "Low Fat",
			ItemVisibility: models.Float64(0.016047301), ItemType: "Dairy", ItemMRP: 249.8092,
			OutletIdentifier: "OUT049", OutletEstablishmentYear: 1999, OutletSize: models.String("Medium"),
			OutletLocationType: "Tier 1", OutletType: "Supermarket Type1", ItemOutletSales: models.Float64(3735.138),
		},
		{
			ItemIdentifier: "DRC01", ItemWeight: models.Float64(5.92), ItemFatContent: "Regular",
			ItemVisibility: models.Float64(0.019278216), ItemType: "Soft Drinks", ItemMRP: 48.2692,
			OutletIdentifier: "OUT018", OutletEstablishmentYear: 2009, OutletSize: models.String("Medium"),
			OutletLocationType: "Tier 3", OutletType: "Supermarket Type2", ItemOutletSales: models.Float64(443.4228),
		},
		{
			ItemIdentifier: "FDX07", ItemWeight: models.Float64(19.2), ItemFatContent: "reg",
			ItemVisibility: models.Float64(0), ItemType: "Fruits and Vegetables", ItemMRP: 182.095,
			OutletIdentifier: "OUT010", OutletEstablishmentYear: 1998,
			OutletLocationType: "Tier 3", OutletType: "Grocery Store", ItemOutletSales: models.Float64(732.38),
		},
		{
			ItemIdentifier: "FDP10", ItemFatContent: "Low Fat",
			ItemVisibility: models.Float64(0.127469857), ItemType: "Snack Foods", ItemMRP: 107.7622,
			OutletIdentifier: "OUT027", OutletEstablishmentYear: 1985, OutletSize: models.String("Medium"),
			OutletLocationType: "Tier 3", OutletType: "Supermarket Type3",
		},
	}
}

func sampleArtifact(t *testing.T, id string, createdAt time.Time) *models.Artifact {
	t.Helper()
	enc, err := features.Fit(models.RawRecords(sampleRecords()))
	require.NoError(t, err)

	schema := enc.Schema()
	coef := make([]float64, schema.Len())
	for i := range coef {
		coef[i] = float64(i) * 0.5
	}
	return &models.Artifact{
		ID:          id,
		CreatedAt:   createdAt,
		Fingerprint: schema.Fingerprint(),
		Schema:      schema,
		Stats:       enc.Stats(),
		Model: &regression.Linear{
			Coefficients: coef,
			Intercept:    100,
			Features:     schema.Names(),
			Ridge:        regression.DefaultRidge,
		},
		Metrics:   regression.Metrics{R2: 0.5, MAE: 10, RMSE: 12, N: 1},
		TrainRows: 3,
		TestRows:  1,
	}
}
