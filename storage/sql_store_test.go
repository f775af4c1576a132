package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outlet-sales/config"
	"outlet-sales/models"
	"outlet-sales/utils"
)

func TestNewStoreRejectsUnknownDriver(t *testing.T) {
	_, err := NewStore(nil, "mysql")
	assert.Error(t, err)
}

func TestOpenSQLiteFile(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "sales.db")}

	s, err := Open(ctx, cfg.DBDriver, cfg.DSN(), &utils.RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond})
	require.NoError(t, err)
	defer s.Close()

	n, err := s.InsertRecords(ctx, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	// Migrate is idempotent.
	require.NoError(t, s.Migrate(ctx))
}

func TestInsertAndFetchRecords(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.InsertRecords(ctx, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	records, err := s.FetchRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)

	first := records[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "FDA15", first.ItemIdentifier)
	require.NotNil(t, first.ItemWeight)
	assert.InDelta(t, 9.3, *first.ItemWeight, 1e-12)
	assert.Equal(t, 1999, first.OutletEstablishmentYear)
	require.NotNil(t, first.OutletSize)
	assert.Equal(t, "Medium", *first.OutletSize)

	assert.Nil(t, records[2].OutletSize, "null outlet size survives the round trip")
	assert.Nil(t, records[3].ItemWeight, "null weight survives the round trip")
	assert.Nil(t, records[3].ItemOutletSales, "null target survives the round trip")
}

func TestInsertRecordsBatches(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var records []*models.SalesRecord
	for i := 0; i < insertBatchSize*2+7; i++ {
		records = append(records, sampleRecords()[i%4])
	}
	n, err := s.InsertRecords(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, len(records), n)

	fetched, err := s.FetchRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, fetched, len(records))
}

func TestInsertRecordsEmpty(t *testing.T) {
	s := newTestStore(t)
	n, err := s.InsertRecords(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFetchSingleRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.FirstRecord(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.RandomRecord(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.InsertRecords(ctx, sampleRecords())
	require.NoError(t, err)

	first, err := s.FirstRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, "FDA15", first.ItemIdentifier)

	byID, err := s.FetchRecord(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "FDX07", byID.ItemIdentifier)

	_, err = s.FetchRecord(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	random, err := s.RandomRecord(ctx)
	require.NoError(t, err)
	assert.Contains(t, []string{"FDA15", "DRC01", "FDX07", "FDP10"}, random.ItemIdentifier)
}

func TestReplaceAndAppendPredictions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	first := []*models.Prediction{
		{ItemIdentifier: "FDA15", OutletIdentifier: "OUT049", PredictedSales: 3000, ModelID: "m1", CreatedAt: base},
		{ItemIdentifier: "DRC01", OutletIdentifier: "OUT018", PredictedSales: 500, ModelID: "m1", CreatedAt: base},
	}
	require.NoError(t, s.ReplacePredictions(ctx, first))

	second := []*models.Prediction{
		{ItemIdentifier: "FDX07", OutletIdentifier: "OUT010", PredictedSales: 700, ModelID: "m2", CreatedAt: base.Add(time.Hour)},
	}
	require.NoError(t, s.ReplacePredictions(ctx, second))

	all, err := s.AllPredictions(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1, "replace clears the previous batch")
	assert.Equal(t, "FDX07", all[0].ItemIdentifier)
	assert.True(t, all[0].CreatedAt.Equal(base.Add(time.Hour)))

	single := &models.Prediction{ItemIdentifier: "FDP10", OutletIdentifier: "OUT027", PredictedSales: 1234.5, ModelID: "m2"}
	require.NoError(t, s.AppendPrediction(ctx, single))
	assert.False(t, single.CreatedAt.IsZero())

	latest, err := s.LatestPredictions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "FDP10", latest[0].ItemIdentifier, "newest first")
	assert.InDelta(t, 1234.5, latest[0].PredictedSales, 1e-9)
	assert.Equal(t, "FDX07", latest[1].ItemIdentifier)

	limited, err := s.LatestPredictions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestReplacePredictionsLargeBatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	preds := make([]*models.Prediction, insertBatchSize+3)
	for i := range preds {
		preds[i] = &models.Prediction{ItemIdentifier: "FDA15", OutletIdentifier: "OUT049", PredictedSales: float64(i), ModelID: "m"}
	}
	require.NoError(t, s.ReplacePredictions(ctx, preds))

	all, err := s.AllPredictions(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(preds))
	assert.InDelta(t, float64(len(preds)-1), all[len(all)-1].PredictedSales, 1e-9)
}

func TestArtifactRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.LatestArtifact(ctx)
	assert.ErrorIs(t, err, ErrNoArtifact)

	older := sampleArtifact(t, "11111111-1111-1111-1111-111111111111", time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))
	newer := sampleArtifact(t, "22222222-2222-2222-2222-222222222222", time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC))
	require.NoError(t, s.SaveArtifact(ctx, older))
	require.NoError(t, s.SaveArtifact(ctx, newer))

	loaded, err := s.LatestArtifact(ctx)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, loaded.ID)
	assert.True(t, loaded.Schema.Equal(newer.Schema))
	assert.Equal(t, newer.Fingerprint, loaded.Fingerprint)
	assert.Equal(t, newer.Model.Coefficients, loaded.Model.Coefficients)
	assert.Equal(t, newer.Stats.Means(), loaded.Stats.Means())
	assert.Equal(t, newer.Metrics, loaded.Metrics)

	enc, err := loaded.Encoder()
	require.NoError(t, err)
	vec, err := enc.Encode(sampleRecords()[0].Raw())
	require.NoError(t, err)
	assert.Len(t, vec, newer.Schema.Len())
}

func TestSaveArtifactRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	a := sampleArtifact(t, "33333333-3333-3333-3333-333333333333", time.Now().UTC())
	a.Fingerprint = "deadbeef"
	assert.Error(t, s.SaveArtifact(context.Background(), a))
}
