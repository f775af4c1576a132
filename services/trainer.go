package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"outlet-sales/features"
	"outlet-sales/models"
	"outlet-sales/regression"
	"outlet-sales/storage"
	"outlet-sales/utils"
)

// TrainOptions controls the train/test split and the regulariser.
type TrainOptions struct {
	TestSize float64
	Seed     int64
	Ridge    float64
}

// DefaultTrainOptions mirrors the config defaults.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{TestSize: 0.2, Seed: 42, Ridge: regression.DefaultRidge}
}

// Trainer fits the encoder and the regression model on the stored
// population and persists both as one artifact.
type Trainer struct {
	records   storage.RecordStore
	artifacts storage.ArtifactStore
	logger    *utils.Logger
	now       func() time.Time
}

// NewTrainer creates a Trainer.
func NewTrainer(records storage.RecordStore, artifacts storage.ArtifactStore, logger *utils.Logger) *Trainer {
	return &Trainer{
		records:   records,
		artifacts: artifacts,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Train fits on every stored row with a known target and saves the artifact.
func (t *Trainer) Train(ctx context.Context, opts TrainOptions) (*models.Artifact, error) {
	all, err := t.records.FetchRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	labeled := make([]*models.SalesRecord, 0, len(all))
	for _, r := range all {
		if r.HasTarget() {
			labeled = append(labeled, r)
		}
	}
	if len(labeled) < 2 {
		return nil, fmt.Errorf("train: need at least 2 rows with sales, have %d", len(labeled))
	}
	t.logger.Info("[train] %d of %d stored rows carry a sales target", len(labeled), len(all))

	population := models.RawRecords(labeled)
	enc, err := features.Fit(population)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	schema := enc.Schema()
	t.logger.Debug("[train] Schema has %d columns (fingerprint %s)", schema.Len(), schema.Fingerprint()[:12])

	X, err := enc.EncodeBatch(population)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	y := make([]float64, len(labeled))
	for i, r := range labeled {
		y[i] = *r.ItemOutletSales
	}

	trainIdx, testIdx, err := regression.Split(len(X), opts.TestSize, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	xTrain, yTrain := regression.Take(vectors(X), y, trainIdx)
	xTest, yTest := regression.Take(vectors(X), y, testIdx)

	model, err := regression.Fit(xTrain, yTrain, schema.Names(), opts.Ridge)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	yPred, err := model.PredictBatch(xTest)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	metrics, err := regression.Evaluate(yTest, yPred)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	artifact := &models.Artifact{
		ID:          uuid.NewString(),
		CreatedAt:   t.now(),
		Fingerprint: schema.Fingerprint(),
		Schema:      schema,
		Stats:       enc.Stats(),
		Model:       model,
		Metrics:     metrics,
		TrainRows:   len(trainIdx),
		TestRows:    len(testIdx),
	}
	if err := t.artifacts.SaveArtifact(ctx, artifact); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	t.logger.Info("[train] Saved model %s | R² %.4f | MAE %.2f | RMSE %.2f",
		artifact.ShortID(), metrics.R2, metrics.MAE, metrics.RMSE)
	return artifact, nil
}

func vectors(vs []features.Vector) [][]float64 {
	out := make([][]float64, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}
