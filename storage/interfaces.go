package storage

import (
	"context"
	"errors"

	"outlet-sales/models"
)

var (
	// ErrNotFound is returned when a requested sales row does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrNoArtifact is returned when no model has been trained yet.
	ErrNoArtifact = errors.New("storage: no trained model artifact")
)

// RecordStore persists raw sales rows, the reference population.
type RecordStore interface {
	InsertRecords(ctx context.Context, records []*models.SalesRecord) (int, error)
	FetchRecords(ctx context.Context) ([]*models.SalesRecord, error)
	FetchRecord(ctx context.Context, id int64) (*models.SalesRecord, error)
	FirstRecord(ctx context.Context) (*models.SalesRecord, error)
	RandomRecord(ctx context.Context) (*models.SalesRecord, error)
}

// PredictionStore persists model outputs.
type PredictionStore interface {
	ReplacePredictions(ctx context.Context, predictions []*models.Prediction) error
	AppendPrediction(ctx context.Context, p *models.Prediction) error
	LatestPredictions(ctx context.Context, limit int) ([]*models.Prediction, error)
	AllPredictions(ctx context.Context) ([]*models.Prediction, error)
}

// ArtifactStore persists trained models with their frozen schema.
type ArtifactStore interface {
	SaveArtifact(ctx context.Context, a *models.Artifact) error
	LatestArtifact(ctx context.Context) (*models.Artifact, error)
}

// RawRowReader is the interface for reading unprocessed CSV input.
type RawRowReader interface {
	ReadAll() ([]*models.RawSalesRow, error)
	Close() error
}

// PredictionWriter is the interface any prediction export format must satisfy.
type PredictionWriter interface {
	WritePredictions(predictions []*models.Prediction) error
	Close() error
}
