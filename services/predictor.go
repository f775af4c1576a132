package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"outlet-sales/features"
	"outlet-sales/models"
	"outlet-sales/storage"
	"outlet-sales/utils"
)

// Predictor scores stored rows with the latest trained artifact. It never
// rebuilds the schema: every path encodes through the artifact's encoder.
type Predictor struct {
	records     storage.RecordStore
	predictions storage.PredictionStore
	artifacts   storage.ArtifactStore
	logger      *utils.Logger
	workers     int
	chunkSize   int
	now         func() time.Time
}

// NewPredictor creates a Predictor that encodes and scores batches on up to
// workers goroutines, chunkSize rows at a time.
func NewPredictor(records storage.RecordStore, predictions storage.PredictionStore, artifacts storage.ArtifactStore,
	logger *utils.Logger, workers, chunkSize int) *Predictor {
	if chunkSize < 1 {
		chunkSize = 500
	}
	return &Predictor{
		records:     records,
		predictions: predictions,
		artifacts:   artifacts,
		logger:      logger,
		workers:     workers,
		chunkSize:   chunkSize,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// BatchResult is the outcome of PredictAll: the scored rows and their
// predictions, index-aligned.
type BatchResult struct {
	Artifact    *models.Artifact
	Records     []*models.SalesRecord
	Predictions []*models.Prediction
}

// PredictAll scores every stored row and replaces the sales_predictions table.
func (p *Predictor) PredictAll(ctx context.Context) (*BatchResult, error) {
	artifact, enc, err := p.loadModel(ctx)
	if err != nil {
		return nil, err
	}

	records, err := p.records.FetchRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("predict: no sales rows stored, run load first")
	}

	scores, err := p.score(ctx, enc, artifact, records)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	createdAt := p.now()
	preds := make([]*models.Prediction, len(records))
	for i, r := range records {
		preds[i] = &models.Prediction{
			ItemIdentifier:   r.ItemIdentifier,
			OutletIdentifier: r.OutletIdentifier,
			PredictedSales:   scores[i],
			ModelID:          artifact.ID,
			CreatedAt:        createdAt,
		}
	}

	if err := p.predictions.ReplacePredictions(ctx, preds); err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	p.logger.Info("[predict] Stored %d predictions from model %s", len(preds), artifact.ShortID())

	return &BatchResult{Artifact: artifact, Records: records, Predictions: preds}, nil
}

// score encodes and predicts records in chunks on the worker pool. Results
// are written by index so output order matches input order.
func (p *Predictor) score(ctx context.Context, enc *features.Encoder, artifact *models.Artifact, records []*models.SalesRecord) ([]float64, error) {
	out := make([]float64, len(records))
	pool := utils.NewWorkerPool(p.workers)

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, span := range utils.Chunks(len(records), p.chunkSize) {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}
		start, end := span[0], span[1]
		pool.Submit(func() {
			if err := scoreSpan(ctx, enc, artifact, records[start:end], out[start:end]); err != nil {
				fail(err)
				return
			}
			p.logger.Debug("[predict] Scored rows %d-%d", start, end)
		})
	}
	pool.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// scoreSpan fills out[i] with the prediction for records[i]. It stops at the
// first failing row or as soon as ctx is done.
func scoreSpan(ctx context.Context, enc *features.Encoder, artifact *models.Artifact, records []*models.SalesRecord, out []float64) error {
	for i, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		vec, err := enc.Encode(r.Raw())
		if err != nil {
			return fmt.Errorf("row %d (%s): %w", r.ID, r.Key(), err)
		}
		y, err := artifact.Model.Predict(vec)
		if err != nil {
			return fmt.Errorf("row %d (%s): %w", r.ID, r.Key(), err)
		}
		out[i] = y
	}
	return nil
}

// Overrides replace selected inputs of the base row before scoring. Nil
// fields keep the stored value.
type Overrides struct {
	MRP               *float64
	Visibility        *float64
	FatContent        *string
	LocationType      *string
	OutletType        *string
	EstablishmentYear *int
}

func (o Overrides) apply(r *models.SalesRecord) {
	if o.MRP != nil {
		r.ItemMRP = *o.MRP
	}
	if o.Visibility != nil {
		v := *o.Visibility
		r.ItemVisibility = &v
	}
	if o.FatContent != nil {
		r.ItemFatContent = *o.FatContent
	}
	if o.LocationType != nil {
		r.OutletLocationType = *o.LocationType
	}
	if o.OutletType != nil {
		r.OutletType = *o.OutletType
	}
	if o.EstablishmentYear != nil {
		r.OutletEstablishmentYear = *o.EstablishmentYear
	}
}

// SingleRequest selects the base row for PredictOne. RecordID wins over
// Random; with neither set the first stored row is used.
type SingleRequest struct {
	RecordID  int64
	Random    bool
	Overrides Overrides
	Save      bool
}

// PredictOne scores one stored row after applying overrides, using the same
// encoder as PredictAll. With Save set the result is appended to the
// prediction history.
func (p *Predictor) PredictOne(ctx context.Context, req SingleRequest) (*models.SinglePrediction, error) {
	artifact, enc, err := p.loadModel(ctx)
	if err != nil {
		return nil, err
	}

	base, err := p.baseRecord(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("predict one: %w", err)
	}
	record := *base
	req.Overrides.apply(&record)

	vec, err := enc.Encode(record.Raw())
	if err != nil {
		return nil, fmt.Errorf("predict one: %w", err)
	}
	y, err := artifact.Model.Predict(vec)
	if err != nil {
		return nil, fmt.Errorf("predict one: %w", err)
	}

	result := &models.SinglePrediction{Record: &record, Predicted: y, ModelID: artifact.ID}
	if req.Save {
		pred := &models.Prediction{
			ItemIdentifier:   record.ItemIdentifier,
			OutletIdentifier: record.OutletIdentifier,
			PredictedSales:   y,
			ModelID:          artifact.ID,
			CreatedAt:        p.now(),
		}
		if err := p.predictions.AppendPrediction(ctx, pred); err != nil {
			return nil, fmt.Errorf("predict one: %w", err)
		}
		p.logger.Info("[predict] Saved prediction for %s", record.Key())
	}
	return result, nil
}

func (p *Predictor) baseRecord(ctx context.Context, req SingleRequest) (*models.SalesRecord, error) {
	switch {
	case req.RecordID > 0:
		return p.records.FetchRecord(ctx, req.RecordID)
	case req.Random:
		return p.records.RandomRecord(ctx)
	default:
		return p.records.FirstRecord(ctx)
	}
}

func (p *Predictor) loadModel(ctx context.Context) (*models.Artifact, *features.Encoder, error) {
	artifact, err := p.artifacts.LatestArtifact(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoArtifact) {
			return nil, nil, fmt.Errorf("predict: %w, run train first", err)
		}
		return nil, nil, fmt.Errorf("predict: %w", err)
	}
	enc, err := artifact.Encoder()
	if err != nil {
		return nil, nil, fmt.Errorf("predict: %w", err)
	}
	p.logger.Debug("[predict] Using model %s trained %s", artifact.ShortID(), artifact.CreatedAt.Format(time.RFC3339))
	return artifact, enc, nil
}
