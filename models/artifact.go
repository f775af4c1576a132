package models

import (
	"errors"
	"fmt"
	"time"

	"outlet-sales/features"
	"outlet-sales/regression"
)

// Artifact is a trained model persisted together with the frozen schema and
// population stats it was trained against. Prediction paths load all three
// together and never re-derive the schema.
type Artifact struct {
	ID          string                    `json:"id"`
	CreatedAt   time.Time                 `json:"created_at"`
	Fingerprint string                    `json:"fingerprint"`
	Schema      *features.Schema          `json:"schema"`
	Stats       *features.PopulationStats `json:"stats"`
	Model       *regression.Linear        `json:"model"`
	Metrics     regression.Metrics        `json:"metrics"`
	TrainRows   int                       `json:"train_rows"`
	TestRows    int                       `json:"test_rows"`
}

// Validate checks that the model, schema and fingerprint all agree.
func (a *Artifact) Validate() error {
	if a.Schema == nil || a.Stats == nil || a.Model == nil {
		return errors.New("artifact: incomplete, needs schema, stats and model")
	}
	if err := a.Model.Validate(); err != nil {
		return fmt.Errorf("artifact %s: %w", a.ID, err)
	}
	if err := a.Schema.CheckNames(a.Model.Features); err != nil {
		return fmt.Errorf("artifact %s: %w", a.ID, err)
	}
	if a.Fingerprint != a.Schema.Fingerprint() {
		return fmt.Errorf("artifact %s: %w: fingerprint %s does not match schema", a.ID, features.ErrSchemaMismatch, a.Fingerprint)
	}
	return nil
}

// Encoder returns the encoder bound to this artifact's schema.
func (a *Artifact) Encoder() (*features.Encoder, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return features.NewEncoder(a.Schema, a.Stats)
}

// ShortID is the first eight characters of the artifact ID.
func (a *Artifact) ShortID() string {
	if len(a.ID) > 8 {
		return a.ID[:8]
	}
	return a.ID
}
