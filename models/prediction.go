package models

import (
	"time"

	"outlet-sales/regression"
)

// Prediction is one row of the sales_predictions table.
type Prediction struct {
	ID               int64
	ItemIdentifier   string
	OutletIdentifier string
	PredictedSales   float64
	ModelID          string
	CreatedAt        time.Time
}

// SinglePrediction is the outcome of scoring one interactively built record.
type SinglePrediction struct {
	Record    *SalesRecord
	Predicted float64
	ModelID   string
}

// Difference returns predicted minus actual, when the actual is known.
func (p *SinglePrediction) Difference() (float64, bool) {
	if p.Record == nil || p.Record.ItemOutletSales == nil {
		return 0, false
	}
	return p.Predicted - *p.Record.ItemOutletSales, true
}

// Comparison pairs a prediction with the stored actual sales.
type Comparison struct {
	ItemIdentifier   string
	OutletIdentifier string
	OutletType       string
	Actual           float64
	Predicted        float64
}

// Error is predicted minus actual.
func (c *Comparison) Error() float64 {
	return c.Predicted - c.Actual
}

// PredictionReport holds the summary of a batch prediction run.
type PredictionReport struct {
	ModelID          string
	TotalPredictions int
	WithActual       int
	AveragePredicted float64
	MinPredicted     float64
	MaxPredicted     float64
	Metrics          *regression.Metrics
	WorstMisses      []*Comparison
	AverageByOutlet  map[string]float64
}
