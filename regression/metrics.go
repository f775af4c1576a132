package regression

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics summarises predictions against known targets.
type Metrics struct {
	R2   float64 `json:"r2"`
	MAE  float64 `json:"mae"`
	RMSE float64 `json:"rmse"`
	N    int     `json:"n"`
}

// Evaluate computes R², MAE and RMSE.
func Evaluate(yTrue, yPred []float64) (Metrics, error) {
	if len(yTrue) == 0 {
		return Metrics{}, errors.New("regression: nothing to evaluate")
	}
	if len(yTrue) != len(yPred) {
		return Metrics{}, fmt.Errorf("regression: %d targets but %d predictions", len(yTrue), len(yPred))
	}

	n := float64(len(yTrue))
	return Metrics{
		R2:   stat.RSquaredFrom(yPred, yTrue, nil),
		MAE:  floats.Distance(yTrue, yPred, 1) / n,
		RMSE: floats.Distance(yTrue, yPred, 2) / math.Sqrt(n),
		N:    len(yTrue),
	}, nil
}
