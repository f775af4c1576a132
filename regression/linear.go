package regression

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"outlet-sales/features"
)

// DefaultRidge keeps the normal equations positive definite when one-hot
// columns are collinear or constant in the training split.
const DefaultRidge = 1e-3

// Linear is a fitted linear model: y = Intercept + Coefficients·x.
type Linear struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Features     []string  `json:"features"`
	Ridge        float64   `json:"ridge"`
}

// Fit solves ridge-regularised least squares on centered data, so the
// intercept is never penalised. featureNames names the columns of X in order.
func Fit(X [][]float64, y []float64, featureNames []string, ridge float64) (*Linear, error) {
	n := len(X)
	if n == 0 {
		return nil, errors.New("regression: no training rows")
	}
	if len(y) != n {
		return nil, fmt.Errorf("regression: %d rows but %d targets", n, len(y))
	}
	p := len(featureNames)
	if p == 0 {
		return nil, errors.New("regression: no features")
	}
	if ridge < 0 {
		return nil, fmt.Errorf("regression: negative ridge %g", ridge)
	}

	xMean := make([]float64, p)
	for i, row := range X {
		if len(row) != p {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", features.ErrSchemaMismatch, i, len(row), p)
		}
		floats.Add(xMean, row)
	}
	floats.Scale(1/float64(n), xMean)
	yMean := floats.Sum(y) / float64(n)

	centered := mat.NewDense(n, p, nil)
	yc := mat.NewVecDense(n, nil)
	for i, row := range X {
		for j, v := range row {
			centered.Set(i, j, v-xMean[j])
		}
		yc.SetVec(i, y[i]-yMean)
	}

	var gram mat.SymDense
	gram.SymOuterK(1, centered.T())
	for j := 0; j < p; j++ {
		gram.SetSym(j, j, gram.At(j, j)+ridge)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(&gram); !ok {
		return nil, errors.New("regression: normal equations are singular, increase the ridge term")
	}

	var xty, w mat.VecDense
	xty.MulVec(centered.T(), yc)
	if err := chol.SolveVecTo(&w, &xty); err != nil {
		return nil, fmt.Errorf("regression: solve: %w", err)
	}

	coef := make([]float64, p)
	for j := range coef {
		coef[j] = w.AtVec(j)
	}

	return &Linear{
		Coefficients: coef,
		Intercept:    yMean - floats.Dot(coef, xMean),
		Features:     slices.Clone(featureNames),
		Ridge:        ridge,
	}, nil
}

// Validate checks the model is internally consistent after loading.
func (m *Linear) Validate() error {
	if len(m.Coefficients) == 0 {
		return errors.New("regression: model has no coefficients")
	}
	if len(m.Coefficients) != len(m.Features) {
		return fmt.Errorf("%w: %d coefficients for %d features", features.ErrSchemaMismatch, len(m.Coefficients), len(m.Features))
	}
	return nil
}

// Predict scores one encoded vector. A vector of the wrong width is a
// schema mismatch, never truncated or padded.
func (m *Linear) Predict(x []float64) (float64, error) {
	if len(x) != len(m.Coefficients) {
		return 0, fmt.Errorf("%w: vector has %d columns, model expects %d", features.ErrSchemaMismatch, len(x), len(m.Coefficients))
	}
	return m.Intercept + floats.Dot(m.Coefficients, x), nil
}

// PredictBatch scores every row of X.
func (m *Linear) PredictBatch(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, x := range X {
		y, err := m.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = y
	}
	return out, nil
}
