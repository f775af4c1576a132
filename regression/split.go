package regression

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Split shuffles row indices with a fixed seed and holds out
// ceil(testSize*n) of them. The same n, testSize and seed always give the
// same split.
func Split(n int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("regression: test size %g must be in (0, 1)", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest < 1 || nTest >= n {
		return nil, nil, fmt.Errorf("regression: cannot hold out %d of %d rows", nTest, n)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	test = append(test, perm[:nTest]...)
	train = append(train, perm[nTest:]...)
	sort.Ints(test)
	sort.Ints(train)
	return train, test, nil
}

// Take returns the rows of X and y at idx.
func Take(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = X[j]
		ys[i] = y[j]
	}
	return xs, ys
}
