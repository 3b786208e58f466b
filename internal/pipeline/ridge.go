package pipeline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// RidgeModel is an L2-regularized linear regressor. The regularization
// strength is selected by internal cross-validation over a logarithmically
// spaced grid of alphas, then the model is refit on all rows. The intercept
// is never penalized.
type RidgeModel struct {
	Alphas []float64
	Folds  int

	// Fitted state.
	Alpha   float64
	Weights []float64 // intercept first
}

func newRidgeModel() *RidgeModel {
	return &RidgeModel{Alphas: logspace(-3, 3, 13), Folds: 5}
}

// logspace returns n values of 10^x for x evenly spaced over [lo, hi].
func logspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Pow(10, lo+float64(i)*(hi-lo)/float64(n-1))
	}
	return out
}

func (m *RidgeModel) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return fmt.Errorf("ridge: no training rows")
	}
	m.Alpha = m.selectAlpha(X, y)
	w, err := solveRidge(X, y, m.Alpha)
	if err != nil {
		return fmt.Errorf("ridge: %w", err)
	}
	m.Weights = w
	return nil
}

// selectAlpha scores each candidate alpha with k-fold CV on contiguous
// folds (the grid is what matters, not the split) and returns the alpha
// with the smallest held-out squared error. Too few rows for even two
// folds falls back to the grid midpoint.
func (m *RidgeModel) selectAlpha(X [][]float64, y []float64) float64 {
	n := len(X)
	k := m.Folds
	if k > n {
		k = n
	}
	if len(m.Alphas) == 0 {
		return 1.0
	}
	if k < 2 {
		return m.Alphas[len(m.Alphas)/2]
	}
	best := m.Alphas[0]
	bestScore := math.Inf(1)
	for _, alpha := range m.Alphas {
		var sse float64
		var held int
		for f := 0; f < k; f++ {
			lo, hi := f*n/k, (f+1)*n/k
			trainX := make([][]float64, 0, n-(hi-lo))
			trainY := make([]float64, 0, n-(hi-lo))
			for i := 0; i < n; i++ {
				if i < lo || i >= hi {
					trainX = append(trainX, X[i])
					trainY = append(trainY, y[i])
				}
			}
			w, err := solveRidge(trainX, trainY, alpha)
			if err != nil {
				sse = math.Inf(1)
				break
			}
			for i := lo; i < hi; i++ {
				d := dotWithIntercept(w, X[i]) - y[i]
				sse += d * d
				held++
			}
		}
		if held > 0 && sse < bestScore {
			bestScore = sse
			best = alpha
		}
	}
	return best
}

// solveRidge solves (DᵀD + αI)w = Dᵀy for the intercept-augmented design D,
// with the intercept diagonal left unpenalized.
func solveRidge(X [][]float64, y []float64, alpha float64) ([]float64, error) {
	n := len(X)
	if n == 0 {
		return nil, fmt.Errorf("no rows")
	}
	p := len(X[0]) + 1
	d := mat.NewDense(n, p, nil)
	for i, row := range X {
		d.Set(i, 0, 1)
		for j, v := range row {
			d.Set(i, j+1, v)
		}
	}
	var a mat.Dense
	a.Mul(d.T(), d)
	for j := 1; j < p; j++ {
		a.Set(j, j, a.At(j, j)+alpha)
	}
	b := mat.NewVecDense(p, nil)
	b.MulVec(d.T(), mat.NewVecDense(n, y))

	var w mat.VecDense
	if err := w.SolveVec(&a, b); err != nil {
		return nil, fmt.Errorf("solve normal equations: %w", err)
	}
	out := make([]float64, p)
	copy(out, w.RawVector().Data)
	return out, nil
}

func dotWithIntercept(w, x []float64) float64 {
	v := w[0]
	for j := range x {
		v += w[j+1] * x[j]
	}
	return v
}

func (m *RidgeModel) Predict(x []float64) float64 {
	return dotWithIntercept(m.Weights, x)
}
