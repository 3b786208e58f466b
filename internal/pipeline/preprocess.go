package pipeline

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes numeric features to zero mean and unit variance using
// statistics fit on training data only. Fields are exported for gob.
type Scaler struct {
	Mean []float64
	Std  []float64
}

func (s *Scaler) fit(X [][]float64) {
	if len(X) == 0 {
		return
	}
	p := len(X[0])
	s.Mean = make([]float64, p)
	s.Std = make([]float64, p)
	col := make([]float64, len(X))
	for j := 0; j < p; j++ {
		for i := range X {
			col[i] = X[i][j]
		}
		s.Mean[j] = stat.Mean(col, nil)
		s.Std[j] = stat.StdDev(col, nil)
		if s.Std[j] == 0 || len(X) < 2 {
			// constant column: leave centered values at zero
			s.Std[j] = 1
		}
	}
}

func (s *Scaler) transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j := range x {
		out[j] = (x[j] - s.Mean[j]) / s.Std[j]
	}
	return out
}

// OneHot encodes a single categorical feature, dropping the first
// (lexicographically smallest) category as the reference to avoid
// collinearity with the intercept. Unseen categories encode as the
// reference (all zeros).
type OneHot struct {
	Categories []string
}

func (e *OneHot) fit(vals []string) {
	seen := map[string]struct{}{}
	for _, v := range vals {
		seen[v] = struct{}{}
	}
	e.Categories = make([]string, 0, len(seen))
	for v := range seen {
		e.Categories = append(e.Categories, v)
	}
	sort.Strings(e.Categories)
}

func (e *OneHot) width() int {
	if len(e.Categories) == 0 {
		return 0
	}
	return len(e.Categories) - 1
}

func (e *OneHot) encode(v string) []float64 {
	out := make([]float64, e.width())
	for i := 1; i < len(e.Categories); i++ {
		if e.Categories[i] == v {
			out[i-1] = 1
			break
		}
	}
	return out
}
