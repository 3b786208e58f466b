package pipeline

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// GBTModel is a gradient-boosted ensemble of shallow regression trees fit
// with a Poisson deviance loss in log-link space, suited to the count-like
// dose and grind outcomes. Training is deterministic for a fixed Seed.
type GBTModel struct {
	Rounds       int
	LearningRate float64
	MaxDepth     int
	MinLeaf      int
	Subsample    float64
	Seed         int64

	// Fitted state.
	Base  float64
	Trees []Tree
}

func newGBTModel() *GBTModel {
	return &GBTModel{
		Rounds:       100,
		LearningRate: 0.05,
		MaxDepth:     3,
		MinLeaf:      2,
		Subsample:    0.8,
		Seed:         42,
	}
}

// Tree is a binary regression tree stored as a flat node slice.
type Tree struct {
	Nodes []TreeNode
}

// TreeNode is either an internal split (Feature/Threshold/Left/Right) or a
// leaf carrying the Newton-step value for its region.
type TreeNode struct {
	Leaf      bool
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
}

func (t *Tree) predict(x []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func (m *GBTModel) Fit(X [][]float64, y []float64) error {
	n := len(X)
	if n == 0 {
		return fmt.Errorf("boost: no training rows")
	}
	mean := floats.Sum(y) / float64(n)
	if mean <= 0 {
		return fmt.Errorf("boost: poisson loss requires a positive target mean, got %g", mean)
	}
	m.Base = math.Log(mean)
	m.Trees = m.Trees[:0]

	rng := rand.New(rand.NewSource(m.Seed))
	f := make([]float64, n) // current log-space score per row
	for i := range f {
		f[i] = m.Base
	}
	grad := make([]float64, n) // negative gradient y - exp(f)
	hess := make([]float64, n) // exp(f)

	for round := 0; round < m.Rounds; round++ {
		for i := range f {
			e := math.Exp(f[i])
			grad[i] = y[i] - e
			hess[i] = e
		}
		sample := m.sampleRows(rng, n)
		tree := buildTree(X, grad, hess, sample, m.MaxDepth, m.MinLeaf)
		m.Trees = append(m.Trees, tree)
		for i := range f {
			f[i] += m.LearningRate * tree.predict(X[i])
		}
	}
	return nil
}

func (m *GBTModel) sampleRows(rng *rand.Rand, n int) []int {
	k := int(math.Ceil(m.Subsample * float64(n)))
	if k <= 0 || k > n {
		k = n
	}
	idx := rng.Perm(n)[:k]
	sort.Ints(idx)
	return idx
}

func (m *GBTModel) Predict(x []float64) float64 {
	s := m.Base
	for i := range m.Trees {
		s += m.LearningRate * m.Trees[i].predict(x)
	}
	return math.Exp(s)
}

// buildTree grows a depth-limited tree on the sampled rows, splitting by
// the usual gain on gradient/hessian sums with unit L2 regularization.
func buildTree(X [][]float64, grad, hess []float64, rows []int, maxDepth, minLeaf int) Tree {
	t := Tree{}
	t.grow(X, grad, hess, rows, maxDepth, minLeaf)
	return t
}

func (t *Tree) grow(X [][]float64, grad, hess []float64, rows []int, depth, minLeaf int) int {
	var g, h float64
	for _, i := range rows {
		g += grad[i]
		h += hess[i]
	}
	node := TreeNode{Leaf: true, Value: leafValue(g, h)}
	idx := len(t.Nodes)
	t.Nodes = append(t.Nodes, node)
	if depth <= 0 || len(rows) < 2*minLeaf {
		return idx
	}

	feat, thr, ok := bestSplit(X, grad, hess, rows, g, h, minLeaf)
	if !ok {
		return idx
	}
	var left, right []int
	for _, i := range rows {
		if X[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	l := t.grow(X, grad, hess, left, depth-1, minLeaf)
	r := t.grow(X, grad, hess, right, depth-1, minLeaf)
	t.Nodes[idx] = TreeNode{Feature: feat, Threshold: thr, Left: l, Right: r}
	return idx
}

const splitLambda = 1.0

func leafValue(g, h float64) float64 {
	return g / (h + splitLambda)
}

func gainScore(g, h float64) float64 {
	return g * g / (h + splitLambda)
}

// bestSplit scans every feature and every midpoint between distinct sorted
// values, returning the split with the largest positive gain.
func bestSplit(X [][]float64, grad, hess []float64, rows []int, gTot, hTot float64, minLeaf int) (feat int, thr float64, ok bool) {
	if len(rows) == 0 {
		return 0, 0, false
	}
	base := gainScore(gTot, hTot)
	bestGain := 1e-12
	p := len(X[rows[0]])
	order := make([]int, len(rows))
	for j := 0; j < p; j++ {
		copy(order, rows)
		sort.Slice(order, func(a, b int) bool { return X[order[a]][j] < X[order[b]][j] })
		var gl, hl float64
		for k := 0; k < len(order)-1; k++ {
			i := order[k]
			gl += grad[i]
			hl += hess[i]
			cur, next := X[i][j], X[order[k+1]][j]
			if cur == next {
				continue
			}
			if k+1 < minLeaf || len(order)-k-1 < minLeaf {
				continue
			}
			gain := gainScore(gl, hl) + gainScore(gTot-gl, hTot-hl) - base
			if gain > bestGain {
				bestGain = gain
				feat = j
				thr = (cur + next) / 2
				ok = true
			}
		}
	}
	return feat, thr, ok
}
