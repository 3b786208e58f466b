package pipeline

import (
	"math"
	"testing"
)

func boostFixture() ([][]float64, []float64) {
	var X [][]float64
	var y []float64
	for i := 0; i < 40; i++ {
		a := float64(i % 8)
		b := float64(i % 5)
		X = append(X, []float64{a, b})
		y = append(y, 5+2*a+b)
	}
	return X, y
}

func TestGBTDeterministicForFixedSeed(t *testing.T) {
	X, y := boostFixture()
	m1 := newGBTModel()
	m2 := newGBTModel()
	if err := m1.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if err := m2.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	for i, row := range X {
		p1, p2 := m1.Predict(row), m2.Predict(row)
		if p1 != p2 {
			t.Fatalf("row %d: %v != %v, training not deterministic", i, p1, p2)
		}
	}
}

func TestGBTFitsPositiveTarget(t *testing.T) {
	X, y := boostFixture()
	m := newGBTModel()
	if err := m.Fit(X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	var sumAbs, sumY float64
	for i, row := range X {
		sumAbs += math.Abs(m.Predict(row) - y[i])
		sumY += y[i]
	}
	mae := sumAbs / float64(len(y))
	meanY := sumY / float64(len(y))
	if mae > 0.25*meanY {
		t.Errorf("training MAE %v too large for target mean %v", mae, meanY)
	}
	for i, row := range X {
		if p := m.Predict(row); p <= 0 || math.IsNaN(p) {
			t.Fatalf("row %d: non-positive prediction %v", i, p)
		}
	}
}

func TestGBTRejectsNonPositiveMean(t *testing.T) {
	m := newGBTModel()
	err := m.Fit([][]float64{{1}, {2}}, []float64{-1, 1})
	if err == nil {
		t.Fatal("expected error for non-positive target mean")
	}
}

func TestGBTEmptyInput(t *testing.T) {
	m := newGBTModel()
	if err := m.Fit(nil, nil); err == nil {
		t.Fatal("expected error for zero training rows")
	}
}

func TestTreePredictRouting(t *testing.T) {
	tr := Tree{Nodes: []TreeNode{
		{Feature: 0, Threshold: 1.5, Left: 1, Right: 2},
		{Leaf: true, Value: -1},
		{Leaf: true, Value: 2},
	}}
	if got := tr.predict([]float64{1.0}); got != -1 {
		t.Errorf("left leaf = %v, want -1", got)
	}
	if got := tr.predict([]float64{2.0}); got != 2 {
		t.Errorf("right leaf = %v, want 2", got)
	}
	if got := tr.predict([]float64{1.5}); got != -1 {
		t.Errorf("boundary routes left, got %v", got)
	}
}
