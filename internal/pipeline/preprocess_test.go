package pipeline

import (
	"math"
	"testing"
)

func TestScalerStandardizes(t *testing.T) {
	X := [][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}}
	var s Scaler
	s.fit(X)

	// transformed training columns must have zero mean
	var sum0, sum1 float64
	for _, row := range X {
		z := s.transform(row)
		sum0 += z[0]
		sum1 += z[1]
	}
	if math.Abs(sum0) > 1e-12 || math.Abs(sum1) > 1e-12 {
		t.Errorf("transformed means = %v, %v, want 0", sum0/4, sum1/4)
	}
	if s.Mean[0] != 2.5 || s.Mean[1] != 25 {
		t.Errorf("means = %v, want [2.5 25]", s.Mean)
	}
}

func TestScalerConstantColumn(t *testing.T) {
	X := [][]float64{{5}, {5}, {5}}
	var s Scaler
	s.fit(X)
	z := s.transform([]float64{5})
	if z[0] != 0 {
		t.Errorf("constant column transform = %v, want 0", z[0])
	}
}

func TestOneHotDropsFirstCategory(t *testing.T) {
	var e OneHot
	e.fit([]string{"Filter", "Espresso", "Filter", "Omni"})
	want := []string{"Espresso", "Filter", "Omni"}
	if len(e.Categories) != 3 {
		t.Fatalf("categories = %v, want %v", e.Categories, want)
	}
	for i := range want {
		if e.Categories[i] != want[i] {
			t.Fatalf("categories = %v, want %v", e.Categories, want)
		}
	}

	// reference category encodes as all zeros
	if z := e.encode("Espresso"); z[0] != 0 || z[1] != 0 {
		t.Errorf("reference encoding = %v, want zeros", z)
	}
	if z := e.encode("Filter"); z[0] != 1 || z[1] != 0 {
		t.Errorf("Filter encoding = %v, want [1 0]", z)
	}
	if z := e.encode("Omni"); z[0] != 0 || z[1] != 1 {
		t.Errorf("Omni encoding = %v, want [0 1]", z)
	}
	// unseen categories fall back to the reference
	if z := e.encode("Turbo"); z[0] != 0 || z[1] != 0 {
		t.Errorf("unseen encoding = %v, want zeros", z)
	}
}
