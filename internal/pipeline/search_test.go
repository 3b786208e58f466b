package pipeline

import (
	"math"
	"testing"

	"github.com/beanbyte/roastcast-cli/internal/dataset"
)

// levelPipeline returns a hand-built color pipeline whose prediction equals
// slope*level + offset, so search behavior is exact and easy to reason about.
func levelPipeline(slope, offset float64) *Pipeline {
	return &Pipeline{
		Target:  "color",
		Outcome: dataset.ColColor,
		NumCols: []string{dataset.ColLevel},
		Scaler:  Scaler{Mean: []float64{0}, Std: []float64{1}},
		Encoder: OneHot{Categories: []string{"Espresso"}},
		Model:   &RidgeModel{Weights: []float64{offset, slope}},
	}
}

func TestLevelSearchFindsGridMinimum(t *testing.T) {
	// color = 10*level: target 23 is closest at level 2.3
	p := levelPipeline(10, 0)
	best, absErr, err := DefaultLevelSearch().Best(p, "Espresso", map[string]float64{}, 23)
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if math.Abs(best-2.3) > 1e-9 {
		t.Errorf("best level = %v, want 2.3", best)
	}
	if absErr > 1e-9 {
		t.Errorf("error = %v, want ~0", absErr)
	}

	// exhaustive check: no scanned level does better
	ls := DefaultLevelSearch()
	for i := 0; ; i++ {
		lvl := ls.Min + float64(i)*ls.Step
		if lvl >= ls.Max-1e-9 {
			break
		}
		if e := math.Abs(10*lvl - 23); e < absErr-1e-12 {
			t.Fatalf("level %v has smaller error %v than returned %v", lvl, e, absErr)
		}
	}
}

func TestLevelSearchTieKeepsLowestLevel(t *testing.T) {
	// constant color: every level ties, so the first scanned level wins
	p := levelPipeline(0, 100)
	best, absErr, err := DefaultLevelSearch().Best(p, "Espresso", map[string]float64{}, 95)
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if best != 0.0 {
		t.Errorf("tied search returned level %v, want 0.0", best)
	}
	if absErr != 5 {
		t.Errorf("error = %v, want 5", absErr)
	}
}

func TestLevelSearchExclusiveUpperBound(t *testing.T) {
	// color = level: target 6.0 is never scanned, best is 5.9
	p := levelPipeline(1, 0)
	best, _, err := DefaultLevelSearch().Best(p, "Espresso", map[string]float64{}, 6.0)
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	if math.Abs(best-5.9) > 1e-9 {
		t.Errorf("best level = %v, want 5.9 (6.0 excluded)", best)
	}
}

func TestLevelSearchInvalidRange(t *testing.T) {
	p := levelPipeline(1, 0)
	if _, _, err := (LevelSearch{Min: 0, Max: 6, Step: 0}).Best(p, "Espresso", nil, 3); err == nil {
		t.Fatal("expected error for zero step")
	}
}
