package pipeline

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beanbyte/roastcast-cli/internal/dataset"
)

func fitLossFixture(t *testing.T) (*Pipeline, []string, [][]float64) {
	t.Helper()
	profiles := []string{"Espresso", "Filter", "Espresso", "Filter", "Espresso", "Filter", "Espresso", "Filter"}
	var X [][]float64
	var y []float64
	for i := 0; i < 8; i++ {
		// Level, Moisture, Density, Weight, Bean Age, Altitude
		x := []float64{1 + 0.5*float64(i), 10 + float64(i%3), 650 + 10*float64(i), 160 + float64(i), 1, 1400 + 50*float64(i%4)}
		X = append(X, x)
		y = append(y, 10+1.2*x[0]+0.1*float64(i%3))
	}
	p, err := New("loss")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := p.Fit(profiles, X, y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	return p, profiles, X
}

func TestFactoryModelSelection(t *testing.T) {
	for _, name := range []string{"loss", "color"} {
		p, err := New(name)
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		if _, ok := p.Model.(*RidgeModel); !ok {
			t.Errorf("%s model = %T, want *RidgeModel", name, p.Model)
		}
	}
	for _, name := range []string{"dose", "grind"} {
		p, err := New(name)
		if err != nil {
			t.Fatalf("New(%s): %v", name, err)
		}
		if _, ok := p.Model.(*GBTModel); !ok {
			t.Errorf("%s model = %T, want *GBTModel", name, p.Model)
		}
	}
	if _, err := New("acidity"); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestStoreRoundTrip(t *testing.T) {
	p, profiles, X := fitLossFixture(t)
	store := NewStore(filepath.Join(t.TempDir(), "models"))
	if err := store.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load("loss")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := range X {
		a := p.Predict(profiles[i], X[i])
		b := loaded.Predict(profiles[i], X[i])
		if a != b {
			t.Fatalf("row %d: round-trip prediction %v != %v", i, b, a)
		}
	}
	// atomic writes leave no temp debris
	entries, err := os.ReadDir(store.Dir)
	if err != nil {
		t.Fatalf("read models dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestStoreMissingArtifact(t *testing.T) {
	store := NewStore(t.TempDir())
	_, err := store.Load("color")
	if err == nil {
		t.Fatal("expected error for missing artifact")
	}
	if !errors.Is(err, ErrModelMissing) {
		t.Errorf("error = %v, want ErrModelMissing", err)
	}
	if !strings.Contains(err.Error(), "train") {
		t.Errorf("error %q should tell the user to train first", err)
	}
}

func TestPredictRowSkipsIncompleteInputs(t *testing.T) {
	p, _, _ := fitLossFixture(t)
	vals := map[string]float64{
		dataset.ColLevel:    2.0,
		dataset.ColMoisture: 11.3,
		dataset.ColDensity:  687,
		dataset.ColWeight:   168,
		dataset.ColBeanAge:  1,
		dataset.ColAltitude: 1650,
	}
	if _, ok := p.PredictRow("Espresso", vals); !ok {
		t.Fatal("complete inputs should predict")
	}
	vals[dataset.ColMoisture] = math.NaN()
	if _, ok := p.PredictRow("Espresso", vals); ok {
		t.Fatal("NaN predictor should skip the target")
	}
	delete(vals, dataset.ColMoisture)
	if _, ok := p.PredictRow("Espresso", vals); ok {
		t.Fatal("absent predictor should skip the target")
	}
}

func TestTargetDefinitions(t *testing.T) {
	for _, name := range []string{"dose", "grind"} {
		tg, ok := TargetByName(name)
		if !ok {
			t.Fatalf("missing target %s", name)
		}
		found := false
		for _, c := range tg.Predictors {
			if c == dataset.ColLoss {
				found = true
			}
		}
		if !found {
			t.Errorf("%s predictors %v should include Loss", name, tg.Predictors)
		}
	}
	tg, _ := TargetByName("loss")
	for _, c := range tg.Predictors {
		if c == dataset.ColLoss {
			t.Errorf("loss predictors must not include the outcome")
		}
	}
}
