package pipeline

import (
	"fmt"
	"math"

	"github.com/beanbyte/roastcast-cli/internal/dataset"
)

// Regressor is the model stage of a pipeline. Implementations must carry
// all fitted state in exported fields so a pipeline round-trips through gob.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(x []float64) float64
}

// Pipeline is one target's feature preprocessing plus regressor.
// Construct with New, fit with Fit, then persist via Store.
type Pipeline struct {
	Target  string
	Outcome string
	NumCols []string
	Scaler  Scaler
	Encoder OneHot
	Model   Regressor
}

// New constructs an untrained pipeline for the named target: standardized
// numerics plus drop-first one-hot profile, feeding a CV-tuned ridge
// regressor for the roughly linear loss/color outcomes and a Poisson
// gradient-boosted tree ensemble for dose/grind.
func New(target string) (*Pipeline, error) {
	tg, ok := TargetByName(target)
	if !ok {
		return nil, fmt.Errorf("unknown target %q", target)
	}
	p := &Pipeline{
		Target:  tg.Name,
		Outcome: tg.Outcome,
		NumCols: tg.NumericPredictors(),
	}
	switch tg.Name {
	case "loss", "color":
		p.Model = newRidgeModel()
	case "dose", "grind":
		p.Model = newGBTModel()
	}
	return p, nil
}

// Fit trains the preprocessing stages and the regressor on aligned rows of
// profile names, numeric predictors (ordered as NumCols), and outcomes.
func (p *Pipeline) Fit(profiles []string, X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("target %s: no usable training rows", p.Target)
	}
	if len(profiles) != len(X) || len(y) != len(X) {
		return fmt.Errorf("target %s: misaligned training data", p.Target)
	}
	p.Encoder.fit(profiles)
	p.Scaler.fit(X)
	design := make([][]float64, len(X))
	for i := range X {
		design[i] = p.featurize(profiles[i], X[i])
	}
	if err := p.Model.Fit(design, y); err != nil {
		return fmt.Errorf("target %s: %w", p.Target, err)
	}
	return nil
}

// Predict applies the fitted pipeline to one row of numeric predictors
// ordered as NumCols.
func (p *Pipeline) Predict(profile string, x []float64) float64 {
	return p.Model.Predict(p.featurize(profile, x))
}

// PredictRow predicts from named values. It reports ok=false, skipping the
// target, when any required numeric predictor is absent or NaN.
func (p *Pipeline) PredictRow(profile string, vals map[string]float64) (float64, bool) {
	x := make([]float64, len(p.NumCols))
	for j, col := range p.NumCols {
		v, ok := vals[col]
		if !ok || math.IsNaN(v) {
			return 0, false
		}
		x[j] = v
	}
	return p.Predict(profile, x), true
}

func (p *Pipeline) featurize(profile string, x []float64) []float64 {
	out := p.Scaler.transform(x)
	return append(out, p.Encoder.encode(profile)...)
}

// TrainingData extracts aligned (profiles, X, y) for a target from the
// given row subset of a table, usually the output of CompleteRows.
func TrainingData(t *dataset.Table, tg Target, rows []int) (profiles []string, X [][]float64, y []float64) {
	numCols := tg.NumericPredictors()
	for _, r := range rows {
		profiles = append(profiles, t.Profile(r))
		x := make([]float64, len(numCols))
		for j, col := range numCols {
			x[j] = t.Value(col, r)
		}
		X = append(X, x)
		y = append(y, t.Value(tg.Outcome, r))
	}
	return profiles, X, y
}

// FeatureVector extracts one prediction row for a target. ok is false when
// any predictor is missing, which callers treat as a silent skip.
func FeatureVector(t *dataset.Table, tg Target, row int) (profile string, x []float64, ok bool) {
	profile = t.Profile(row)
	if profile == "" {
		return "", nil, false
	}
	numCols := tg.NumericPredictors()
	x = make([]float64, len(numCols))
	for j, col := range numCols {
		v := t.Value(col, row)
		if math.IsNaN(v) {
			return "", nil, false
		}
		x[j] = v
	}
	return profile, x, true
}
