package pipeline

import (
	"fmt"
	"math"

	"github.com/beanbyte/roastcast-cli/internal/dataset"
)

// LevelSearch scans roast levels over [Min, Max) in Step increments. The
// search space is a single bounded real axis over a smooth model; a plain
// linear scan covers it.
type LevelSearch struct {
	Min  float64
	Max  float64
	Step float64
}

// DefaultLevelSearch matches the roaster's level range.
func DefaultLevelSearch() LevelSearch {
	return LevelSearch{Min: 0.0, Max: 6.0, Step: 0.1}
}

// Best returns the scanned level whose predicted color is closest to the
// target, with its absolute error. Error must strictly decrease to update
// the best-so-far, so exact ties keep the lowest level. The color pipeline
// and the fixed bean/profile attributes come from the caller.
func (ls LevelSearch) Best(p *Pipeline, profile string, vals map[string]float64, targetColor float64) (float64, float64, error) {
	if ls.Step <= 0 || ls.Max <= ls.Min {
		return 0, 0, fmt.Errorf("invalid level range [%g, %g) step %g", ls.Min, ls.Max, ls.Step)
	}
	fixed := make(map[string]float64, len(vals)+1)
	for k, v := range vals {
		fixed[k] = v
	}
	bestLevel := math.NaN()
	bestErr := math.Inf(1)
	for i := 0; ; i++ {
		level := ls.Min + float64(i)*ls.Step
		if level >= ls.Max-1e-9 {
			break
		}
		fixed[dataset.ColLevel] = level
		pred, ok := p.PredictRow(profile, fixed)
		if !ok {
			return 0, 0, fmt.Errorf("incomplete attributes for color prediction")
		}
		if e := math.Abs(pred - targetColor); e < bestErr {
			bestErr = e
			bestLevel = level
		}
	}
	return bestLevel, bestErr, nil
}
