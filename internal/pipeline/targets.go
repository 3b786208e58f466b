// Package pipeline builds, trains, persists, and applies the per-target
// regression pipelines behind roastcast predictions.
package pipeline

import (
	"github.com/beanbyte/roastcast-cli/internal/dataset"
)

// Target names a predicted outcome and lists the columns required to train
// or apply its pipeline. Every predictor and the outcome must be present in
// a row for that row to participate in the target's training subset.
type Target struct {
	Name       string
	Outcome    string
	Predictors []string
}

// NumericPredictors returns the predictors minus the categorical Profile,
// in featurization order.
func (t Target) NumericPredictors() []string {
	out := make([]string, 0, len(t.Predictors))
	for _, c := range t.Predictors {
		if c != dataset.ColProfile {
			out = append(out, c)
		}
	}
	return out
}

// RequiredColumns is the predictor list plus the outcome column.
func (t Target) RequiredColumns() []string {
	return append(append([]string{}, t.Predictors...), t.Outcome)
}

var beanPredictors = []string{
	dataset.ColProfile, dataset.ColLevel, dataset.ColMoisture,
	dataset.ColDensity, dataset.ColWeight, dataset.ColBeanAge,
	dataset.ColAltitude,
}

// Targets holds the four prediction targets in training/report order.
// Dose and grind additionally depend on Loss, measured or predicted, so
// loss must be known before they can be evaluated.
var Targets = []Target{
	{Name: "loss", Outcome: dataset.ColLoss, Predictors: beanPredictors},
	{Name: "color", Outcome: dataset.ColColor, Predictors: beanPredictors},
	{Name: "dose", Outcome: dataset.ColDose, Predictors: append(append([]string{}, beanPredictors...), dataset.ColLoss)},
	{Name: "grind", Outcome: dataset.ColGrind, Predictors: append(append([]string{}, beanPredictors...), dataset.ColLoss)},
}

// TargetByName looks up a target definition.
func TargetByName(name string) (Target, bool) {
	for _, t := range Targets {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}
