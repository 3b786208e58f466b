package cmd

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/spf13/cobra"

	"github.com/beanbyte/roastcast-cli/internal/dataset"
	"github.com/beanbyte/roastcast-cli/internal/pipeline"
)

var (
	rowModels   string
	rowProfile  string
	rowLevel    float64
	rowMoisture float64
	rowDensity  float64
	rowWeight   float64
	rowAltitude float64
	rowBeanAge  int
	rowLoss     float64
)

// rowInput carries one manually specified roast. Loss is optional; dose and
// grind are silently skipped without it.
type rowInput struct {
	Profile  string
	Level    float64
	Moisture float64
	Density  float64
	Weight   float64
	Altitude float64
	BeanAge  float64
	Loss     float64
	HasLoss  bool
}

func (in rowInput) values() map[string]float64 {
	vals := map[string]float64{
		dataset.ColLevel:    in.Level,
		dataset.ColMoisture: in.Moisture,
		dataset.ColDensity:  in.Density,
		dataset.ColWeight:   in.Weight,
		dataset.ColAltitude: in.Altitude,
		dataset.ColBeanAge:  in.BeanAge,
	}
	if in.HasLoss {
		vals[dataset.ColLoss] = in.Loss
	} else {
		vals[dataset.ColLoss] = math.NaN()
	}
	return vals
}

// unitFor labels single-row prediction output per target.
var unitFor = map[string]string{
	"loss":  "%",
	"color": "Tonino",
	"dose":  "g",
	"grind": "°Titus",
}

var predictRowCmd = &cobra.Command{
	Use:   "predict-row",
	Short: "Predict all resolvable targets for one manually specified roast",
	RunE: func(cmd *cobra.Command, args []string) error {
		models := rowModels
		if !cmd.Flags().Changed("models") && cfg != nil {
			models = cfg.ModelsDir
		}
		in := rowInput{
			Profile:  rowProfile,
			Level:    rowLevel,
			Moisture: rowMoisture,
			Density:  rowDensity,
			Weight:   rowWeight,
			Altitude: rowAltitude,
			BeanAge:  float64(rowBeanAge),
			Loss:     rowLoss,
			HasLoss:  cmd.Flags().Changed("loss"),
		}
		return runPredictRow(os.Stdout, models, in)
	},
}

func init() {
	f := predictRowCmd.Flags()
	f.StringVar(&rowModels, "models", "models", "directory holding trained model artifacts")
	f.StringVar(&rowProfile, "profile", "", "roast profile name")
	f.Float64Var(&rowLevel, "level", 0, "roast level")
	f.Float64Var(&rowMoisture, "moisture", 0, "green-bean moisture in %")
	f.Float64Var(&rowDensity, "density", 0, "bean density in g/l")
	f.Float64Var(&rowWeight, "weight", 0, "average bean weight in mg")
	f.Float64Var(&rowAltitude, "altitude", 0, "growing altitude in m")
	f.IntVar(&rowBeanAge, "bean-age", 1, "bean age in years")
	f.Float64Var(&rowLoss, "loss", 0, "measured weight loss in % (feeds dose and grind)")
	for _, name := range []string{"profile", "level", "moisture", "density", "weight", "altitude"} {
		_ = predictRowCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(predictRowCmd)
}

func runPredictRow(w io.Writer, modelsDir string, in rowInput) error {
	pipes, err := loadAllPipelines(modelsDir)
	if err != nil {
		return err
	}
	vals := in.values()
	for _, tg := range pipeline.Targets {
		v, ok := pipes[tg.Name].PredictRow(in.Profile, vals)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s: %.2f %s\n", capitalize(tg.Name), v, unitFor[tg.Name])
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
