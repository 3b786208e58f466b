package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/beanbyte/roastcast-cli/internal/dataset"
	"github.com/beanbyte/roastcast-cli/internal/pipeline"
)

var (
	lvlModels   string
	lvlProfile  string
	lvlMoisture float64
	lvlDensity  float64
	lvlWeight   float64
	lvlAltitude float64
	lvlBeanAge  int
	lvlTarget   float64
)

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Recommend the roast level that best hits a target color",
	Long: `level scans the roast-level range with the persisted color pipeline and
returns the level whose predicted color is closest to the target. Ties keep
the lowest level.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		models := lvlModels
		if !cmd.Flags().Changed("models") && cfg != nil {
			models = cfg.ModelsDir
		}
		search := pipeline.DefaultLevelSearch()
		if cfg != nil {
			search = pipeline.LevelSearch{Min: cfg.LevelMin, Max: cfg.LevelMax, Step: cfg.LevelStep}
		}
		vals := map[string]float64{
			dataset.ColMoisture: lvlMoisture,
			dataset.ColDensity:  lvlDensity,
			dataset.ColWeight:   lvlWeight,
			dataset.ColAltitude: lvlAltitude,
			dataset.ColBeanAge:  float64(lvlBeanAge),
		}
		return runLevel(os.Stdout, models, search, lvlProfile, vals, lvlTarget)
	},
}

func init() {
	f := levelCmd.Flags()
	f.StringVar(&lvlModels, "models", "models", "directory holding trained model artifacts")
	f.StringVar(&lvlProfile, "profile", "", "roast profile name")
	f.Float64Var(&lvlMoisture, "moisture", 0, "green-bean moisture in %")
	f.Float64Var(&lvlDensity, "density", 0, "bean density in g/l")
	f.Float64Var(&lvlWeight, "weight", 0, "average bean weight in mg")
	f.Float64Var(&lvlAltitude, "altitude", 0, "growing altitude in m")
	f.IntVar(&lvlBeanAge, "bean-age", 1, "bean age in years")
	f.Float64Var(&lvlTarget, "target-color", 0, "desired color on the Tonino scale")
	for _, name := range []string{"profile", "moisture", "density", "weight", "altitude", "target-color"} {
		_ = levelCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(levelCmd)
}

func runLevel(w io.Writer, modelsDir string, search pipeline.LevelSearch, profile string, vals map[string]float64, targetColor float64) error {
	store := pipeline.NewStore(modelsDir)
	p, err := store.Load("color")
	if err != nil {
		return err
	}
	best, absErr, err := search.Best(p, profile, vals, targetColor)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Best level: %.1f (color error %.2f)\n", best, absErr)
	return nil
}
