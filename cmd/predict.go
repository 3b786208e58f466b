package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/beanbyte/roastcast-cli/internal/dataset"
	"github.com/beanbyte/roastcast-cli/internal/pipeline"
)

var (
	predTSV    string
	predModels string
)

// predColumns maps each target to the header of its prediction column in
// batch output.
var predColumns = map[string]string{
	"loss":  "Pred Loss",
	"color": "Pred Color",
	"dose":  "Pred Dose [g]",
	"grind": "Pred Grind [°Titus]",
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict all targets for every row of a roast log",
	Long: `predict loads the persisted pipelines and emits the input table,
tab-separated, augmented with one prediction column per target. Rows with
incomplete predictors for a target get an empty cell for that target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		models := predModels
		if !cmd.Flags().Changed("models") && cfg != nil {
			models = cfg.ModelsDir
		}
		return runPredict(os.Stdout, predTSV, models)
	},
}

func init() {
	predictCmd.Flags().StringVar(&predTSV, "tsv", "", "path to the roast log (tab-separated)")
	predictCmd.Flags().StringVar(&predModels, "models", "models", "directory holding trained model artifacts")
	_ = predictCmd.MarkFlagRequired("tsv")
	rootCmd.AddCommand(predictCmd)
}

func loadAllPipelines(dir string) (map[string]*pipeline.Pipeline, error) {
	store := pipeline.NewStore(dir)
	out := make(map[string]*pipeline.Pipeline, len(pipeline.Targets))
	for _, tg := range pipeline.Targets {
		p, err := store.Load(tg.Name)
		if err != nil {
			return nil, err
		}
		out[tg.Name] = p
	}
	return out, nil
}

func runPredict(w io.Writer, tsvPath, modelsDir string) error {
	table, err := dataset.Load(tsvPath)
	if err != nil {
		return err
	}
	pipes, err := loadAllPipelines(modelsDir)
	if err != nil {
		return err
	}

	preds := make(map[string][]float64, len(pipeline.Targets))
	for _, tg := range pipeline.Targets {
		col := make([]float64, table.Len())
		for r := range col {
			col[r] = math.NaN()
			if profile, x, ok := pipeline.FeatureVector(table, tg, r); ok {
				col[r] = pipes[tg.Name].Predict(profile, x)
			}
		}
		preds[tg.Name] = col
	}

	header := append([]string{}, table.Header...)
	for _, tg := range pipeline.Targets {
		header = append(header, predColumns[tg.Name])
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return err
	}
	for r := 0; r < table.Len(); r++ {
		cells := append([]string{}, table.Rows[r]...)
		for _, tg := range pipeline.Targets {
			v := preds[tg.Name][r]
			if math.IsNaN(v) {
				cells = append(cells, "")
			} else {
				cells = append(cells, strconv.FormatFloat(v, 'f', 2, 64))
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return nil
}
