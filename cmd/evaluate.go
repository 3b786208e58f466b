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
	evalTSV   string
	evalFolds int
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Cross-validate each target pipeline and report its error",
	RunE: func(cmd *cobra.Command, args []string) error {
		folds := evalFolds
		if !cmd.Flags().Changed("folds") && cfg != nil {
			folds = cfg.Folds
		}
		return runEvaluate(os.Stdout, evalTSV, folds)
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evalTSV, "tsv", "", "path to the roast log (tab-separated)")
	evaluateCmd.Flags().IntVar(&evalFolds, "folds", 5, "number of cross-validation folds")
	_ = evaluateCmd.MarkFlagRequired("tsv")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(w io.Writer, tsvPath string, folds int) error {
	table, err := dataset.Load(tsvPath)
	if err != nil {
		return err
	}
	for _, tg := range pipeline.Targets {
		rows := table.CompleteRows(tg.RequiredColumns())
		profiles, X, y := pipeline.TrainingData(table, tg, rows)
		res, err := pipeline.CrossValidate(tg, profiles, X, y, folds)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: %s %.3f ± %.3f (%d rows)\n", res.Target, res.Metric, res.Mean, res.Std, res.Rows)
	}
	return nil
}
