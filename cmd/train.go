package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/beanbyte/roastcast-cli/internal/dataset"
	"github.com/beanbyte/roastcast-cli/internal/pipeline"
)

var (
	trainTSV string
	trainOut string
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train and persist the four per-target pipelines",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := trainOut
		if !cmd.Flags().Changed("out") && cfg != nil {
			out = cfg.ModelsDir
		}
		return runTrain(os.Stdout, trainTSV, out)
	},
}

func init() {
	trainCmd.Flags().StringVar(&trainTSV, "tsv", "", "path to the roast log (tab-separated)")
	trainCmd.Flags().StringVar(&trainOut, "out", "models", "output directory for model artifacts")
	_ = trainCmd.MarkFlagRequired("tsv")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(w io.Writer, tsvPath, outDir string) error {
	table, err := dataset.Load(tsvPath)
	if err != nil {
		return err
	}
	store := pipeline.NewStore(outDir)
	usage := make(map[string]pipeline.RowUsage, len(pipeline.Targets))

	for _, tg := range pipeline.Targets {
		rows := table.CompleteRows(tg.RequiredColumns())
		profiles, X, y := pipeline.TrainingData(table, tg, rows)
		p, err := pipeline.New(tg.Name)
		if err != nil {
			return err
		}
		if err := p.Fit(profiles, X, y); err != nil {
			return err
		}
		if err := store.Save(p); err != nil {
			return err
		}
		usage[tg.Name] = pipeline.RowUsage{Used: len(rows), Total: table.Len()}
		fmt.Fprintf(w, "✓ %s: %d/%d rows used\n", tg.Name, len(rows), table.Len())
	}

	if err := store.WriteManifest(&pipeline.Manifest{
		RunID:     uuid.NewString(),
		TrainedAt: time.Now().UTC(),
		Source:    tsvPath,
		Rows:      usage,
	}); err != nil {
		return err
	}
	fmt.Fprintf(w, "✓ Training complete. Models written to %s\n", outDir)
	return nil
}
