package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/beanbyte/roastcast-cli/internal/config"
)

var (
	// Global flags
	cfgFile string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "roastcast",
	Short: "roastcast: predict roast outcomes from green-bean properties",
	Long: `roastcast trains per-target regression pipelines on a TSV roast log and
applies them to predict weight loss, color, espresso dose, and grinder
setting. It can also invert the color model to recommend a roast level
for a target color.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.roastcast/config.yaml)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: defaults still let every command run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = &cfgpkg.Global{ModelsDir: "models", Folds: 5, LevelMin: 0, LevelMax: 6, LevelStep: 0.1}
		return
	}
	cfg = c
}
