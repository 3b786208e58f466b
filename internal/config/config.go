package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	ModelsDir string  `mapstructure:"models_dir" yaml:"models_dir"`
	Folds     int     `mapstructure:"folds" yaml:"folds"`
	LevelMin  float64 `mapstructure:"level_min" yaml:"level_min"`
	LevelMax  float64 `mapstructure:"level_max" yaml:"level_max"`
	LevelStep float64 `mapstructure:"level_step" yaml:"level_step"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.roastcast/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".roastcast")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("ROASTCAST")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("models_dir", "models")
	v.SetDefault("folds", 5)
	v.SetDefault("level_min", 0.0)
	v.SetDefault("level_max", 6.0)
	v.SetDefault("level_step", 0.1)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".roastcast"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
