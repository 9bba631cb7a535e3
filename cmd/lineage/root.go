package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/golineage/lineage"
	"github.com/golineage/lineage/loader"
	"github.com/golineage/lineage/samples"
	"github.com/golineage/lineage/service"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "lineage",
	Short: "Resolve and walk entity derivation lines",
	Long: `lineage maintains hierarchies of derived entities and answers queries
about them: which ancestors an entity derives from, in which order, and
what happens when each one is visited.

Definitions are YAML documents declaring entities, their parent links,
and an occurrence sequence. Without --definitions the bundled demo
hierarchy is used.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = fmt.Sprintf("%s (commit %s)", version, commit)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./lineage.yaml or ~/.config/lineage/lineage.yaml)")
	rootCmd.PersistentFlags().StringP("definitions", "f", "",
		"definition YAML file or directory (default: bundled demo hierarchy)")
	rootCmd.PersistentFlags().StringP("format", "o", "text",
		"output format: text, json")
	rootCmd.PersistentFlags().String("log-level", "warn",
		"log level: debug, info, warn, error, or silent")
	rootCmd.PersistentFlags().Int("cache-size", 0,
		"resolution cache entries (0 uses the library default)")
	rootCmd.PersistentFlags().Int("workers", 0,
		"worker count for batch resolution (0 uses one per CPU)")
	rootCmd.PersistentFlags().Bool("checks", true,
		"run narrowing checks while walking")

	_ = viper.BindPFlag("definitions", rootCmd.PersistentFlags().Lookup("definitions"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("cache-size", rootCmd.PersistentFlags().Lookup("cache-size"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("checks", rootCmd.PersistentFlags().Lookup("checks"))
}

func initConfig() {
	viper.SetDefault("format", "text")
	viper.SetDefault("log-level", "warn")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join(home, ".config", "lineage"))
		viper.SetConfigName("lineage")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("LINEAGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Running without a config file is fine
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: reading config: %v\n", err)
		}
	}
}

// loadDefinition reads the configured definition source, falling back to
// the bundled demo hierarchy.
func loadDefinition() (*loader.Definition, error) {
	path := viper.GetString("definitions")
	if path == "" {
		return samples.Load(samples.Demo)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("definitions %s: %w", path, err)
	}
	if info.IsDir() {
		return loader.LoadDir(path)
	}
	return loader.LoadFile(path)
}

// buildService assembles a service from the configured definitions.
func buildService() (*service.Service, *zap.Logger, error) {
	logger, err := newLogger(viper.GetString("log-level"))
	if err != nil {
		return nil, nil, err
	}

	def, err := loadDefinition()
	if err != nil {
		return nil, nil, err
	}

	opts := []lineage.Option{
		lineage.WithLogger(logger),
		lineage.WithNarrowingChecks(viper.GetBool("checks")),
	}
	if size := viper.GetInt("cache-size"); size > 0 {
		opts = append(opts, lineage.WithCache(size))
	}
	if workers := viper.GetInt("workers"); workers > 0 {
		opts = append(opts, lineage.WithWorkerCount(workers))
	}

	svc, err := service.NewFromDefinition(def, opts...)
	if err != nil {
		return nil, nil, err
	}
	return svc, logger, nil
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "" || level == "silent" {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func outputFormat() string {
	return viper.GetString("format")
}
