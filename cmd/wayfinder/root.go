package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"wayfinder/internal/config"
	"wayfinder/internal/logging"
	"wayfinder/internal/ui"
	"wayfinder/pkg/wayfinder"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var (
	cfgPath   string
	graphPath string
	logLevel  string
	jsonOut   bool
)

var rootCmd = &cobra.Command{
	Use:   "wayfinder",
	Short: "Shortest routes through a 3-D waypoint graph",
	Long: ui.Brand.Sprint("wayfinder") + ": route from a live position to a goal node\n" +
		ui.Subtle.Sprint("Projects onto the nearest edge, searches with A*, detours via water when asked"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("wayfinder {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVar(&graphPath, "graph", "", "Waypoint graph YAML file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		routeCmd(),
		projectCmd(),
		pathCmd(),
		waterCmd(),
		nearestCmd(),
		followCmd(),
		feedCmd(),
		historyCmd(),
		configCmd(),
	)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		ui.Bad.Fprintf(os.Stderr, "wayfinder: %v\n", err)
		return err
	}
	return nil
}

// loadConfig reads the config file and applies the global flag overrides
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if graphPath != "" {
		cfg.Graph.Path = graphPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// loadEngine builds an engine over the configured graph file
func loadEngine() (*wayfinder.Engine, *config.Config, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	engine := wayfinder.NewEngine(&wayfinder.Config{
		WaterPrefix:   cfg.Graph.WaterPrefix,
		ForceViaWater: cfg.Route.ForceViaWater,
		MarkerYOffset: cfg.Route.MarkerYOffset,
		Logger:        logger,
	})
	if err := engine.LoadGraph(cfg.Graph.Path); err != nil {
		return nil, nil, fmt.Errorf("loading graph: %w", err)
	}

	return engine, cfg, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(ui.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
