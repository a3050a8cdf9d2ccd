package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/chase3718/fretnotes/internal/config"
	"github.com/chase3718/fretnotes/internal/scale"
)

var (
	// Global flags
	configPath    string
	templatesPath string
	debug         bool
	formatOutput  string
)

// logger is the CLI logger. Safe to use before initLogger is called.
var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "fretnotes",
	Short: "Pitches, scales and chords on a fretboard",
	Long: `fretnotes - note, interval and scale arithmetic for fretted instruments.

Instructions for draw and listen are semicolon separated sections:
  e natural-minor          a scale or chord: root and template name
  6:e2 5:b2 4:e3           string:note pairs
  g3 b3 d4                 notes placed on every string that can play them
  g b d                    pitch classes placed in every octave

Configuration is read from the OS config directory:
  macOS:   ~/Library/Application Support/fretnotes/config.yaml
  Linux:   ~/.config/fretnotes/config.yaml
  Windows: %AppData%/fretnotes/config.yaml

Examples:
  fretnotes scale e natural-minor --intervals
  fretnotes draw "a minor-pentatonic; 5:c3"
  fretnotes listen --serial /dev/ttyACM0`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogger(debug)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is the OS config directory)")
	rootCmd.PersistentFlags().StringVar(&templatesPath, "templates", "", "extra scale/chord templates YAML file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging (adds source location)")
}

// initLogger configures the shared slog logger and calls slog.SetDefault so
// library packages log through the same handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

// loadConfig loads the config file and applies the global flags to it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Debug && !debug {
		initLogger(true)
	}
	if templatesPath != "" {
		abs, err := filepath.Abs(templatesPath)
		if err != nil {
			return nil, fmt.Errorf("templates path: %w", err)
		}
		cfg.Templates = abs
	}
	return cfg, nil
}

// loadRegistry returns the template registry selected by config and flags.
func loadRegistry() (*scale.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.Registry()
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&formatOutput, "output", "o", "text", "output format (text, yaml, json)")
}
