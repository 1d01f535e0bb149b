package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/auditledger-dev/auditledger/internal/buildinfo"
	"github.com/auditledger-dev/auditledger/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "auditledger",
		Short:   "Audit-grade bank statement pipeline",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newRunCommand(&verbose))
	rootCmd.AddCommand(newCleanCommand(&verbose))
	rootCmd.AddCommand(newClassifyCommand(&verbose))
	rootCmd.AddCommand(newDiagnoseCommand(&verbose))

	return rootCmd
}

// newLogger builds the console logger used by every subcommand.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// loadConfig reads the config file, falling back to defaults built from
// the flag values when no file exists at path.
func loadConfig(path, inputDir, outputDir, overrideFile string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default(inputDir, outputDir)
	}
	if inputDir != "" {
		cfg.Paths.InputDir = inputDir
	}
	if outputDir != "" {
		cfg.Paths.OutputDir = outputDir
	}
	if overrideFile != "" {
		cfg.Paths.OverrideFile = overrideFile
	}
	if cfg.Paths.InputDir == "" {
		return nil, fmt.Errorf("no input directory configured (use --input or %s)", path)
	}
	if cfg.Paths.OutputDir == "" {
		return nil, fmt.Errorf("no output directory configured (use --output or %s)", path)
	}
	return cfg, nil
}
