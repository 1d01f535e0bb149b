package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/auditledger-dev/auditledger/internal/config"
)

// ConfigFileName is the default config file written by init and read by
// every pipeline subcommand.
const ConfigFileName = "auditledger.yaml"

func newInitCommand() *cobra.Command {
	var inputDir string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new pipeline workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, inputDir, outputDir)
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "statements", "statement CSV directory")
	cmd.Flags().StringVar(&outputDir, "output", "output", "report output directory")

	return cmd
}

func runInit(dir, inputDir, outputDir string) error {
	for _, d := range []string{inputDir, outputDir} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfgPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	cfg := config.Default(inputDir, outputDir)
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Initialized pipeline workspace at %s\n", dir)
	return nil
}
