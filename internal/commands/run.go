package commands

import (
	"github.com/spf13/cobra"

	"github.com/auditledger-dev/auditledger/internal/pipeline"
)

func newRunCommand(verbose *bool) *cobra.Command {
	var configPath string
	var inputDir string
	var outputDir string
	var overrideFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline: clean, identify, classify, merge overrides, report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, inputDir, outputDir, overrideFile)
			if err != nil {
				return err
			}
			return pipeline.Run(cfg, newLogger(*verbose))
		},
	}

	cmd.Flags().StringVar(&configPath, "config", ConfigFileName, "config file")
	cmd.Flags().StringVar(&inputDir, "input", "", "statement CSV directory (overrides config)")
	cmd.Flags().StringVar(&outputDir, "output", "", "report output directory (overrides config)")
	cmd.Flags().StringVar(&overrideFile, "overrides", "", "analyst override workbook (overrides config)")

	return cmd
}
