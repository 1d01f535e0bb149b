package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/auditledger-dev/auditledger/internal/classify"
	"github.com/auditledger-dev/auditledger/internal/config"
)

// classify probes the rule table with a single description and amount.
// Useful when tuning token lists or checking which rule claims a row.
func newClassifyCommand(verbose *bool) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "classify <description> <amount>",
		Short: "Show how a single transaction would be classified",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", args[1], err)
			}

			tokens := classify.DefaultTokens()
			if cfg, err := config.Load(configPath); err == nil {
				tokens = cfg.Classifier
			}

			engine := classify.NewEngine(classify.NewConfig(tokens))
			res := engine.Classify(args[0], amount)

			fmt.Printf("Rule:        %s\n", res.RuleID)
			fmt.Printf("Explanation: %s\n", res.RuleExplanation)
			fmt.Printf("Cashflow:    %s\n", res.CashflowStatement)
			fmt.Printf("Economic:    %s / %s\n", res.EconomicL1, res.EconomicL2)
			fmt.Printf("Managerial:  %s / %s\n", res.ManagerialL1, res.ManagerialL2)
			fmt.Printf("Bank rail:   %s\n", res.BankRail)
			fmt.Printf("Baseline:    %t\n", res.BaselineEligible)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", ConfigFileName, "config file")
	return cmd
}
