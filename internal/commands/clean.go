package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/auditledger-dev/auditledger/internal/identity"
	"github.com/auditledger-dev/auditledger/internal/statement"
)

func newCleanCommand(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <statement.csv>",
		Short: "Normalize a single statement and print the cleaned rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*verbose)

			txns, err := statement.Clean(args[0])
			if err != nil {
				return err
			}
			if err := identity.Assign(txns); err != nil {
				return err
			}
			log.Debug().Str("file", args[0]).Int("transactions", len(txns)).Msg("cleaned statement")

			return statement.WriteTransactions(os.Stdout, txns)
		},
	}
	return cmd
}
