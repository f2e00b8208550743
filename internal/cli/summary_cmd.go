package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Count cards per policy and stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := app.now()
			summary, err := app.Cards.Summary(cmd.Context(), now)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatSummary(summary, now))
			return nil
		},
	}
}
