package cli

import (
	"fmt"

	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var policy domain.Policy

	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Import a YAML deck; every card is created or none is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := importer.Load(args[0])
			if err != nil {
				return err
			}
			if policy != 0 && deck.Policy == "" {
				deck.Policy = policy.String()
			}

			cards, err := app.Importer.Import(cmd.Context(), deck, app.now())
			if err != nil {
				return err
			}

			name := deck.Name
			if name == "" {
				name = args[0]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d card(s) from %s\n", len(cards), name)
			return nil
		},
	}
	cmd.Flags().Var(policyValue{&policy}, "policy", "policy for cards when the deck names none")
	return cmd
}
