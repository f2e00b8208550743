package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/service"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	policy := domain.PolicyBox

	cmd := &cobra.Command{
		Use:   "add FRONT BACK",
		Short: "Add a card, due immediately",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			card, err := app.Cards.CreateCard(cmd.Context(), service.NewCardRequest{
				Front:  args[0],
				Back:   args[1],
				Policy: policy,
			}, app.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s card %s\n", card.Policy(), card.ID)
			return nil
		},
	}
	cmd.Flags().Var(policyValue{&policy}, "policy", "scheduling policy")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show CARD_ID",
		Short: "Show a card and its schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			card, err := app.Cards.GetCard(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatCard(*card))
			return nil
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete CARD_ID",
		Short: "Delete a card and its review history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			if err := app.Cards.DeleteCard(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %s\n", id)
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history CARD_ID",
		Short: "List a card's reviews, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			reviews, err := app.Cards.ListReviews(cmd.Context(), id, limit)
			if err != nil {
				return err
			}
			if len(reviews) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render("No reviews yet."))
				return nil
			}

			rows := make([][]string, 0, len(reviews))
			for _, r := range reviews {
				stage := "-"
				if r.Policy == domain.PolicyBox {
					stage = r.Stage.String()
				}
				rows = append(rows, []string{
					r.ReviewedAt.Local().Format(dateLayout),
					string(r.Outcome),
					stage,
					r.NextDueAt.Local().Format(dateLayout),
				})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"REVIEWED", "OUTCOME", "STAGE", "NEXT DUE"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of reviews (0 for all)")
	return cmd
}

func parseCardID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("card_id", "must be a UUID", domain.ErrInvalidID)
	}
	return id, nil
}
