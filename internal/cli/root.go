// Package cli implements the notea command line: card management, deck
// import and review sessions against the local store.
package cli

import (
	"time"

	"github.com/noteaapp/notea/internal/importer"
	"github.com/noteaapp/notea/internal/service"
	"github.com/noteaapp/notea/internal/service/card_review"
	"github.com/spf13/cobra"
)

// App holds references to all services used by CLI commands.
type App struct {
	Cards    service.CardService
	Reviews  card_review.CardReviewService
	Importer *importer.Importer

	// Now defaults to time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now().UTC()
	}
	return a.Now().UTC()
}

// NewRootCmd creates the top-level "notea" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "notea",
		Short:         "Spaced-repetition flashcards with Leitner boxes and SM-2 intervals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAddCmd(app),
		newShowCmd(app),
		newDeleteCmd(app),
		newHistoryCmd(app),
		newImportCmd(app),
		newNextCmd(app),
		newAnswerCmd(app),
		newReviewCmd(app),
		newSummaryCmd(app),
	)

	return root
}
