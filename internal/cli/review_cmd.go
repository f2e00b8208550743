package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/noteaapp/notea/internal/domain"
	"github.com/noteaapp/notea/internal/service/card_review"
	"github.com/spf13/cobra"
)

func newNextCmd(app *App) *cobra.Command {
	var filter card_review.Filter

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next due card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFilter(filter); err != nil {
				return err
			}
			card, err := app.Reviews.NextDue(cmd.Context(), app.now(), filter)
			if errors.Is(err, card_review.ErrNoCardsDue) {
				fmt.Fprintln(cmd.OutOrStdout(), styleDim.Render("Nothing due."))
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatCard(*card))
			return nil
		},
	}
	addFilterFlags(cmd, &filter)
	return cmd
}

func newAnswerCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "answer CARD_ID OUTCOME",
		Short: "Record the outcome of reviewing a card",
		Long: "Record the outcome of reviewing a card. Box cards take correct or incorrect;\n" +
			"interval cards take forget, hard, medium or easy.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCardID(args[0])
			if err != nil {
				return err
			}
			outcome := domain.ReviewOutcome(strings.ToLower(args[1]))
			card, err := app.Reviews.SubmitAnswer(cmd.Context(), id,
				card_review.ReviewAnswer{Outcome: outcome}, app.now())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatRescheduled(*card, outcome))
			return nil
		},
	}
}

func newReviewCmd(app *App) *cobra.Command {
	var (
		filter card_review.Filter
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review due cards one after another",
		Long: "Review due cards one after another. Each card's front is shown first;\n" +
			"answer with an outcome name or its number. Enter q to stop.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFilter(filter); err != nil {
				return err
			}
			s := &reviewSession{
				app:    app,
				filter: filter,
				in:     bufio.NewScanner(cmd.InOrStdin()),
				out:    cmd.OutOrStdout(),
				reveal: isTerminal(cmd.InOrStdin()),
			}
			return s.run(cmd, limit)
		},
	}
	addFilterFlags(cmd, &filter)
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many cards (0 for no limit)")
	return cmd
}

// reviewSession is one interactive run of the review command.
type reviewSession struct {
	app    *App
	filter card_review.Filter
	in     *bufio.Scanner
	out    io.Writer
	// reveal waits for Enter before showing the back.
	reveal bool
}

var errQuit = errors.New("quit")

func (s *reviewSession) run(cmd *cobra.Command, limit int) error {
	reviewed := 0
	defer func() {
		fmt.Fprintf(s.out, "\n%s\n", styleHeader.Render(fmt.Sprintf("Reviewed %d card(s).", reviewed)))
	}()

	for limit <= 0 || reviewed < limit {
		card, err := s.app.Reviews.NextDue(cmd.Context(), s.app.now(), s.filter)
		if errors.Is(err, card_review.ErrNoCardsDue) {
			fmt.Fprintln(s.out, styleDim.Render("Nothing due."))
			return nil
		}
		if err != nil {
			return err
		}

		outcome, err := s.ask(*card)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}

		updated, err := s.app.Reviews.SubmitAnswer(cmd.Context(), card.ID,
			card_review.ReviewAnswer{Outcome: outcome}, s.app.now())
		if err != nil {
			return err
		}
		fmt.Fprint(s.out, formatRescheduled(*updated, outcome))
		reviewed++
	}
	return nil
}

// ask shows card and reads an outcome valid for its policy. It returns
// errQuit on q or end of input.
func (s *reviewSession) ask(card domain.Card) (domain.ReviewOutcome, error) {
	fmt.Fprintf(s.out, "\n%s %s\n", styleHeader.Render("Q:"), card.Front)
	if s.reveal {
		fmt.Fprint(s.out, styleDim.Render("(Enter to reveal)"))
		if _, err := s.readLine(); err != nil {
			return "", err
		}
	}
	fmt.Fprintf(s.out, "%s %s\n", styleHeader.Render("A:"), card.Back)

	outcomes := domain.OutcomesFor(card.Policy())
	choices := make([]string, len(outcomes))
	for i, o := range outcomes {
		choices[i] = fmt.Sprintf("%d) %s", i+1, o)
	}
	prompt := strings.Join(choices, "  ") + "  q) quit: "

	for {
		fmt.Fprint(s.out, prompt)
		line, err := s.readLine()
		if err != nil {
			return "", err
		}
		if outcome, ok := pickOutcome(outcomes, line); ok {
			return outcome, nil
		}
		fmt.Fprintln(s.out, styleBad.Render("Unknown answer "+strconv.Quote(line)))
	}
}

func (s *reviewSession) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	line := strings.TrimSpace(s.in.Text())
	if strings.EqualFold(line, "q") {
		return "", errQuit
	}
	return line, nil
}

// pickOutcome accepts an outcome name or its 1-based position.
func pickOutcome(outcomes []domain.ReviewOutcome, answer string) (domain.ReviewOutcome, bool) {
	if n, err := strconv.Atoi(answer); err == nil {
		if n >= 1 && n <= len(outcomes) {
			return outcomes[n-1], true
		}
		return "", false
	}
	for _, o := range outcomes {
		if strings.EqualFold(string(o), answer) {
			return o, true
		}
	}
	return "", false
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
