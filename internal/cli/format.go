package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/noteaapp/notea/internal/domain"
)

var (
	styleHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
	styleGood   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8ec07c"))
	styleBad    = lipgloss.NewStyle().Foreground(lipgloss.Color("#fb4934"))
)

const dateLayout = "2006-01-02 15:04"

// formatSchedule describes where the card stands, e.g. "box weekly" or
// "interval 6d ease 2.34 reps 2".
func formatSchedule(card domain.Card) string {
	switch s := card.State.(type) {
	case domain.BoxState:
		return fmt.Sprintf("box %s (%d correct, %d incorrect)", s.Stage, s.CorrectCount, s.IncorrectCount)
	case domain.IntervalState:
		return fmt.Sprintf("interval %dd ease %.2f reps %d", s.Interval, s.EaseFactor, s.Repetitions)
	default:
		return "unscheduled"
	}
}

func formatCard(card domain.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", styleHeader.Render("Card"), card.ID)
	fmt.Fprintf(&b, "  Front:    %s\n", card.Front)
	fmt.Fprintf(&b, "  Back:     %s\n", card.Back)
	fmt.Fprintf(&b, "  Schedule: %s\n", formatSchedule(card))
	fmt.Fprintf(&b, "  Due:      %s\n", card.NextDueAt.Local().Format(dateLayout))
	return b.String()
}

func formatRescheduled(card domain.Card, outcome domain.ReviewOutcome) string {
	style := styleGood
	switch outcome {
	case domain.ReviewOutcomeIncorrect, domain.ReviewOutcomeForget:
		style = styleBad
	}
	return fmt.Sprintf("%s → %s, next review %s\n",
		style.Render(string(outcome)), formatSchedule(card), card.NextDueAt.Local().Format(dateLayout))
}

// renderTable aligns rows under headers.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) && lipgloss.Width(row[i]) > widths[i] {
				widths[i] = lipgloss.Width(row[i])
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style lipgloss.Style) {
		for i, w := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			b.WriteString(style.Render(cell))
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", w-lipgloss.Width(cell)+2))
			}
		}
		b.WriteString("\n")
	}

	writeRow(headers, styleHeader)
	for i, w := range widths {
		b.WriteString(styleDim.Render(strings.Repeat("─", w)))
		if i < len(widths)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row, lipgloss.NewStyle())
	}
	return b.String()
}

func formatSummary(s *domain.DeckSummary, now time.Time) string {
	rows := make([][]string, 0, len(domain.Stages())+2)
	for _, stage := range domain.Stages() {
		rows = append(rows, []string{
			"box " + stage.String(),
			fmt.Sprint(s.ByStage[stage]),
			fmt.Sprint(s.DueByStage[stage]),
		})
	}
	intervalDue := s.Due
	for _, n := range s.DueByStage {
		intervalDue -= n
	}
	rows = append(rows,
		[]string{"interval", fmt.Sprint(s.ByPolicy[domain.PolicyInterval]), fmt.Sprint(intervalDue)},
		[]string{"total", fmt.Sprint(s.Total), fmt.Sprint(s.Due)},
	)

	return fmt.Sprintf("Deck at %s\n\n%s", now.Local().Format(dateLayout),
		renderTable([]string{"GROUP", "CARDS", "DUE"}, rows))
}
