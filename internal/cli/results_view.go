package cli

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/statistics"
	"github.com/fatih/color"
)

// hardestCardsLimit bounds the per-card table of the results view
const hardestCardsLimit = 10

// WriteResults prints the test results of a deck followed by their statistics.
// Only the results of userID are counted when it is not 0.
func WriteResults(output io.Writer, deck api.DeckDetailed, results []api.TestResult, userID int) error {
	bold := color.New(color.Bold)
	if _, err := bold.Fprintf(output, "Results of %s\n", deck.Title); err != nil {
		return fmt.Errorf("bold.Fprintf() > %w", err)
	}
	if len(results) == 0 {
		_, err := fmt.Fprintln(output, "No results yet. Take a test with "+fmt.Sprintf("ruzlet test %d", deck.ID))
		return err
	}

	writer := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(writer, "ID\tUSER\tCORRECT\tTIME\tCARDS")
	for _, result := range results {
		if userID != 0 && result.UserID != userID {
			continue
		}
		_, _ = fmt.Fprintf(writer, "%d\t%d\t%s\t%ds\t%d\n",
			result.ID,
			result.UserID,
			percent(result.CorrectRate),
			result.TotalTimeSeconds,
			len(result.CardResults),
		)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("writer.Flush() > %w", err)
	}

	stats := statistics.CalculateStatistics(results, userID)
	aggregate := stats.Aggregate
	_, _ = fmt.Fprintln(output)
	_, _ = bold.Fprintln(output, "Statistics")
	_, _ = fmt.Fprintf(output, "Attempts: %d\n", aggregate.Attempts)
	_, _ = fmt.Fprintf(output, "Best correct rate: %s\n", percent(aggregate.BestCorrectRate))
	_, _ = fmt.Fprintf(output, "Average correct rate: %s\n", percent(aggregate.AverageCorrectRate))
	_, _ = fmt.Fprintf(output, "Average total time: %.1fs\n", aggregate.AverageTotalTimeSeconds)

	if len(stats.Cards) == 0 {
		return nil
	}
	_, _ = fmt.Fprintln(output)
	_, _ = bold.Fprintln(output, "Hardest cards")
	writer = tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(writer, "CARD\tFRONT\tCORRECT\tATTEMPTS\tAVG TIME")
	for i, card := range stats.Cards {
		if i == hardestCardsLimit {
			break
		}
		front := "(deleted)"
		if deckCard, ok := deck.CardByID(card.CardID); ok {
			front = deckCard.FrontText
		}
		_, _ = fmt.Fprintf(writer, "%d\t%s\t%s\t%d\t%.1fs\n",
			card.CardID,
			front,
			percent(card.CorrectRate()),
			card.Attempts,
			card.AverageAnswerTimeSeconds,
		)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("writer.Flush() > %w", err)
	}
	return nil
}

func percent(rate float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(rate*100)))
}
