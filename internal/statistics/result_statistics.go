package statistics

import (
	"sort"

	"github.com/Kbnch7/quizlet/internal/api"
)

// AggregateStatistics summarises every test attempt of a deck
type AggregateStatistics struct {
	Attempts                int
	BestCorrectRate         float64
	AverageCorrectRate      float64
	AverageTotalTimeSeconds float64
	CardsAnswered           int
}

// CardStatistics holds how one card fared across attempts
type CardStatistics struct {
	CardID                   int
	Attempts                 int
	Correct                  int
	AverageAnswerTimeSeconds float64
}

func (c CardStatistics) CorrectRate() float64 {
	if c.Attempts == 0 {
		return 0
	}
	return float64(c.Correct) / float64(c.Attempts)
}

// StatisticsResult holds both the aggregate and the per-card statistics
type StatisticsResult struct {
	Aggregate AggregateStatistics
	// Cards are ordered hardest first
	Cards []CardStatistics
}

// cardData tracks sums per card
type cardData struct {
	attempts  int
	correct   int
	totalTime int
}

// CalculateStatistics aggregates test results of one deck.
// The user filter is applied when userID is not 0.
func CalculateStatistics(results []api.TestResult, userID int) StatisticsResult {
	cards := make(map[int]*cardData)
	var aggregate AggregateStatistics
	var sumCorrectRate, sumTotalTime float64

	for _, result := range results {
		if userID != 0 && result.UserID != userID {
			continue
		}

		aggregate.Attempts++
		sumCorrectRate += result.CorrectRate
		sumTotalTime += float64(result.TotalTimeSeconds)
		if result.CorrectRate > aggregate.BestCorrectRate {
			aggregate.BestCorrectRate = result.CorrectRate
		}

		for _, cardResult := range result.CardResults {
			processCardResult(cardResult, cards)
			aggregate.CardsAnswered++
		}
	}

	if aggregate.Attempts > 0 {
		aggregate.AverageCorrectRate = sumCorrectRate / float64(aggregate.Attempts)
		aggregate.AverageTotalTimeSeconds = sumTotalTime / float64(aggregate.Attempts)
	}

	return StatisticsResult{
		Aggregate: aggregate,
		Cards:     buildCards(cards),
	}
}

func processCardResult(cardResult api.CardResult, cards map[int]*cardData) {
	data, ok := cards[cardResult.CardID]
	if !ok {
		data = &cardData{}
		cards[cardResult.CardID] = data
	}
	data.attempts++
	data.totalTime += cardResult.AnswerTimeSeconds
	if cardResult.Correct {
		data.correct++
	}
}

func buildCards(cards map[int]*cardData) []CardStatistics {
	stats := make([]CardStatistics, 0, len(cards))
	for cardID, data := range cards {
		stats = append(stats, CardStatistics{
			CardID:                   cardID,
			Attempts:                 data.attempts,
			Correct:                  data.correct,
			AverageAnswerTimeSeconds: float64(data.totalTime) / float64(data.attempts),
		})
	}

	// Lowest correct rate first, then the most attempted, then by id for a stable order
	sort.Slice(stats, func(i, j int) bool {
		ri, rj := stats[i].CorrectRate(), stats[j].CorrectRate()
		if ri != rj {
			return ri < rj
		}
		if stats[i].Attempts != stats[j].Attempts {
			return stats[i].Attempts > stats[j].Attempts
		}
		return stats[i].CardID < stats[j].CardID
	})
	return stats
}
