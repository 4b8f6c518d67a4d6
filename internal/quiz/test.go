// Package quiz runs a typed-answer test over a deck and builds the result the backend stores.
package quiz

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Kbnch7/quizlet/internal/api"
)

var (
	ErrNoCards     = errors.New("this deck has no cards to test")
	ErrNoCardShown = errors.New("no card is being shown")
	ErrTestClosed  = errors.New("the test is over")
)

// Answer is one graded card.
type Answer struct {
	Card              api.Card
	UserAnswer        string
	Correct           bool
	AnswerTimeSeconds int
}

// Test is safe for concurrent use.
type Test struct {
	cards []api.Card
	now   func() time.Time

	mu      sync.Mutex
	closed  bool
	index   int
	shown   bool
	shownAt time.Time
	answers []Answer
}

type Option func(*Test)

func WithClock(now func() time.Time) Option {
	return func(t *Test) {
		t.now = now
	}
}

func NewTest(cards []api.Card, opts ...Option) (*Test, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	t := &Test{
		cards: append([]api.Card(nil), cards...),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Shuffle reorders the cards that have not been asked yet.
func (t *Test) Shuffle() {
	t.mu.Lock()
	defer t.mu.Unlock()

	rest := t.cards[t.index:]
	rand.Shuffle(len(rest), func(i, j int) {
		rest[i], rest[j] = rest[j], rest[i]
	})
}

// Show returns the next card to ask and starts its timer. It returns false when every card was asked.
func (t *Test) Show() (api.Card, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.done() {
		return api.Card{}, false
	}
	if !t.shown {
		t.shown = true
		t.shownAt = t.now()
	}
	return t.cards[t.index], true
}

// Submit grades the answer to the shown card and moves on.
func (t *Test) Submit(userAnswer string) (Answer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return Answer{}, ErrTestClosed
	}
	if !t.shown || t.done() {
		return Answer{}, ErrNoCardShown
	}
	card := t.cards[t.index]
	elapsed := int(t.now().Sub(t.shownAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	answer := Answer{
		Card:              card,
		UserAnswer:        strings.TrimSpace(userAnswer),
		Correct:           IsCorrect(card.BackText, userAnswer),
		AnswerTimeSeconds: elapsed,
	}
	t.answers = append(t.answers, answer)
	t.index++
	t.shown = false
	return answer, nil
}

// Close ends the test; answers submitted afterwards are refused.
func (t *Test) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
}

func (t *Test) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done()
}

func (t *Test) done() bool {
	return t.index >= len(t.cards)
}

func (t *Test) Answers() []Answer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Answer(nil), t.answers...)
}

func (t *Test) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.cards) - t.index
}

func (t *Test) Total() int {
	return len(t.cards)
}

// Result builds the result of the answered cards; false when nothing was answered.
func (t *Test) Result(userID int) (api.TestResultCreate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.answers) == 0 {
		return api.TestResultCreate{}, false
	}

	result := api.TestResultCreate{
		UserID:      userID,
		CardResults: make([]api.CardResultCreate, 0, len(t.answers)),
	}
	correct := 0
	for _, answer := range t.answers {
		userAnswer := answer.UserAnswer
		result.CardResults = append(result.CardResults, api.CardResultCreate{
			CardID:            answer.Card.ID,
			Correct:           answer.Correct,
			AnswerTimeSeconds: answer.AnswerTimeSeconds,
			UserAnswer:        &userAnswer,
		})
		result.TotalTimeSeconds += answer.AnswerTimeSeconds
		if answer.Correct {
			correct++
		}
	}
	result.CorrectRate = CorrectRate(correct, len(t.answers))
	return result, true
}

// CorrectRate is correct/answered, 0 when nothing was answered.
func CorrectRate(correct, answered int) float64 {
	if answered == 0 {
		return 0
	}
	return float64(correct) / float64(answered)
}

// Normalize trims, lowercases and collapses inner whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func IsCorrect(expected, given string) bool {
	return Normalize(given) != "" && Normalize(expected) == Normalize(given)
}
