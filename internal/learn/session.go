// Package learn drives a server-tracked learn session for one deck.
// The backend decides which card comes next and when the session is complete;
// Session only sequences the calls and keeps the last state it was told.
package learn

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Kbnch7/quizlet/internal/api"
)

var (
	ErrNotStarted      = errors.New("learn session has not been started")
	ErrAlreadyStarted  = errors.New("learn session has already been started")
	ErrSessionFinished = errors.New("learn session has been finished")
	ErrSessionComplete = errors.New("all cards have been learned")
	ErrNoCurrentCard   = errors.New("no card is being shown")
	ErrAlreadyAnswered = errors.New("the current card has already been answered")
	ErrUnknownCard     = errors.New("the card is not part of the deck")
	// ErrStaleResponse means a response arrived for a state that has moved on; it was dropped.
	ErrStaleResponse = errors.New("stale learn session response")
)

//go:generate mockgen -source=session.go -destination=../mocks/learn/mock_api.go -package=mock_learn API

type API interface {
	StartSession(ctx context.Context, deckID int) (api.LearnSessionCreateResponse, error)
	NextCard(ctx context.Context, sessionID int) (api.LearnBatchResponse, error)
	SubmitAnswer(ctx context.Context, sessionID, cardID int, answer api.LearnAnswer) (api.LearnProgressResponse, error)
	Progress(ctx context.Context, sessionID int) (api.LearnProgressResponse, error)
	FinishSession(ctx context.Context, sessionID int) (api.LearnProgressResponse, error)
}

type Rating int

const (
	DontKnow Rating = iota
	Review
	Know
)

// Correct is what the backend is told; only Know counts as a correct answer.
func (r Rating) Correct() bool {
	return r == Know
}

func (r Rating) String() string {
	switch r {
	case DontKnow:
		return "don't know"
	case Review:
		return "review"
	case Know:
		return "know"
	}
	return fmt.Sprintf("Rating(%d)", int(r))
}

type Progress struct {
	LearnedCards int
	TotalCards   int
	// Ratio is the backend's progress in [0, 1].
	Ratio float64
}

func (p Progress) Percent() int {
	return int(math.Round(p.Ratio * 100))
}

func (p Progress) String() string {
	return fmt.Sprintf("%d / %d (%d%%)", p.LearnedCards, p.TotalCards, p.Percent())
}

// Outcome is the result of answering one card.
type Outcome struct {
	Card              api.Card
	Rating            Rating
	AnswerTimeSeconds int
	Progress          Progress
	Completed         bool
}

// State is a copy of what the session currently shows.
type State struct {
	SessionID int
	Card      *api.Card
	Answered  bool
	Progress  Progress
	Completed bool
	Finished  bool
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

type Session struct {
	api  API
	deck api.DeckDetailed
	now  func() time.Time

	mu        sync.Mutex
	started   bool
	sessionID int
	current   *api.Card
	shownAt   time.Time
	answered  bool
	progress  Progress
	completed bool
	finished  bool
	// finishing is closed when the finish request in flight returns.
	finishing chan struct{}
	// progressSeq changes whenever progress is stored, so an older refresh cannot overwrite it.
	progressSeq uint64
	// generation changes whenever the shown card or the session lifecycle changes,
	// so responses issued against an older generation can be recognised.
	generation uint64
}

func NewSession(client API, deck api.DeckDetailed, opts ...Option) *Session {
	s := &Session{
		api:  client,
		deck: deck,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) Deck() api.DeckDetailed {
	return s.deck
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{
		SessionID: s.sessionID,
		Answered:  s.answered,
		Progress:  s.progress,
		Completed: s.completed,
		Finished:  s.finished,
	}
	if s.current != nil {
		card := *s.current
		state.Card = &card
	}
	return state
}

func (s *Session) Start(ctx context.Context) (Progress, error) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return Progress{}, ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	created, err := s.api.StartSession(ctx, s.deck.ID)
	if err != nil {
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return Progress{}, fmt.Errorf("api.StartSession(%d) > %w", s.deck.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionID = created.Session.ID
	s.setProgress(Progress{
		LearnedCards: created.Session.LearnedCards,
		TotalCards:   created.Session.TotalCards,
		Ratio:        created.Progress,
	})
	s.generation++
	return s.progress, nil
}

// Next asks the backend for the next card and shows it.
// ErrSessionComplete is returned when the backend has no card left.
func (s *Session) Next(ctx context.Context) (api.Card, error) {
	s.mu.Lock()
	if err := s.checkActive(); err != nil {
		s.mu.Unlock()
		return api.Card{}, err
	}
	generation := s.generation
	sessionID := s.sessionID
	s.mu.Unlock()

	next, err := s.api.NextCard(ctx, sessionID)
	if err != nil {
		return api.Card{}, fmt.Errorf("api.NextCard(%d) > %w", sessionID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished || generation != s.generation || next.SessionID != sessionID {
		return api.Card{}, ErrStaleResponse
	}

	s.setProgress(Progress{
		LearnedCards: next.LearnedCards,
		TotalCards:   next.TotalCards,
		Ratio:        next.Progress,
	})
	if next.CardID == nil {
		s.completed = true
		s.current = nil
		s.generation++
		return api.Card{}, ErrSessionComplete
	}

	card, ok := s.deck.CardByID(*next.CardID)
	if !ok {
		return api.Card{}, fmt.Errorf("card %d in deck %d: %w", *next.CardID, s.deck.ID, ErrUnknownCard)
	}
	s.current = &card
	s.shownAt = s.now()
	s.answered = false
	s.generation++
	return card, nil
}

// Answer reports the rating of the shown card. A card can only be answered once;
// the guard is taken before the request so a second answer is refused while the first is in flight.
// When the backend reports completion the session is finished as well.
func (s *Session) Answer(ctx context.Context, rating Rating) (Outcome, error) {
	s.mu.Lock()
	if err := s.checkActive(); err != nil {
		s.mu.Unlock()
		return Outcome{}, err
	}
	if s.current == nil {
		s.mu.Unlock()
		return Outcome{}, ErrNoCurrentCard
	}
	if s.answered {
		s.mu.Unlock()
		return Outcome{}, ErrAlreadyAnswered
	}
	elapsed := int(s.now().Sub(s.shownAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}
	s.answered = true
	card := *s.current
	generation := s.generation
	sessionID := s.sessionID
	s.mu.Unlock()

	answer := api.LearnAnswer{
		Correct:           rating.Correct(),
		AnswerTimeSeconds: elapsed,
	}
	progress, err := s.api.SubmitAnswer(ctx, sessionID, card.ID, answer)
	if err != nil {
		s.mu.Lock()
		if generation == s.generation && !s.finished {
			s.answered = false
		}
		s.mu.Unlock()
		return Outcome{}, fmt.Errorf("api.SubmitAnswer(%d, %d) > %w", sessionID, card.ID, err)
	}

	s.mu.Lock()
	if s.finished || generation != s.generation || progress.SessionID != sessionID {
		s.mu.Unlock()
		return Outcome{}, ErrStaleResponse
	}
	s.setProgress(Progress{
		LearnedCards: progress.LearnedCards,
		TotalCards:   progress.TotalCards,
		Ratio:        progress.Progress,
	})
	outcome := Outcome{
		Card:              card,
		Rating:            rating,
		AnswerTimeSeconds: elapsed,
		Progress:          s.progress,
		Completed:         progress.IsCompleted,
	}
	if progress.IsCompleted {
		s.completed = true
		s.current = nil
		s.generation++
	}
	s.mu.Unlock()

	if outcome.Completed {
		finished, err := s.Finish(ctx)
		if err != nil {
			return outcome, err
		}
		outcome.Progress = finished
	}
	return outcome, nil
}

// Progress refreshes the progress from the backend.
func (s *Session) Progress(ctx context.Context) (Progress, error) {
	s.mu.Lock()
	if !s.started || s.sessionID == 0 {
		s.mu.Unlock()
		return Progress{}, ErrNotStarted
	}
	if s.finished || s.finishing != nil {
		progress := s.progress
		s.mu.Unlock()
		return progress, nil
	}
	generation := s.generation
	seq := s.progressSeq
	sessionID := s.sessionID
	s.mu.Unlock()

	progress, err := s.api.Progress(ctx, sessionID)
	if err != nil {
		return Progress{}, fmt.Errorf("api.Progress(%d) > %w", sessionID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished || generation != s.generation || seq != s.progressSeq || progress.SessionID != sessionID {
		return s.progress, ErrStaleResponse
	}
	s.setProgress(Progress{
		LearnedCards: progress.LearnedCards,
		TotalCards:   progress.TotalCards,
		Ratio:        progress.Progress,
	})
	return s.progress, nil
}

// Finish ends the session on the backend. Responses still in flight are dropped afterwards.
// A call made while another finish is in flight waits for it and retries if it failed.
func (s *Session) Finish(ctx context.Context) (Progress, error) {
	s.mu.Lock()
	for s.finishing != nil {
		finishing := s.finishing
		s.mu.Unlock()
		select {
		case <-finishing:
		case <-ctx.Done():
			return Progress{}, ctx.Err()
		}
		s.mu.Lock()
	}
	if !s.started || s.sessionID == 0 {
		s.mu.Unlock()
		return Progress{}, ErrNotStarted
	}
	if s.finished {
		s.mu.Unlock()
		return Progress{}, ErrSessionFinished
	}
	finishing := make(chan struct{})
	s.finishing = finishing
	s.current = nil
	s.generation++
	sessionID := s.sessionID
	s.mu.Unlock()

	progress, err := s.api.FinishSession(ctx, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishing = nil
	close(finishing)
	if err != nil {
		return Progress{}, fmt.Errorf("api.FinishSession(%d) > %w", sessionID, err)
	}
	s.finished = true
	if progress.SessionID == sessionID {
		s.setProgress(Progress{
			LearnedCards: progress.LearnedCards,
			TotalCards:   progress.TotalCards,
			Ratio:        progress.Progress,
		})
		s.completed = s.completed || progress.IsCompleted
	}
	return s.progress, nil
}

// Exit leaves learn mode, finishing the session if it is still open. Calling it again is a no-op.
func (s *Session) Exit(ctx context.Context) error {
	s.mu.Lock()
	open := s.started && s.sessionID != 0 && !s.finished
	s.mu.Unlock()
	if !open {
		return nil
	}

	if _, err := s.Finish(ctx); err != nil && !errors.Is(err, ErrSessionFinished) {
		return err
	}
	return nil
}

func (s *Session) checkActive() error {
	if !s.started || s.sessionID == 0 {
		return ErrNotStarted
	}
	if s.finished || s.finishing != nil {
		return ErrSessionFinished
	}
	if s.completed {
		return ErrSessionComplete
	}
	return nil
}

func (s *Session) setProgress(progress Progress) {
	s.progress = progress
	s.progressSeq++
}
