package learn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kbnch7/quizlet/internal/api"
	mock_learn "github.com/Kbnch7/quizlet/internal/mocks/learn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testDeckID    = 3
	testSessionID = 9
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testDeck() api.DeckDetailed {
	return api.DeckDetailed{
		Deck: api.Deck{ID: testDeckID, Title: "Animals", CardsAmount: 2},
		Cards: []api.Card{
			{ID: 11, DeckID: testDeckID, FrontText: "Hund", BackText: "dog"},
			{ID: 12, DeckID: testDeckID, FrontText: "Katze", BackText: "cat"},
		},
	}
}

func intPtr(v int) *int {
	return &v
}

func newStartedSession(t *testing.T) (*Session, *mock_learn.MockAPI, *fakeClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	client := mock_learn.NewMockAPI(ctrl)
	clock := &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}

	client.EXPECT().StartSession(gomock.Any(), testDeckID).Return(api.LearnSessionCreateResponse{
		Session: api.LearnSession{ID: testSessionID, DeckID: testDeckID, Status: "active", TotalCards: 2},
	}, nil)

	session := NewSession(client, testDeck(), WithClock(clock.Now))
	progress, err := session.Start(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Progress{TotalCards: 2}, progress)
	return session, client, clock
}

func nextCard(cardID int, learned int) api.LearnBatchResponse {
	return api.LearnBatchResponse{
		SessionID:    testSessionID,
		CardID:       intPtr(cardID),
		LearnedCards: learned,
		TotalCards:   2,
		Progress:     float64(learned) / 2,
	}
}

func TestSession_LearnWholeDeck(t *testing.T) {
	ctx := context.Background()
	session, client, clock := newStartedSession(t)

	gomock.InOrder(
		client.EXPECT().NextCard(gomock.Any(), testSessionID).Return(nextCard(11, 0), nil),
		client.EXPECT().SubmitAnswer(gomock.Any(), testSessionID, 11, api.LearnAnswer{Correct: true, AnswerTimeSeconds: 3}).
			Return(api.LearnProgressResponse{SessionID: testSessionID, LearnedCards: 1, TotalCards: 2, Progress: 0.5}, nil),
		client.EXPECT().NextCard(gomock.Any(), testSessionID).Return(nextCard(12, 1), nil),
		client.EXPECT().SubmitAnswer(gomock.Any(), testSessionID, 12, api.LearnAnswer{Correct: false, AnswerTimeSeconds: 1}).
			Return(api.LearnProgressResponse{SessionID: testSessionID, LearnedCards: 2, TotalCards: 2, Progress: 1, IsCompleted: true}, nil),
		client.EXPECT().FinishSession(gomock.Any(), testSessionID).
			Return(api.LearnProgressResponse{SessionID: testSessionID, LearnedCards: 2, TotalCards: 2, Progress: 1, IsCompleted: true}, nil),
	)

	card, err := session.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hund", card.FrontText)

	clock.Advance(3700 * time.Millisecond)
	outcome, err := session.Answer(ctx, Know)
	require.NoError(t, err)
	assert.Equal(t, Outcome{
		Card:              card,
		Rating:            Know,
		AnswerTimeSeconds: 3,
		Progress:          Progress{LearnedCards: 1, TotalCards: 2, Ratio: 0.5},
	}, outcome)

	card, err = session.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Katze", card.FrontText)

	clock.Advance(1200 * time.Millisecond)
	outcome, err = session.Answer(ctx, DontKnow)
	require.NoError(t, err)
	assert.True(t, outcome.Completed)
	assert.Equal(t, "2 / 2 (100%)", outcome.Progress.String())

	state := session.State()
	assert.True(t, state.Completed)
	assert.True(t, state.Finished)
	assert.Nil(t, state.Card)

	// Leaving after completion does not finish twice.
	require.NoError(t, session.Exit(ctx))
	_, err = session.Next(ctx)
	assert.True(t, errors.Is(err, ErrSessionFinished))
}

func TestSession_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("operations before start", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		session := NewSession(mock_learn.NewMockAPI(ctrl), testDeck())

		_, err := session.Next(ctx)
		assert.True(t, errors.Is(err, ErrNotStarted))
		_, err = session.Answer(ctx, Know)
		assert.True(t, errors.Is(err, ErrNotStarted))
		_, err = session.Progress(ctx)
		assert.True(t, errors.Is(err, ErrNotStarted))
		_, err = session.Finish(ctx)
		assert.True(t, errors.Is(err, ErrNotStarted))
		assert.NoError(t, session.Exit(ctx))
	})

	t.Run("failed start can be retried", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := mock_learn.NewMockAPI(ctrl)
		gomock.InOrder(
			client.EXPECT().StartSession(gomock.Any(), testDeckID).Return(api.LearnSessionCreateResponse{}, errors.New("connection refused")),
			client.EXPECT().StartSession(gomock.Any(), testDeckID).Return(api.LearnSessionCreateResponse{
				Session:  api.LearnSession{ID: testSessionID, TotalCards: 4, LearnedCards: 1},
				Progress: 0.25,
			}, nil),
		)

		session := NewSession(client, testDeck())
		_, err := session.Start(ctx)
		require.Error(t, err)

		progress, err := session.Start(ctx)
		require.NoError(t, err)
		assert.Equal(t, Progress{LearnedCards: 1, TotalCards: 4, Ratio: 0.25}, progress)
		assert.Equal(t, testSessionID, session.State().SessionID)
	})

	t.Run("start twice", func(t *testing.T) {
		session, _, _ := newStartedSession(t)
		_, err := session.Start(ctx)
		assert.True(t, errors.Is(err, ErrAlreadyStarted))
	})
}

func TestSession_Next(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		response api.LearnBatchResponse

		wantErr       error
		wantCompleted bool
		wantCard      *api.Card
	}{
		{
			name:     "shows the card from the deck",
			response: nextCard(12, 1),
			wantCard: &api.Card{ID: 12, DeckID: testDeckID, FrontText: "Katze", BackText: "cat"},
		},
		{
			name:          "no card id completes the session",
			response:      api.LearnBatchResponse{SessionID: testSessionID, LearnedCards: 2, TotalCards: 2, Progress: 1},
			wantErr:       ErrSessionComplete,
			wantCompleted: true,
		},
		{
			name:     "card outside of the deck",
			response: nextCard(99, 0),
			wantErr:  ErrUnknownCard,
		},
		{
			name:     "response for another session is dropped",
			response: api.LearnBatchResponse{SessionID: 42, CardID: intPtr(11)},
			wantErr:  ErrStaleResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, client, _ := newStartedSession(t)
			client.EXPECT().NextCard(gomock.Any(), testSessionID).Return(tt.response, nil)

			card, err := session.Next(ctx)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, *tt.wantCard, card)
			}

			state := session.State()
			assert.Equal(t, tt.wantCompleted, state.Completed)
			assert.Equal(t, tt.wantCard, state.Card)
			assert.False(t, state.Answered)
		})
	}
}

func TestSession_CompletedByNextThenExit(t *testing.T) {
	ctx := context.Background()
	session, client, _ := newStartedSession(t)
	client.EXPECT().NextCard(gomock.Any(), testSessionID).
		Return(api.LearnBatchResponse{SessionID: testSessionID, LearnedCards: 2, TotalCards: 2, Progress: 1}, nil)
	client.EXPECT().FinishSession(gomock.Any(), testSessionID).
		Return(api.LearnProgressResponse{SessionID: testSessionID, LearnedCards: 2, TotalCards: 2, Progress: 1, IsCompleted: true}, nil).
		Times(1)

	_, err := session.Next(ctx)
	require.True(t, errors.Is(err, ErrSessionComplete))
	_, err = session.Answer(ctx, Know)
	assert.True(t, errors.Is(err, ErrSessionComplete))

	require.NoError(t, session.Exit(ctx))
	require.NoError(t, session.Exit(ctx))
	assert.True(t, session.State().Finished)
}

func TestSession_Answer(t *testing.T) {
	ctx := context.Background()

	t.Run("no card shown", func(t *testing.T) {
		session, _, _ := newStartedSession(t)
		_, err := session.Answer(ctx, Know)
		assert.True(t, errors.Is(err, ErrNoCurrentCard))
	})

	t.Run("second answer while the first is in flight", func(t *testing.T) {
		session, client, _ := newStartedSession(t)
		client.EXPECT().NextCard(gomock.Any(), testSessionID).Return(nextCard(11, 0), nil)
		client.EXPECT().SubmitAnswer(gomock.Any(), testSessionID, 11, gomock.Any()).
			DoAndReturn(func(ctx context.Context, sessionID, cardID int, answer api.LearnAnswer) (api.LearnProgressResponse, error) {
				_, err := session.Answer(ctx, Review)
				assert.True(t, errors.Is(err, ErrAlreadyAnswered))
				return api.LearnProgressResponse{SessionID: testSessionID, TotalCards: 2}, nil
			}).
			Times(1)

		_, err := session.Next(ctx)
		require.NoError(t, err)
		_, err = session.Answer(ctx, Know)
		require.NoError(t, err)

		_, err = session.Answer(ctx, Know)
		assert.True(t, errors.Is(err, ErrAlreadyAnswered))
		assert.True(t, session.State().Answered)
	})

	t.Run("failed answer can be sent again", func(t *testing.T) {
		session, client, clock := newStartedSession(t)
		client.EXPECT().NextCard(gomock.Any(), testSessionID).Return(nextCard(11, 0), nil)
		gomock.InOrder(
			client.EXPECT().SubmitAnswer(gomock.Any(), testSessionID, 11, api.LearnAnswer{Correct: false, AnswerTimeSeconds: 2}).
				Return(api.LearnProgressResponse{}, errors.New("timeout")),
			client.EXPECT().SubmitAnswer(gomock.Any(), testSessionID, 11, api.LearnAnswer{Correct: false, AnswerTimeSeconds: 5}).
				Return(api.LearnProgressResponse{SessionID: testSessionID, TotalCards: 2}, nil),
		)

		_, err := session.Next(ctx)
		require.NoError(t, err)
		clock.Advance(2 * time.Second)
		_, err = session.Answer(ctx, Review)
		require.Error(t, err)
		assert.False(t, session.State().Answered)

		clock.Advance(3 * time.Second)
		outcome, err := session.Answer(ctx, Review)
		require.NoError(t, err)
		assert.Equal(t, 5, outcome.AnswerTimeSeconds)
	})

	t.Run("answer arriving after exit is dropped", func(t *testing.T) {
		session, client, _ := newStartedSession(t)
		client.EXPECT().NextCard(gomock.Any(), testSessionID).Return(nextCard(11, 0), nil)
		client.EXPECT().FinishSession(gomock.Any(), testSessionID).
			Return(api.LearnProgressResponse{SessionID: testSessionID, TotalCards: 2}, nil)
		client.EXPECT().SubmitAnswer(gomock.Any(), testSessionID, 11, gomock.Any()).
			DoAndReturn(func(ctx context.Context, sessionID, cardID int, answer api.LearnAnswer) (api.LearnProgressResponse, error) {
				require.NoError(t, session.Exit(ctx))
				return api.LearnProgressResponse{SessionID: testSessionID, LearnedCards: 1, TotalCards: 2, Progress: 0.5}, nil
			})

		_, err := session.Next(ctx)
		require.NoError(t, err)
		_, err = session.Answer(ctx, Know)
		assert.True(t, errors.Is(err, ErrStaleResponse))

		state := session.State()
		assert.True(t, state.Finished)
		assert.Equal(t, Progress{TotalCards: 2}, state.Progress)
	})
}

func TestSession_Progress(t *testing.T) {
	ctx := context.Background()
	session, client, _ := newStartedSession(t)
	client.EXPECT().Progress(gomock.Any(), testSessionID).
		Return(api.LearnProgressResponse{SessionID: testSessionID, LearnedCards: 1, TotalCards: 2, Progress: 0.5}, nil)
	client.EXPECT().FinishSession(gomock.Any(), testSessionID).
		Return(api.LearnProgressResponse{}, errors.New("unavailable"))

	progress, err := session.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 50, progress.Percent())

	// A failed finish leaves the session open so exiting can be retried.
	_, err = session.Finish(ctx)
	require.Error(t, err)
	assert.False(t, session.State().Finished)
}

func TestSession_ExitWaitsForFinishInFlight(t *testing.T) {
	session, client, _ := newStartedSession(t)
	answerCtx, cancelAnswer := context.WithCancel(context.Background())
	defer cancelAnswer()

	completed := api.LearnProgressResponse{SessionID: testSessionID, LearnedCards: 2, TotalCards: 2, Progress: 1, IsCompleted: true}
	finishing := make(chan struct{})
	gomock.InOrder(
		client.EXPECT().NextCard(gomock.Any(), testSessionID).Return(nextCard(11, 1), nil),
		client.EXPECT().SubmitAnswer(gomock.Any(), testSessionID, 11, gomock.Any()).Return(completed, nil),
		client.EXPECT().FinishSession(gomock.Any(), testSessionID).
			DoAndReturn(func(ctx context.Context, sessionID int) (api.LearnProgressResponse, error) {
				close(finishing)
				<-ctx.Done()
				return api.LearnProgressResponse{}, ctx.Err()
			}),
		client.EXPECT().FinishSession(gomock.Any(), testSessionID).Return(completed, nil),
	)

	_, err := session.Next(answerCtx)
	require.NoError(t, err)

	answerErr := make(chan error, 1)
	go func() {
		_, err := session.Answer(answerCtx, Know)
		answerErr <- err
	}()
	<-finishing

	exitErr := make(chan error, 1)
	go func() {
		exitErr <- session.Exit(context.Background())
	}()
	select {
	case err := <-exitErr:
		t.Fatalf("Exit returned while the finish was in flight: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	assert.False(t, session.State().Finished)

	cancelAnswer()
	assert.True(t, errors.Is(<-answerErr, context.Canceled))
	require.NoError(t, <-exitErr)

	state := session.State()
	assert.True(t, state.Finished)
	assert.True(t, state.Completed)
	assert.Equal(t, Progress{LearnedCards: 2, TotalCards: 2, Ratio: 1}, state.Progress)
}

func TestSession_ProgressOlderThanAnswerIsDropped(t *testing.T) {
	ctx := context.Background()
	session, client, _ := newStartedSession(t)
	answered := api.LearnProgressResponse{SessionID: testSessionID, LearnedCards: 1, TotalCards: 2, Progress: 0.5}
	gomock.InOrder(
		client.EXPECT().NextCard(gomock.Any(), testSessionID).Return(nextCard(11, 0), nil),
		client.EXPECT().Progress(gomock.Any(), testSessionID).
			DoAndReturn(func(ctx context.Context, sessionID int) (api.LearnProgressResponse, error) {
				// The answer lands while the refresh is still on its way back.
				_, err := session.Answer(ctx, Know)
				require.NoError(t, err)
				return api.LearnProgressResponse{SessionID: testSessionID, TotalCards: 2}, nil
			}),
		client.EXPECT().SubmitAnswer(gomock.Any(), testSessionID, 11, gomock.Any()).Return(answered, nil),
	)

	_, err := session.Next(ctx)
	require.NoError(t, err)

	progress, err := session.Progress(ctx)
	assert.True(t, errors.Is(err, ErrStaleResponse), "got %v", err)
	want := Progress{LearnedCards: 1, TotalCards: 2, Ratio: 0.5}
	assert.Equal(t, want, progress)
	assert.Equal(t, want, session.State().Progress)
}

func TestRating(t *testing.T) {
	tests := []struct {
		rating      Rating
		wantCorrect bool
		wantString  string
	}{
		{rating: Know, wantCorrect: true, wantString: "know"},
		{rating: Review, wantCorrect: false, wantString: "review"},
		{rating: DontKnow, wantCorrect: false, wantString: "don't know"},
	}

	for _, tt := range tests {
		t.Run(tt.wantString, func(t *testing.T) {
			assert.Equal(t, tt.wantCorrect, tt.rating.Correct())
			assert.Equal(t, tt.wantString, tt.rating.String())
		})
	}
}

func TestProgress_Percent(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		{ratio: 0, want: 0},
		{ratio: 0.333, want: 33},
		{ratio: 0.666, want: 67},
		{ratio: 0.005, want: 1},
		{ratio: 1, want: 100},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Progress{Ratio: tt.ratio}.Percent())
	}
}
