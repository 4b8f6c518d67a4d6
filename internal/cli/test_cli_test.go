package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kbnch7/quizlet/internal/api"
	mock_cli "github.com/Kbnch7/quizlet/internal/mocks/cli"
	"github.com/Kbnch7/quizlet/internal/quiz"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string {
	return &s
}

func TestTestCLI_Run(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		setupMock    func(m *mock_cli.MockResultClient)
		wantOutput   []string
		unwantOutput []string
		wantErrMsg   string
	}{
		{
			name:  "answers every card",
			input: " Hello \nbye\n",
			setupMock: func(m *mock_cli.MockResultClient) {
				m.EXPECT().CreateResult(gomock.Any(), 3, api.TestResultCreate{
					UserID:      7,
					CorrectRate: 0.5,
					CardResults: []api.CardResultCreate{
						{CardID: 11, Correct: true, UserAnswer: stringPtr("Hello")},
						{CardID: 12, Correct: false, UserAnswer: stringPtr("bye")},
					},
				}).Return(api.TestResult{ID: 9, DeckID: 3, UserID: 7, CorrectRate: 0.5}, nil)
			},
			wantOutput: []string{
				"Question 1/2",
				"hola",
				"It's correct.",
				"Question 2/2",
				"It's wrong.",
				`The answer is "sun"`,
				"Score: 1/2 (50%) in 0s",
				"Saved as result #9",
			},
		},
		{
			name:  "quitting early saves the answered cards",
			input: "hello\n:q\n",
			setupMock: func(m *mock_cli.MockResultClient) {
				m.EXPECT().CreateResult(gomock.Any(), 3, api.TestResultCreate{
					UserID:      7,
					CorrectRate: 1,
					CardResults: []api.CardResultCreate{
						{CardID: 11, Correct: true, UserAnswer: stringPtr("hello")},
					},
				}).Return(api.TestResult{ID: 10}, nil)
			},
			wantOutput: []string{"Question 2/2", "Score: 1/1 (100%)", "Saved as result #10"},
		},
		{
			name:         "quitting before answering saves nothing",
			input:        ":q\n",
			setupMock:    func(m *mock_cli.MockResultClient) {},
			wantOutput:   []string{"No cards were answered, nothing was saved."},
			unwantOutput: []string{"Score:"},
		},
		{
			name:  "saving fails",
			input: "hello\nsun\n",
			setupMock: func(m *mock_cli.MockResultClient) {
				m.EXPECT().CreateResult(gomock.Any(), 3, gomock.Any()).Return(api.TestResult{}, errors.New("connection refused"))
			},
			wantOutput: []string{"Score: 2/2 (100%)"},
			wantErrMsg: "client.CreateResult(3) > connection refused",
		},
	}

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			color.NoColor = true
			defer func() { color.NoColor = false }()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			client := mock_cli.NewMockResultClient(ctrl)
			tt.setupMock(client)

			var buf bytes.Buffer
			cli, err := NewTestCLI(client, testDeck(), 7, false, quiz.WithClock(func() time.Time { return now }))
			require.NoError(t, err)
			cli.InteractiveCLI = newTestInteractiveCLI(tt.input, &buf)

			err = cli.Run(context.Background())
			if tt.wantErrMsg != "" {
				assert.ErrorContains(t, err, tt.wantErrMsg)
			} else {
				require.NoError(t, err)
			}

			output := buf.String()
			for _, want := range tt.wantOutput {
				assert.Contains(t, output, want)
			}
			for _, unwant := range tt.unwantOutput {
				assert.NotContains(t, output, unwant)
			}
		})
	}
}

func TestNewTestCLI_EmptyDeck(t *testing.T) {
	_, err := NewTestCLI(nil, api.DeckDetailed{Deck: api.Deck{ID: 1}}, 7, true)
	assert.ErrorIs(t, err, quiz.ErrNoCards)
}
