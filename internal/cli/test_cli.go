package cli

import (
	"context"
	"fmt"
	"math"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/quiz"
)

const quitAnswer = ":q"

//go:generate mockgen -source=test_cli.go -destination=../mocks/cli/mock_result_client.go -package=mock_cli ResultClient

type ResultClient interface {
	CreateResult(ctx context.Context, deckID int, body api.TestResultCreate) (api.TestResult, error)
}

// TestCLI asks for the back of every card and saves the score as a test result
type TestCLI struct {
	*InteractiveCLI
	client ResultClient
	deck   api.DeckDetailed
	userID int
	test   *quiz.Test
}

func NewTestCLI(client ResultClient, deck api.DeckDetailed, userID int, shuffle bool, opts ...quiz.Option) (*TestCLI, error) {
	test, err := quiz.NewTest(deck.Cards, opts...)
	if err != nil {
		return nil, err
	}
	if shuffle {
		test.Shuffle()
	}
	return &TestCLI{
		InteractiveCLI: newInteractiveCLI(),
		client:         client,
		deck:           deck,
		userID:         userID,
		test:           test,
	}, nil
}

// Run asks the cards and then saves what was answered, even when the test was left early.
func (cli *TestCLI) Run(ctx context.Context) error {
	if err := cli.InteractiveCLI.Run(ctx, cli); err != nil {
		return err
	}
	// The prompt may still be waiting for a line after an interrupt.
	cli.test.Close()

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), exitTimeout)
	defer cancel()
	return cli.save(saveCtx)
}

func (cli *TestCLI) Session(ctx context.Context) error {
	card, ok := cli.test.Show()
	if !ok {
		return errEnd
	}

	cli.println()
	cli.printf("Question %d/%d\n", cli.test.Total()-cli.test.Remaining()+1, cli.test.Total())
	cli.printf("%s\n", cli.bold.Sprint(card.FrontText))
	cli.printImage(deref(card.FrontImageURL))

	userAnswer, err := cli.prompt("Your answer (%s to quit): ", quitAnswer)
	if err != nil {
		return quitOnEOF(err)
	}
	if userAnswer == quitAnswer {
		return errEnd
	}

	answer, err := cli.test.Submit(userAnswer)
	if err != nil {
		return fmt.Errorf("test.Submit() > %w", err)
	}
	if answer.Correct {
		_, _ = cli.green.Fprintf(cli.stdoutWriter, "\u2705 It's correct. ")
	} else {
		_, _ = cli.red.Fprintf(cli.stdoutWriter, "\u274C It's wrong. ")
	}
	cli.printf(`The answer is "%s"`+"\n", cli.italic.Sprint(card.BackText))
	return nil
}

func (cli *TestCLI) save(ctx context.Context) error {
	result, ok := cli.test.Result(cli.userID)
	if !ok {
		cli.println("No cards were answered, nothing was saved.")
		return nil
	}

	correct := 0
	for _, cardResult := range result.CardResults {
		if cardResult.Correct {
			correct++
		}
	}
	cli.println()
	cli.printf("Score: %d/%d (%d%%) in %ds\n",
		correct,
		len(result.CardResults),
		int(math.Round(result.CorrectRate*100)),
		result.TotalTimeSeconds,
	)

	saved, err := cli.client.CreateResult(ctx, cli.deck.ID, result)
	if err != nil {
		return fmt.Errorf("client.CreateResult(%d) > %w", cli.deck.ID, err)
	}
	cli.printf("Saved as result #%d. See %s\n", saved.ID, cli.italic.Sprint(fmt.Sprintf("ruzlet results %d", cli.deck.ID)))
	return nil
}
