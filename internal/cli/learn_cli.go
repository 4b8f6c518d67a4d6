package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/learn"
	"github.com/Kbnch7/quizlet/internal/study"
)

const (
	progressRefreshInterval = 5 * time.Second
	exitTimeout             = 10 * time.Second
)

// LearnCLI runs a learn session that the backend tracks
type LearnCLI struct {
	*InteractiveCLI
	session         *learn.Session
	nextCardDelay   time.Duration
	refreshInterval time.Duration
}

func NewLearnCLI(client learn.API, deck api.DeckDetailed, nextCardDelay time.Duration, opts ...learn.Option) *LearnCLI {
	return &LearnCLI{
		InteractiveCLI:  newInteractiveCLI(),
		session:         learn.NewSession(client, deck, opts...),
		nextCardDelay:   nextCardDelay,
		refreshInterval: progressRefreshInterval,
	}
}

// Run starts the session and leaves learn mode when the user quits, the deck is learned,
// or the process is interrupted. The session is finished on the backend in every case.
func (cli *LearnCLI) Run(ctx context.Context) error {
	deck := cli.session.Deck()
	if len(deck.Cards) == 0 {
		return fmt.Errorf("deck %d: %w", deck.ID, study.ErrEmptyDeck)
	}

	progress, err := cli.session.Start(ctx)
	if err != nil {
		return fmt.Errorf("session.Start() > %w", err)
	}
	cli.printf("Learning %s\n", cli.bold.Sprint(deck.Title))
	cli.printf("Progress: %s\n", progress)

	refreshCtx, cancel := context.WithCancel(ctx)
	go cli.refreshProgress(refreshCtx)
	runErr := cli.InteractiveCLI.Run(ctx, cli)
	cancel()

	// the caller's context may already be cancelled by the interrupt
	exitCtx, cancelExit := context.WithTimeout(context.WithoutCancel(ctx), exitTimeout)
	defer cancelExit()
	if err := cli.session.Exit(exitCtx); err != nil {
		if runErr != nil {
			return errors.Join(runErr, fmt.Errorf("session.Exit() > %w", err))
		}
		return fmt.Errorf("session.Exit() > %w", err)
	}
	return runErr
}

func (cli *LearnCLI) Session(ctx context.Context) error {
	card, err := cli.session.Next(ctx)
	if errors.Is(err, learn.ErrSessionComplete) {
		cli.completed()
		return errEnd
	}
	if err != nil {
		return fmt.Errorf("session.Next() > %w", err)
	}

	cli.println()
	cli.printf("%s: %s\n", cli.italic.Sprint("Front"), cli.bold.Sprint(card.FrontText))
	cli.printImage(deref(card.FrontImageURL))
	command, err := cli.prompt("Press Enter to show the answer (q to quit): ")
	if err != nil {
		return quitOnEOF(err)
	}
	if command == "q" {
		return errEnd
	}

	cli.printf("%s: %s\n", cli.italic.Sprint("Back"), cli.bold.Sprint(card.BackText))
	cli.printImage(deref(card.BackImageURL))

	var rating learn.Rating
	for {
		command, err := cli.prompt("[k] know  [r] review  [d] don't know  [q] quit: ")
		if err != nil {
			return quitOnEOF(err)
		}
		if command == "q" {
			return errEnd
		}
		var ok bool
		if rating, ok = parseRating(command); ok {
			break
		}
		cli.printf("Unknown choice %q\n", command)
	}

	outcome, err := cli.session.Answer(ctx, rating)
	if err != nil {
		return fmt.Errorf("session.Answer(%s) > %w", rating, err)
	}
	cli.printOutcome(outcome)
	if outcome.Completed {
		cli.completed()
		return errEnd
	}

	select {
	case <-ctx.Done():
	case <-time.After(cli.nextCardDelay):
	}
	return nil
}

func (cli *LearnCLI) printOutcome(outcome learn.Outcome) {
	switch outcome.Rating {
	case learn.Know:
		_, _ = cli.green.Fprintf(cli.stdoutWriter, "\u2705 Marked as known (%ds)\n", outcome.AnswerTimeSeconds)
	case learn.Review:
		_, _ = cli.yellow.Fprintf(cli.stdoutWriter, "\U0001F501 Marked for review (%ds)\n", outcome.AnswerTimeSeconds)
	default:
		_, _ = cli.red.Fprintf(cli.stdoutWriter, "\u274C Marked as not known (%ds)\n", outcome.AnswerTimeSeconds)
	}
	cli.printf("Progress: %s\n", outcome.Progress)
}

func (cli *LearnCLI) completed() {
	deck := cli.session.Deck()
	progress := cli.session.State().Progress
	cli.println()
	_, _ = cli.green.Fprintln(cli.stdoutWriter, "Great job!")
	cli.printf("You have learned %d of %d cards in %s.\n", progress.LearnedCards, progress.TotalCards, cli.bold.Sprint(deck.Title))
	cli.printf("Check yourself with %s or browse the deck with %s\n",
		cli.italic.Sprint(fmt.Sprintf("ruzlet test %d", deck.ID)),
		cli.italic.Sprint(fmt.Sprintf("ruzlet study %d", deck.ID)),
	)
}

// refreshProgress keeps the shown progress in line with the backend while the user thinks.
func (cli *LearnCLI) refreshProgress(ctx context.Context) {
	ticker := time.NewTicker(cli.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := cli.session.Progress(ctx); err != nil && !errors.Is(err, learn.ErrStaleResponse) && ctx.Err() == nil {
				slog.Debug("failed to refresh the learn progress", "error", err)
			}
		}
	}
}

func parseRating(command string) (learn.Rating, bool) {
	switch command {
	case "k":
		return learn.Know, true
	case "r":
		return learn.Review, true
	case "d":
		return learn.DontKnow, true
	}
	return learn.DontKnow, false
}

func quitOnEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return errEnd
	}
	return err
}
