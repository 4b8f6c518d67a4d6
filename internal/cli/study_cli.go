package cli

import (
	"context"
	"fmt"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/study"
)

// StudyCLI flips through a deck without anything being recorded
type StudyCLI struct {
	*InteractiveCLI
	deck      api.DeckDetailed
	navigator *study.Navigator
}

func NewStudyCLI(deck api.DeckDetailed) (*StudyCLI, error) {
	navigator, err := study.NewNavigator(deck.Cards)
	if err != nil {
		return nil, err
	}
	return &StudyCLI{
		InteractiveCLI: newInteractiveCLI(),
		deck:           deck,
		navigator:      navigator,
	}, nil
}

func (cli *StudyCLI) Run(ctx context.Context) error {
	return cli.InteractiveCLI.Run(ctx, cli)
}

func (cli *StudyCLI) Session(ctx context.Context) error {
	if cli.navigator.Passed() {
		return cli.completed()
	}

	side := "Front"
	if cli.navigator.ShowBack() {
		side = "Back"
	}
	cli.println()
	cli.printf("%s  %s\n", cli.bold.Sprint(cli.deck.Title), cli.navigator.Header())
	cli.printf("%s: %s\n", cli.italic.Sprint(side), cli.bold.Sprint(cli.navigator.Side()))
	cli.printImage(cli.navigator.ImageURL())

	command, err := cli.prompt("[Enter/f] flip  [n] next  [p] previous  [q] quit: ")
	if err != nil {
		return quitOnEOF(err)
	}

	switch command {
	case "", "f":
		cli.navigator.Flip()
	case "n":
		cli.navigator.Next()
	case "p":
		cli.navigator.Prev()
	case "q":
		return errEnd
	default:
		cli.printf("Unknown command %q\n", command)
	}
	return nil
}

func (cli *StudyCLI) completed() error {
	cli.println()
	_, _ = cli.green.Fprintln(cli.stdoutWriter, "Deck Completed!")
	cli.printf("You went through all %d cards of %s.\n", cli.navigator.Len(), cli.bold.Sprint(cli.deck.Title))
	cli.printf("Next: %s or %s\n",
		cli.italic.Sprint(fmt.Sprintf("ruzlet learn %d", cli.deck.ID)),
		cli.italic.Sprint(fmt.Sprintf("ruzlet test %d", cli.deck.ID)),
	)

	command, err := cli.prompt("[r] study again  [q] quit: ")
	if err != nil {
		return quitOnEOF(err)
	}
	if command == "r" {
		cli.navigator.Restart()
		return nil
	}
	return errEnd
}
