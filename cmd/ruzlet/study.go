package main

import (
	"fmt"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/cli"
	"github.com/spf13/cobra"
)

func newStudyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "study <deck>",
		Short: "Flip through the cards of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			deck, err := a.client.GetDeck(cmd.Context(), deckID)
			if err != nil {
				return fmt.Errorf("client.GetDeck(%d) > %w", deckID, err)
			}
			studyCLI, err := cli.NewStudyCLI(deck)
			if err != nil {
				return err
			}
			studyCLI.SetIO(cmd.InOrStdin(), cmd.OutOrStdout())
			return studyCLI.Run(cmd.Context())
		},
	}
}

func newLearnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "learn <deck>",
		Short: "Learn a deck until the backend counts every card as learned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			a, err := newLoggedInApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			deck, err := a.client.GetDeck(cmd.Context(), deckID)
			if err != nil {
				return fmt.Errorf("client.GetDeck(%d) > %w", deckID, err)
			}
			learnCLI := cli.NewLearnCLI(a.client, deck, a.cfg.Learn.NextCardDelay())
			learnCLI.SetIO(cmd.InOrStdin(), cmd.OutOrStdout())
			return learnCLI.Run(cmd.Context())
		},
	}
}

func newTestCommand() *cobra.Command {
	var shuffle bool

	command := &cobra.Command{
		Use:   "test <deck>",
		Short: "Type the back of every card and save the score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			a, err := newLoggedInApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			ctx := cmd.Context()
			user, err := a.client.Me(ctx)
			if err != nil {
				return fmt.Errorf("client.Me() > %w", err)
			}
			deck, err := a.client.GetDeck(ctx, deckID)
			if err != nil {
				return fmt.Errorf("client.GetDeck(%d) > %w", deckID, err)
			}

			testCLI, err := cli.NewTestCLI(a.client, deck, user.ID, shuffle)
			if err != nil {
				return err
			}
			testCLI.SetIO(cmd.InOrStdin(), cmd.OutOrStdout())
			return testCLI.Run(ctx)
		},
	}
	command.Flags().BoolVar(&shuffle, "shuffle", false, "ask the cards in random order")
	return command
}

func newResultsCommand() *cobra.Command {
	var mine bool

	command := &cobra.Command{
		Use:   "results <deck>",
		Short: "Show the test results of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			ctx := cmd.Context()
			params := api.ResultListParams{
				Cursor: changedInt(cmd, "cursor"),
				Limit:  changedInt(cmd, "limit"),
			}
			var userID int
			if mine {
				user, err := a.client.Me(ctx)
				if err != nil {
					return fmt.Errorf("client.Me() > %w", err)
				}
				userID = user.ID
				params.UserID = &userID
			}

			deck, err := a.client.GetDeck(ctx, deckID)
			if err != nil {
				return fmt.Errorf("client.GetDeck(%d) > %w", deckID, err)
			}
			results, err := a.client.ListResults(ctx, deckID, params)
			if err != nil {
				return fmt.Errorf("client.ListResults(%d) > %w", deckID, err)
			}
			return cli.WriteResults(cmd.OutOrStdout(), deck, results, userID)
		},
	}

	flags := command.Flags()
	flags.Int("cursor", 0, "id to continue the listing after")
	flags.Int("limit", 0, "maximum number of results")
	flags.BoolVar(&mine, "mine", false, "only your own results")
	return command
}
