package main

import (
	"fmt"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/deckfile"
	"github.com/Kbnch7/quizlet/internal/forms"
	"github.com/spf13/cobra"
)

func newCardsCommand() *cobra.Command {
	cardsCommand := &cobra.Command{
		Use:   "cards",
		Short: "Manage the cards of a deck",
	}

	cardsCommand.AddCommand(
		newCardsAddCommand(),
		newCardsEditCommand(),
		newCardsDeleteCommand(),
		newCardsBulkCommand(),
	)
	return cardsCommand
}

func newCardsAddCommand() *cobra.Command {
	var form forms.CardForm

	command := &cobra.Command{
		Use:   "add <deck>",
		Short: "Add a card at the end of a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			validator, err := newFormValidator()
			if err != nil {
				return err
			}
			if err := validator.Validate(form); err != nil {
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
			deck, err := a.client.GetDeck(ctx, deckID)
			if err != nil {
				return fmt.Errorf("client.GetDeck(%d) > %w", deckID, err)
			}
			body, err := deckfile.NewCardCreate(ctx, a.client, form, len(deck.Cards))
			if err != nil {
				return err
			}
			card, err := a.client.CreateCard(ctx, deckID, body)
			if err != nil {
				return fmt.Errorf("client.CreateCard(%d) > %w", deckID, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added card #%d to deck #%d\n", card.ID, deckID)
			return nil
		},
	}

	flags := command.Flags()
	flags.StringVar(&form.FrontText, "front", "", "front text")
	flags.StringVar(&form.BackText, "back", "", "back text")
	flags.StringVar(&form.FrontImage, "front-image", "", "front image, a URL or a local file to upload")
	flags.StringVar(&form.BackImage, "back-image", "", "back image, a URL or a local file to upload")
	return command
}

func newCardsEditCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "edit <deck> <card>",
		Short: "Change the text or images of a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			cardID, err := parseID("card", args[1])
			if err != nil {
				return err
			}
			update := api.CardUpdate{
				FrontText: changedString(cmd, "front"),
				BackText:  changedString(cmd, "back"),
			}
			frontImage := changedString(cmd, "front-image")
			backImage := changedString(cmd, "back-image")
			if update.FrontText == nil && update.BackText == nil && frontImage == nil && backImage == nil {
				return fmt.Errorf("nothing to change, use --front, --back, --front-image or --back-image")
			}

			a, err := newLoggedInApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			ctx := cmd.Context()
			deck, err := a.client.GetDeck(ctx, deckID)
			if err != nil {
				return fmt.Errorf("client.GetDeck(%d) > %w", deckID, err)
			}
			current, ok := deck.CardByID(cardID)
			if !ok {
				return fmt.Errorf("card #%d is not in deck #%d", cardID, deckID)
			}

			form := forms.CardForm{FrontText: current.FrontText, BackText: current.BackText}
			if update.FrontText != nil {
				form.FrontText = *update.FrontText
			}
			if update.BackText != nil {
				form.BackText = *update.BackText
			}
			validator, err := newFormValidator()
			if err != nil {
				return err
			}
			if err := validator.Validate(form); err != nil {
				return err
			}

			if frontImage != nil {
				if update.FrontImageURL, err = deckfile.ResolveImage(ctx, a.client, *frontImage); err != nil {
					return err
				}
			}
			if backImage != nil {
				if update.BackImageURL, err = deckfile.ResolveImage(ctx, a.client, *backImage); err != nil {
					return err
				}
			}

			card, err := a.client.UpdateCard(ctx, deckID, cardID, update)
			if err != nil {
				return fmt.Errorf("client.UpdateCard(%d, %d) > %w", deckID, cardID, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated card #%d: %s / %s\n", card.ID, card.FrontText, card.BackText)
			return nil
		},
	}

	flags := command.Flags()
	flags.String("front", "", "new front text")
	flags.String("back", "", "new back text")
	flags.String("front-image", "", "new front image, a URL or a local file to upload")
	flags.String("back-image", "", "new back image, a URL or a local file to upload")
	return command
}

func newCardsDeleteCommand() *cobra.Command {
	var yes bool

	command := &cobra.Command{
		Use:   "delete <deck> <card>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			cardID, err := parseID("card", args[1])
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

			if !yes {
				ok, err := newPrompter(cmd).confirm(fmt.Sprintf("Delete card #%d of deck #%d?", cardID, deckID))
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := a.client.DeleteCard(cmd.Context(), deckID, cardID); err != nil {
				return fmt.Errorf("client.DeleteCard(%d, %d) > %w", deckID, cardID, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted card #%d\n", cardID)
			return nil
		},
	}
	command.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return command
}

func newCardsBulkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bulk <deck> <file.yml>",
		Short: "Create, update and delete many cards of a deck at once",
		Long: `The file is a YAML list of cards. An item without id creates a card,
an item with an id updates that card, and an item with to_delete: true deletes it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			items, err := deckfile.ReadBulk(args[1])
			if err != nil {
				return fmt.Errorf("deckfile.ReadBulk() > %w", err)
			}
			a, err := newLoggedInApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			cards, err := a.client.BulkUpdateCards(cmd.Context(), deckID, items)
			if err != nil {
				return fmt.Errorf("client.BulkUpdateCards(%d) > %w", deckID, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deck #%d now has %d cards\n", deckID, len(cards))
			return nil
		},
	}
}
