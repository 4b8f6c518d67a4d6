package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/assets"
	"github.com/Kbnch7/quizlet/internal/deckfile"
	"github.com/Kbnch7/quizlet/internal/forms"
	"github.com/Kbnch7/quizlet/internal/pdf"
	"github.com/spf13/cobra"
)

func newDecksCommand() *cobra.Command {
	decksCommand := &cobra.Command{
		Use:   "decks",
		Short: "Browse and manage decks",
	}

	decksCommand.AddCommand(
		newDecksListCommand(),
		newDecksShowCommand(),
		newDecksCreateCommand(),
		newDecksEditCommand(),
		newDecksDeleteCommand(),
		newDecksStatsCommand(),
		newDecksImportCommand(),
		newDecksExportCommand(),
	)
	return decksCommand
}

func newDecksListCommand() *cobra.Command {
	var (
		search     string
		sortOrder  SortFlag
		myTeachers bool
	)

	command := &cobra.Command{
		Use:   "list",
		Short: "List decks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			params := api.DeckListParams{
				Author:   changedInt(cmd, "author"),
				Category: changedString(cmd, "category"),
				Tag:      changedString(cmd, "tag"),
				Cursor:   changedInt(cmd, "cursor"),
				Limit:    changedInt(cmd, "limit"),
			}
			if myTeachers {
				params.MyTeachers = &myTeachers
			}

			decks, err := a.client.ListDecks(cmd.Context(), params)
			if err != nil {
				return fmt.Errorf("client.ListDecks() > %w", err)
			}
			decks = filterDecks(decks, search)
			sortDecks(decks, sortOrder)
			return writeDecks(cmd.OutOrStdout(), decks)
		},
	}

	flags := command.Flags()
	flags.Int("author", 0, "only decks of this author id")
	flags.String("category", "", "only decks in this category slug")
	flags.String("tag", "", "only decks with this tag slug")
	flags.BoolVar(&myTeachers, "my-teachers", false, "only decks of the teachers you follow")
	flags.Int("cursor", 0, "id to continue the listing after")
	flags.Int("limit", 0, "maximum number of decks")
	flags.StringVar(&search, "search", "", "only decks whose title or description contains this text")
	flags.Var(&sortOrder, "sort", fmt.Sprintf("order by title, %q or %q", SortAscending, SortDescending))
	return command
}

// filterDecks keeps the decks whose title or description contains query, ignoring case.
func filterDecks(decks []api.Deck, query string) []api.Deck {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return decks
	}
	filtered := make([]api.Deck, 0, len(decks))
	for _, deck := range decks {
		if strings.Contains(strings.ToLower(deck.Title), query) ||
			strings.Contains(strings.ToLower(deck.DescriptionText()), query) {
			filtered = append(filtered, deck)
		}
	}
	return filtered
}

// sortDecks orders by title; without an order the backend's order is kept.
func sortDecks(decks []api.Deck, order SortFlag) {
	if order == "" {
		return
	}
	sort.SliceStable(decks, func(i, j int) bool {
		left, right := strings.ToLower(decks[i].Title), strings.ToLower(decks[j].Title)
		if order == SortDescending {
			return left > right
		}
		return left < right
	})
}

func writeDecks(output io.Writer, decks []api.Deck) error {
	if len(decks) == 0 {
		_, err := fmt.Fprintln(output, "No decks found")
		return err
	}
	writer := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(writer, "ID\tTITLE\tCARDS\tCATEGORIES\tTAGS")
	for _, deck := range decks {
		categories := make([]string, 0, len(deck.Categories))
		for _, category := range deck.Categories {
			categories = append(categories, category.Slug)
		}
		tags := make([]string, 0, len(deck.Tags))
		for _, tag := range deck.Tags {
			tags = append(tags, tag.Slug)
		}
		_, _ = fmt.Fprintf(writer, "%d\t%s\t%d\t%s\t%s\n",
			deck.ID,
			deck.Title,
			deck.CardsAmount,
			strings.Join(categories, ","),
			strings.Join(tags, ","),
		)
	}
	return writer.Flush()
}

func newDecksShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <deck>",
		Short: "Show a deck with its cards",
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
			return writeDeck(cmd.OutOrStdout(), deck)
		},
	}
}

func writeDeck(output io.Writer, deck api.DeckDetailed) error {
	_, _ = fmt.Fprintf(output, "%s (#%d)\n", deck.Title, deck.ID)
	if description := deck.DescriptionText(); description != "" {
		_, _ = fmt.Fprintln(output, description)
	}
	if len(deck.Categories) > 0 {
		names := make([]string, 0, len(deck.Categories))
		for _, category := range deck.Categories {
			names = append(names, category.Name)
		}
		_, _ = fmt.Fprintf(output, "Categories: %s\n", strings.Join(names, ", "))
	}
	if len(deck.Tags) > 0 {
		names := make([]string, 0, len(deck.Tags))
		for _, tag := range deck.Tags {
			names = append(names, tag.Name)
		}
		_, _ = fmt.Fprintf(output, "Tags: %s\n", strings.Join(names, ", "))
	}
	_, _ = fmt.Fprintf(output, "Cards (%d)\n", len(deck.Cards))
	if len(deck.Cards) == 0 {
		return nil
	}

	writer := tabwriter.NewWriter(output, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(writer, "ID\tFRONT\tBACK")
	for _, card := range deck.Cards {
		_, _ = fmt.Fprintf(writer, "%d\t%s\t%s\n", card.ID, card.FrontText, card.BackText)
	}
	return writer.Flush()
}

func newDecksCreateCommand() *cobra.Command {
	var form forms.DeckForm

	command := &cobra.Command{
		Use:   "create",
		Short: "Create a deck",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newLoggedInApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			validator, err := newFormValidator()
			if err != nil {
				return err
			}
			if err := validator.Validate(form); err != nil {
				return err
			}

			deck, err := a.client.CreateDeck(cmd.Context(), form.Create())
			if err != nil {
				return fmt.Errorf("client.CreateDeck() > %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created deck #%d %s\n", deck.ID, deck.Title)
			return nil
		},
	}

	flags := command.Flags()
	flags.StringVar(&form.Title, "title", "", "deck title")
	flags.StringVar(&form.Description, "description", "", "deck description")
	flags.StringSliceVar(&form.Categories, "category", nil, "category slug, repeatable")
	flags.StringSliceVar(&form.Tags, "tag", nil, "tag slug, repeatable")
	return command
}

func newDecksEditCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "edit <deck>",
		Short: "Change the title, description, categories or tags of a deck",
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
			current, err := a.client.GetDeck(ctx, deckID)
			if err != nil {
				return fmt.Errorf("client.GetDeck(%d) > %w", deckID, err)
			}

			form := deckfile.FromDeck(current).DeckForm
			update := api.DeckUpdate{
				Title:       changedString(cmd, "title"),
				Description: changedString(cmd, "description"),
			}
			if update.Title != nil {
				form.Title = *update.Title
			}
			if update.Description != nil {
				form.Description = *update.Description
			}
			if cmd.Flags().Changed("category") {
				update.Categories, _ = cmd.Flags().GetStringSlice("category")
				form.Categories = update.Categories
			}
			if cmd.Flags().Changed("tag") {
				update.Tags, _ = cmd.Flags().GetStringSlice("tag")
				form.Tags = update.Tags
			}
			if update.Title == nil && update.Description == nil && update.Categories == nil && update.Tags == nil {
				return fmt.Errorf("nothing to change, use --title, --description, --category or --tag")
			}

			validator, err := newFormValidator()
			if err != nil {
				return err
			}
			if err := validator.Validate(form); err != nil {
				return err
			}

			deck, err := a.client.UpdateDeck(ctx, deckID, update)
			if err != nil {
				return fmt.Errorf("client.UpdateDeck(%d) > %w", deckID, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated deck #%d %s\n", deck.ID, deck.Title)
			return nil
		},
	}

	flags := command.Flags()
	flags.String("title", "", "new title")
	flags.String("description", "", "new description")
	flags.StringSlice("category", nil, "category slug, repeatable; replaces the current ones")
	flags.StringSlice("tag", nil, "tag slug, repeatable; replaces the current ones")
	return command
}

func newDecksDeleteCommand() *cobra.Command {
	var yes bool

	command := &cobra.Command{
		Use:   "delete <deck>",
		Short: "Delete a deck with all its cards",
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

			if !yes {
				ok, err := newPrompter(cmd).confirm(fmt.Sprintf("Delete deck #%d?", deckID))
				if err != nil {
					return err
				}
				if !ok {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := a.client.DeleteDeck(cmd.Context(), deckID); err != nil {
				return fmt.Errorf("client.DeleteDeck(%d) > %w", deckID, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted deck #%d\n", deckID)
			return nil
		},
	}
	command.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return command
}

func newDecksStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <deck>",
		Short: "Show the statistics the backend keeps for a deck",
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

			stats, err := a.client.DeckStats(cmd.Context(), deckID)
			if err != nil {
				return fmt.Errorf("client.DeckStats(%d) > %w", deckID, err)
			}

			var buf bytes.Buffer
			if err := json.Indent(&buf, stats, "", "  "); err != nil {
				// not JSON, show it as it came
				buf.Reset()
				buf.Write(stats)
			}
			buf.WriteByte('\n')
			_, err = buf.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
}

func newDecksImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yml>",
		Short: "Create a deck with its cards from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := deckfile.Read(args[0])
			if err != nil {
				return fmt.Errorf("deckfile.Read() > %w", err)
			}
			a, err := newLoggedInApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			validator, err := newFormValidator()
			if err != nil {
				return err
			}
			deck, cards, err := deckfile.NewImporter(a.client, validator).Import(cmd.Context(), file)
			if err != nil {
				if deck.ID != 0 {
					return fmt.Errorf("deck #%d was created with %d of %d cards: %w", deck.ID, len(cards), len(file.Cards), err)
				}
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported deck #%d %s with %d cards\n", deck.ID, deck.Title, len(cards))
			return nil
		},
	}
}

func newDecksExportCommand() *cobra.Command {
	var (
		format FormatFlag = FormatYAML
		toPDF  bool
	)

	command := &cobra.Command{
		Use:   "export <deck>",
		Short: "Write a deck to a YAML or Markdown file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deckID, err := parseID("deck", args[0])
			if err != nil {
				return err
			}
			if toPDF && format != FormatMarkdown {
				return fmt.Errorf("--pdf needs --format %s", FormatMarkdown)
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

			path := filepath.Join(a.cfg.Outputs.DeckDirectory, fmt.Sprintf("deck-%d%s", deck.ID, format.extension()))
			markdown, err := exportDeck(deck, format, path, a.cfg.Templates.DeckTemplate)
			if err != nil {
				return err
			}
			output := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(output, "Exported deck #%d to %s\n", deck.ID, path)

			if toPDF {
				pdfPath, err := pdf.Render(markdown, pdf.PathFor(path))
				if err != nil {
					return fmt.Errorf("pdf.Render(%s) > %w", pdf.PathFor(path), err)
				}
				_, _ = fmt.Fprintf(output, "PDF written to %s\n", pdfPath)
			}
			return nil
		},
	}

	flags := command.Flags()
	flags.Var(&format, "format", fmt.Sprintf("output format. Possible values are %v", allFormats))
	flags.BoolVar(&toPDF, "pdf", false, "also convert the Markdown file to PDF")
	return command
}

// exportDeck writes deck to path and returns the Markdown it rendered, if any.
func exportDeck(deck api.DeckDetailed, format FormatFlag, path, templatePath string) ([]byte, error) {
	if format == FormatYAML {
		if err := deckfile.Write(path, deckfile.FromDeck(deck)); err != nil {
			return nil, fmt.Errorf("deckfile.Write() > %w", err)
		}
		return nil, nil
	}

	var buf bytes.Buffer
	if err := assets.WriteDeck(&buf, templatePath, assets.NewDeckTemplate(deck)); err != nil {
		return nil, fmt.Errorf("assets.WriteDeck() > %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return buf.Bytes(), nil
}
