package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCategoriesCommand() *cobra.Command {
	categoriesCommand := &cobra.Command{
		Use:   "categories",
		Short: "Deck categories",
	}

	categoriesCommand.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the categories decks can be filed under",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer func() {
				_ = a.Close()
			}()

			categories, err := a.client.ListCategories(cmd.Context())
			if err != nil {
				return fmt.Errorf("client.ListCategories() > %w", err)
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(writer, "ID\tSLUG\tNAME")
			for _, category := range categories {
				_, _ = fmt.Fprintf(writer, "%d\t%s\t%s\n", category.ID, category.Slug, category.Name)
			}
			return writer.Flush()
		},
	})
	return categoriesCommand
}
