package assets

import (
	"fmt"
	"io"

	"github.com/Kbnch7/quizlet/internal/api"
)

// DeckTemplate is the data a deck template is rendered with
type DeckTemplate struct {
	Title       string
	Description string
	Categories  []string
	Tags        []string
	Cards       []DeckCard
}

type DeckCard struct {
	Front      string
	Back       string
	FrontImage string
	BackImage  string
}

func NewDeckTemplate(deck api.DeckDetailed) DeckTemplate {
	data := DeckTemplate{
		Title:       deck.Title,
		Description: deck.DescriptionText(),
	}
	for _, category := range deck.Categories {
		data.Categories = append(data.Categories, category.Name)
	}
	for _, tag := range deck.Tags {
		data.Tags = append(data.Tags, tag.Name)
	}
	for _, card := range deck.Cards {
		data.Cards = append(data.Cards, DeckCard{
			Front:      card.FrontText,
			Back:       card.BackText,
			FrontImage: deref(card.FrontImageURL),
			BackImage:  deref(card.BackImageURL),
		})
	}
	return data
}

func WriteDeck(output io.Writer, templatePath string, templateData DeckTemplate) error {
	tmpl, err := ParseDeckTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseDeckTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
