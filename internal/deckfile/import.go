package deckfile

import (
	"context"
	"fmt"
	"strings"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/forms"
)

type Client interface {
	CreateDeck(ctx context.Context, body api.DeckCreate) (api.Deck, error)
	CreateCard(ctx context.Context, deckID int, body api.CardCreate) (api.Card, error)
	UploadImage(ctx context.Context, path string) (string, error)
}

type Importer struct {
	client    Client
	validator *forms.Validator
}

func NewImporter(client Client, validator *forms.Validator) *Importer {
	return &Importer{
		client:    client,
		validator: validator,
	}
}

// Import validates the whole file first, then creates the deck and its cards in file order.
func (importer *Importer) Import(ctx context.Context, file File) (api.Deck, []api.Card, error) {
	if err := importer.validator.Validate(file.DeckForm); err != nil {
		return api.Deck{}, nil, err
	}
	for i, card := range file.Cards {
		if err := importer.validator.Validate(card); err != nil {
			return api.Deck{}, nil, fmt.Errorf("card %d: %w", i+1, err)
		}
	}

	deck, err := importer.client.CreateDeck(ctx, file.Create())
	if err != nil {
		return api.Deck{}, nil, fmt.Errorf("CreateDeck(%s) > %w", file.Title, err)
	}

	cards := make([]api.Card, 0, len(file.Cards))
	for i, cardForm := range file.Cards {
		body, err := NewCardCreate(ctx, importer.client, cardForm, i)
		if err != nil {
			return deck, cards, fmt.Errorf("card %d: %w", i+1, err)
		}
		card, err := importer.client.CreateCard(ctx, deck.ID, body)
		if err != nil {
			return deck, cards, fmt.Errorf("CreateCard(%d, %d) > %w", deck.ID, i+1, err)
		}
		cards = append(cards, card)
	}
	return deck, cards, nil
}

type ImageUploader interface {
	UploadImage(ctx context.Context, path string) (string, error)
}

// NewCardCreate turns a card form into a request, uploading images given as local paths.
func NewCardCreate(ctx context.Context, uploader ImageUploader, form forms.CardForm, orderIndex int) (api.CardCreate, error) {
	frontImage, err := ResolveImage(ctx, uploader, form.FrontImage)
	if err != nil {
		return api.CardCreate{}, err
	}
	backImage, err := ResolveImage(ctx, uploader, form.BackImage)
	if err != nil {
		return api.CardCreate{}, err
	}
	return api.CardCreate{
		FrontText:     strings.TrimSpace(form.FrontText),
		BackText:      strings.TrimSpace(form.BackText),
		FrontImageURL: frontImage,
		BackImageURL:  backImage,
		OrderIndex:    &orderIndex,
	}, nil
}

// ResolveImage keeps URLs as they are and uploads anything else as a local file.
func ResolveImage(ctx context.Context, uploader ImageUploader, value string) (*string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return &value, nil
	}
	url, err := uploader.UploadImage(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("UploadImage(%s) > %w", value, err)
	}
	return &url, nil
}
