// Package deckfile reads and writes decks as YAML files.
package deckfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/forms"
	"gopkg.in/yaml.v3"
)

type File struct {
	forms.DeckForm `yaml:",inline"`
	Cards          []forms.CardForm `yaml:"cards"`
}

func FromDeck(deck api.DeckDetailed) File {
	file := File{
		DeckForm: forms.DeckForm{
			Title:       deck.Title,
			Description: deck.DescriptionText(),
		},
	}
	for _, category := range deck.Categories {
		file.Categories = append(file.Categories, category.Slug)
	}
	for _, tag := range deck.Tags {
		file.Tags = append(file.Tags, tag.Slug)
	}
	for _, card := range deck.Cards {
		cardForm := forms.CardForm{
			FrontText: card.FrontText,
			BackText:  card.BackText,
		}
		if card.FrontImageURL != nil {
			cardForm.FrontImage = *card.FrontImageURL
		}
		if card.BackImageURL != nil {
			cardForm.BackImage = *card.BackImageURL
		}
		file.Cards = append(file.Cards, cardForm)
	}
	return file
}

func Read(path string) (File, error) {
	var file File
	if err := readYAML(path, &file); err != nil {
		return File{}, err
	}
	return file, nil
}

// ReadBulk reads the card changes for a bulk update.
func ReadBulk(path string) ([]api.CardBulkItem, error) {
	var items []api.CardBulkItem
	if err := readYAML(path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func Write(path string, file File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(file); err != nil {
		return fmt.Errorf("encoder.Encode() > %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encoder.Close() > %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}

func readYAML(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s is empty", path)
		}
		return fmt.Errorf("decoder.Decode(%s) > %w", path, err)
	}
	return nil
}
