package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

func (client *Client) ListDecks(ctx context.Context, params DeckListParams) ([]Deck, error) {
	query := map[string]string{}
	setInt(query, "author", params.Author)
	setString(query, "category", params.Category)
	setString(query, "tag", params.Tag)
	setBool(query, "my_teachers", params.MyTeachers)
	setInt(query, "cursor", params.Cursor)
	setInt(query, "limit", params.Limit)

	var decks []Deck
	if _, err := client.execute(ctx, request{
		method:      http.MethodGet,
		path:        "/deck/",
		queryParams: query,
		result:      &decks,
	}); err != nil {
		return nil, err
	}
	return decks, nil
}

func (client *Client) GetDeck(ctx context.Context, deckID int) (DeckDetailed, error) {
	var deck DeckDetailed
	if _, err := client.execute(ctx, request{
		method:     http.MethodGet,
		path:       "/deck/{deckID}/",
		pathParams: deckPath(deckID),
		result:     &deck,
	}); err != nil {
		return DeckDetailed{}, err
	}
	return deck, nil
}

func (client *Client) CreateDeck(ctx context.Context, body DeckCreate) (Deck, error) {
	var deck Deck
	if _, err := client.execute(ctx, request{
		method: http.MethodPost,
		path:   "/deck/",
		body:   body,
		result: &deck,
	}); err != nil {
		return Deck{}, err
	}
	return deck, nil
}

func (client *Client) UpdateDeck(ctx context.Context, deckID int, body DeckUpdate) (Deck, error) {
	var deck Deck
	if _, err := client.execute(ctx, request{
		method:     http.MethodPatch,
		path:       "/deck/{deckID}/",
		pathParams: deckPath(deckID),
		body:       body,
		result:     &deck,
	}); err != nil {
		return Deck{}, err
	}
	return deck, nil
}

func (client *Client) DeleteDeck(ctx context.Context, deckID int) error {
	_, err := client.execute(ctx, request{
		method:     http.MethodDelete,
		path:       "/deck/{deckID}/",
		pathParams: deckPath(deckID),
	})
	return err
}

// DeckStats returns the backend's statistics payload as is; its shape is not fixed.
func (client *Client) DeckStats(ctx context.Context, deckID int) (json.RawMessage, error) {
	var stats json.RawMessage
	if _, err := client.execute(ctx, request{
		method:     http.MethodGet,
		path:       "/deck/{deckID}/stats/",
		pathParams: deckPath(deckID),
		result:     &stats,
	}); err != nil {
		return nil, err
	}
	return stats, nil
}

func (client *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if _, err := client.execute(ctx, request{
		method: http.MethodGet,
		path:   "/categories/",
		result: &categories,
	}); err != nil {
		return nil, err
	}
	return categories, nil
}

func deckPath(deckID int) map[string]string {
	return map[string]string{"deckID": strconv.Itoa(deckID)}
}

func setInt(query map[string]string, key string, value *int) {
	if value != nil {
		query[key] = strconv.Itoa(*value)
	}
}

func setString(query map[string]string, key string, value *string) {
	if value != nil {
		query[key] = *value
	}
}

func setBool(query map[string]string, key string, value *bool) {
	if value != nil {
		query[key] = strconv.FormatBool(*value)
	}
}
