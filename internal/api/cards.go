package api

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
)

func (client *Client) CreateCard(ctx context.Context, deckID int, body CardCreate) (Card, error) {
	var card Card
	if _, err := client.execute(ctx, request{
		method:     http.MethodPost,
		path:       "/deck/{deckID}/cards",
		pathParams: deckPath(deckID),
		body:       body,
		result:     &card,
	}); err != nil {
		return Card{}, err
	}
	return card, nil
}

func (client *Client) UpdateCard(ctx context.Context, deckID, cardID int, body CardUpdate) (Card, error) {
	var card Card
	if _, err := client.execute(ctx, request{
		method:     http.MethodPatch,
		path:       "/deck/{deckID}/cards/{cardID}",
		pathParams: cardPath(deckID, cardID),
		body:       body,
		result:     &card,
	}); err != nil {
		return Card{}, err
	}
	return card, nil
}

func (client *Client) DeleteCard(ctx context.Context, deckID, cardID int) error {
	_, err := client.execute(ctx, request{
		method:     http.MethodDelete,
		path:       "/deck/{deckID}/cards/{cardID}",
		pathParams: cardPath(deckID, cardID),
	})
	return err
}

// BulkUpdateCards creates, updates and deletes cards of a deck in one call.
// The endpoint lives under /decks/, not /deck/.
func (client *Client) BulkUpdateCards(ctx context.Context, deckID int, items []CardBulkItem) ([]Card, error) {
	var cards []Card
	if _, err := client.execute(ctx, request{
		method:     http.MethodPatch,
		path:       "/decks/{deckID}/cards",
		pathParams: deckPath(deckID),
		body:       items,
		result:     &cards,
	}); err != nil {
		return nil, err
	}
	return cards, nil
}

func (client *Client) PresignUpload(ctx context.Context, filename string) (PresignUploadResponse, error) {
	var presigned PresignUploadResponse
	if _, err := client.execute(ctx, request{
		method: http.MethodPost,
		path:   "/deck/uploads/presign",
		body:   PresignUploadRequest{Filename: filename},
		result: &presigned,
	}); err != nil {
		return PresignUploadResponse{}, err
	}
	return presigned, nil
}

// UploadObject PUTs data to a presigned URL. The URL already carries its own credentials.
func (client *Client) UploadObject(ctx context.Context, putURL, contentType string, data []byte) error {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put(putURL)
	if err != nil {
		return fmt.Errorf("PUT presigned url > %w", err)
	}
	if response.IsError() {
		return &APIError{
			StatusCode: response.StatusCode(),
			Message:    fmt.Sprintf("HTTP error! status: %d", response.StatusCode()),
		}
	}
	return nil
}

// UploadImage uploads a local image file and returns the URL to store on a card.
func (client *Client) UploadImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}

	presigned, err := client.PresignUpload(ctx, filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("PresignUpload(%s) > %w", filepath.Base(path), err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if err := client.UploadObject(ctx, presigned.PutURL, contentType, data); err != nil {
		return "", fmt.Errorf("UploadObject(%s) > %w", presigned.ObjectKey, err)
	}
	return presigned.GetURL, nil
}

func cardPath(deckID, cardID int) map[string]string {
	return map[string]string{
		"deckID": strconv.Itoa(deckID),
		"cardID": strconv.Itoa(cardID),
	}
}
