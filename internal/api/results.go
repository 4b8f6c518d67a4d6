package api

import (
	"context"
	"net/http"
)

func (client *Client) CreateResult(ctx context.Context, deckID int, body TestResultCreate) (TestResult, error) {
	var result TestResult
	if _, err := client.execute(ctx, request{
		method:     http.MethodPost,
		path:       "/deck/{deckID}/results",
		pathParams: deckPath(deckID),
		body:       body,
		result:     &result,
	}); err != nil {
		return TestResult{}, err
	}
	return result, nil
}

func (client *Client) ListResults(ctx context.Context, deckID int, params ResultListParams) ([]TestResult, error) {
	query := map[string]string{}
	setInt(query, "cursor", params.Cursor)
	setInt(query, "limit", params.Limit)
	setInt(query, "user_id", params.UserID)

	var results []TestResult
	if _, err := client.execute(ctx, request{
		method:      http.MethodGet,
		path:        "/deck/{deckID}/results",
		pathParams:  deckPath(deckID),
		queryParams: query,
		result:      &results,
	}); err != nil {
		return nil, err
	}
	return results, nil
}
