package api

import (
	"context"
	"net/http"
	"strconv"
)

func (client *Client) StartSession(ctx context.Context, deckID int) (LearnSessionCreateResponse, error) {
	var created LearnSessionCreateResponse
	if _, err := client.execute(ctx, request{
		method:     http.MethodPost,
		path:       "/learn/deck/{deckID}/sessions",
		pathParams: deckPath(deckID),
		result:     &created,
	}); err != nil {
		return LearnSessionCreateResponse{}, err
	}
	return created, nil
}

func (client *Client) GetSession(ctx context.Context, sessionID int) (LearnSession, error) {
	var session LearnSession
	if _, err := client.execute(ctx, request{
		method:     http.MethodGet,
		path:       "/learn/sessions/{sessionID}",
		pathParams: sessionPath(sessionID),
		result:     &session,
	}); err != nil {
		return LearnSession{}, err
	}
	return session, nil
}

func (client *Client) NextCard(ctx context.Context, sessionID int) (LearnBatchResponse, error) {
	var next LearnBatchResponse
	if _, err := client.execute(ctx, request{
		method:     http.MethodGet,
		path:       "/learn/sessions/{sessionID}/next",
		pathParams: sessionPath(sessionID),
		result:     &next,
	}); err != nil {
		return LearnBatchResponse{}, err
	}
	return next, nil
}

func (client *Client) SubmitAnswer(ctx context.Context, sessionID, cardID int, answer LearnAnswer) (LearnProgressResponse, error) {
	params := sessionPath(sessionID)
	params["cardID"] = strconv.Itoa(cardID)

	var progress LearnProgressResponse
	if _, err := client.execute(ctx, request{
		method:     http.MethodPost,
		path:       "/learn/sessions/{sessionID}/cards/{cardID}/answer",
		pathParams: params,
		body:       answer,
		result:     &progress,
	}); err != nil {
		return LearnProgressResponse{}, err
	}
	return progress, nil
}

func (client *Client) Progress(ctx context.Context, sessionID int) (LearnProgressResponse, error) {
	var progress LearnProgressResponse
	if _, err := client.execute(ctx, request{
		method:     http.MethodGet,
		path:       "/learn/sessions/{sessionID}/progress",
		pathParams: sessionPath(sessionID),
		result:     &progress,
	}); err != nil {
		return LearnProgressResponse{}, err
	}
	return progress, nil
}

func (client *Client) FinishSession(ctx context.Context, sessionID int) (LearnProgressResponse, error) {
	var progress LearnProgressResponse
	if _, err := client.execute(ctx, request{
		method:     http.MethodPost,
		path:       "/learn/sessions/{sessionID}/finish",
		pathParams: sessionPath(sessionID),
		result:     &progress,
	}); err != nil {
		return LearnProgressResponse{}, err
	}
	return progress, nil
}

func sessionPath(sessionID int) map[string]string {
	return map[string]string{"sessionID": strconv.Itoa(sessionID)}
}
