// Package api is the REST client for the Ruzlet backend.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"

	"github.com/Kbnch7/quizlet/internal/auth"
	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"resty.dev/v3"
)

const (
	refreshTokenCookie = "refresh_token"
	requestIDHeader    = "X-Request-ID"
)

//go:generate mockgen -source=client.go -destination=../mocks/api/mock_token_store.go -package=mock_api TokenStore

// TokenStore is where the client reads and refreshes the bearer token.
type TokenStore interface {
	Load() (auth.Authorization, error)
	Save(auth.Authorization) error
}

type Client struct {
	httpClient       *resty.Client
	tokens           TokenStore
	maxRetryAttempts uint
	retryDelay       time.Duration
	refreshSkew      time.Duration
	now              func() time.Time

	refreshMu sync.Mutex
}

func NewClient(baseURL string, timeout time.Duration, retryAttempts uint, tokens TokenStore) *Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetCookieJar(jar)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.AddResponseMiddleware(logResponse)

	return &Client{
		httpClient:       client,
		tokens:           tokens,
		maxRetryAttempts: retryAttempts,
		retryDelay:       200 * time.Millisecond,
		refreshSkew:      30 * time.Second,
		now:              time.Now,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

type request struct {
	method      string
	path        string
	pathParams  map[string]string
	queryParams map[string]string
	body        any
	result      any
	cookies     []*http.Cookie
	// anonymous requests carry no bearer token and never trigger a refresh
	anonymous bool
}

// execute sends the request. GETs are retried on network errors, 429 and 5xx;
// other methods are sent exactly once.
func (client *Client) execute(ctx context.Context, req request) (*resty.Response, error) {
	if req.method != http.MethodGet {
		return client.executeWithRefresh(ctx, req)
	}

	var response *resty.Response
	err := retry.Do(
		func() error {
			var err error
			response, err = client.executeWithRefresh(ctx, req)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.Delay(client.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryableError),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("Retrying API call",
				"attempt", n+1,
				"path", req.path,
				"error", err)
		}),
	)
	return response, err
}

func (client *Client) executeWithRefresh(ctx context.Context, req request) (*resty.Response, error) {
	authorization, err := client.authorization(ctx, req)
	if err != nil {
		return nil, err
	}

	response, err := client.send(ctx, req, authorization.AccessToken)
	if req.anonymous || !IsUnauthorized(err) || authorization.RefreshToken == "" {
		return response, err
	}

	refreshed, refreshErr := client.refresh(ctx, authorization)
	if refreshErr != nil {
		slog.Default().Debug("failed to refresh the access token",
			"path", req.path,
			"error", refreshErr)
		return response, err
	}
	return client.send(ctx, req, refreshed.AccessToken)
}

// authorization loads the stored tokens and refreshes ahead of time when the access token is known to be expired.
func (client *Client) authorization(ctx context.Context, req request) (auth.Authorization, error) {
	if req.anonymous || client.tokens == nil {
		return auth.Authorization{}, nil
	}
	authorization, err := client.tokens.Load()
	if err != nil {
		return auth.Authorization{}, fmt.Errorf("tokens.Load() > %w", err)
	}
	if authorization.RefreshToken == "" || !authorization.Expired(client.now(), client.refreshSkew) {
		return authorization, nil
	}

	refreshed, err := client.refresh(ctx, authorization)
	if err != nil {
		slog.Default().Debug("failed to refresh an expired access token", "error", err)
		return authorization, nil
	}
	return refreshed, nil
}

func (client *Client) send(ctx context.Context, req request, accessToken string) (*resty.Response, error) {
	r := client.httpClient.R().
		SetContext(ctx).
		SetHeader(requestIDHeader, uuid.NewString()).
		SetError(&errorResponse{})
	if accessToken != "" {
		r.SetAuthToken(accessToken)
	}
	if len(req.pathParams) > 0 {
		r.SetPathParams(req.pathParams)
	}
	if len(req.queryParams) > 0 {
		r.SetQueryParams(req.queryParams)
	}
	if req.body != nil && req.method != http.MethodGet {
		r.SetBody(req.body)
	}
	if req.result != nil {
		r.SetResult(req.result)
	}
	for _, cookie := range req.cookies {
		r.SetCookie(cookie)
	}

	response, err := r.Execute(req.method, req.path)
	if response != nil && response.IsError() {
		return response, newAPIError(response)
	}
	if err != nil {
		// an empty JSON body on success decodes to io.EOF
		if response != nil && response.IsSuccess() && errors.Is(err, io.EOF) {
			return response, nil
		}
		return response, fmt.Errorf("%s %s > %w", req.method, req.path, err)
	}
	return response, nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func logResponse(_ *resty.Client, response *resty.Response) error {
	if response.Request == nil {
		return nil
	}
	slog.Default().Debug("API response",
		slog.String("method", response.Request.Method),
		slog.String("url", response.Request.URL),
		slog.Int("status", response.StatusCode()),
		slog.Duration("duration", response.Duration()),
		slog.String("requestID", response.Request.Header.Get(requestIDHeader)),
	)
	return nil
}
