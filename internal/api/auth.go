package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Kbnch7/quizlet/internal/auth"
	"resty.dev/v3"
)

var errNoAccessToken = errors.New("the response has no access token")

// Login signs in with a username or an email and stores the returned tokens.
func (client *Client) Login(ctx context.Context, login, password string) (auth.Authorization, error) {
	body := LoginRequest{Password: password}
	if strings.Contains(login, "@") {
		body.Email = login
	} else {
		body.Username = login
	}
	return client.obtainTokens(ctx, "/login/", body)
}

func (client *Client) Register(ctx context.Context, body RegisterRequest) (auth.Authorization, error) {
	return client.obtainTokens(ctx, "/register/", body)
}

func (client *Client) obtainTokens(ctx context.Context, path string, body any) (auth.Authorization, error) {
	var tokens tokenResponse
	response, err := client.execute(ctx, request{
		method:    http.MethodPost,
		path:      path,
		body:      body,
		result:    &tokens,
		anonymous: true,
	})
	if err != nil {
		return auth.Authorization{}, err
	}

	authorization := auth.Authorization{
		AccessToken:  tokens.access(),
		RefreshToken: firstNonEmpty(tokens.refresh(), refreshCookie(response)),
	}
	if authorization.AccessToken == "" {
		return auth.Authorization{}, fmt.Errorf("POST %s > %w", path, errNoAccessToken)
	}
	if client.tokens != nil {
		if err := client.tokens.Save(authorization); err != nil {
			return auth.Authorization{}, fmt.Errorf("tokens.Save() > %w", err)
		}
	}
	return authorization, nil
}

// Logout tells the backend to drop the session. Clearing the local tokens is the caller's job.
func (client *Client) Logout(ctx context.Context) error {
	_, err := client.execute(ctx, request{
		method: http.MethodPost,
		path:   "/logout/",
	})
	return err
}

// Refresh exchanges the stored refresh token for a new access token and stores it.
func (client *Client) Refresh(ctx context.Context) (auth.Authorization, error) {
	if client.tokens == nil {
		return auth.Authorization{}, auth.ErrNotLoggedIn
	}
	current, err := client.tokens.Load()
	if err != nil {
		return auth.Authorization{}, fmt.Errorf("tokens.Load() > %w", err)
	}
	if current.RefreshToken == "" {
		return auth.Authorization{}, auth.ErrNotLoggedIn
	}
	return client.refresh(ctx, current)
}

func (client *Client) refresh(ctx context.Context, current auth.Authorization) (auth.Authorization, error) {
	client.refreshMu.Lock()
	defer client.refreshMu.Unlock()

	// Another caller may have refreshed while this one waited.
	if client.tokens != nil {
		if latest, err := client.tokens.Load(); err == nil && latest.AccessToken != current.AccessToken && latest.IsLoggedIn() {
			return latest, nil
		}
	}

	var tokens tokenResponse
	response, err := client.send(ctx, request{
		method:  http.MethodPost,
		path:    "/refresh/",
		body:    refreshRequest{RefreshToken: current.RefreshToken},
		result:  &tokens,
		cookies: []*http.Cookie{{Name: refreshTokenCookie, Value: current.RefreshToken}},
	}, "")
	if err != nil {
		return auth.Authorization{}, err
	}

	refreshed := auth.Authorization{
		AccessToken:  tokens.access(),
		RefreshToken: firstNonEmpty(tokens.refresh(), refreshCookie(response), current.RefreshToken),
	}
	if refreshed.AccessToken == "" {
		return auth.Authorization{}, fmt.Errorf("POST /refresh/ > %w", errNoAccessToken)
	}
	if client.tokens != nil {
		if err := client.tokens.Save(refreshed); err != nil {
			return auth.Authorization{}, fmt.Errorf("tokens.Save() > %w", err)
		}
	}
	return refreshed, nil
}

func (client *Client) Me(ctx context.Context) (User, error) {
	var user User
	if _, err := client.execute(ctx, request{
		method: http.MethodGet,
		path:   "/users/me",
		result: &user,
	}); err != nil {
		return User{}, err
	}
	return user, nil
}

func refreshCookie(response *resty.Response) string {
	if response == nil {
		return ""
	}
	for _, cookie := range response.Cookies() {
		if cookie.Name == refreshTokenCookie {
			return cookie.Value
		}
	}
	return ""
}
