// Package testutil provides shared test helpers for creating config files and authorization fixtures.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ConfigOption configures optional fields when creating a config file.
type ConfigOption func(*testConfig)

type testConfig struct {
	retryAttempts uint
	deckTemplate  string
}

// WithRetryAttempts sets how many times GET requests are retried.
func WithRetryAttempts(attempts uint) ConfigOption {
	return func(cfg *testConfig) {
		cfg.retryAttempts = attempts
	}
}

// WithDeckTemplate sets the Markdown template used for deck exports.
func WithDeckTemplate(path string) ConfigOption {
	return func(cfg *testConfig) {
		cfg.deckTemplate = path
	}
}

// SetupTestConfig creates a config file pointing at baseURL, with the token file and
// the export directory kept under tmpDir. GET requests are not retried and the learn
// mode moves to the next card without delay unless configured otherwise.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string, baseURL string, opts ...ConfigOption) string {
	t.Helper()

	cfg := testConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	decksDir := filepath.Join(tmpDir, "decks")
	require.NoError(t, os.MkdirAll(decksDir, 0755))

	configContent := fmt.Sprintf(`api:
  base_url: %s
  timeout_seconds: 5
  retry_attempts: %d
auth:
  token_file: %s
learn:
  next_card_delay_ms: 0
outputs:
  deck_directory: %s
`,
		baseURL,
		cfg.retryAttempts,
		TokenFile(tmpDir),
		decksDir,
	)
	if cfg.deckTemplate != "" {
		configContent += fmt.Sprintf("templates:\n  deck_template: %s\n", cfg.deckTemplate)
	}

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// TokenFile is where SetupTestConfig keeps the authorization.
func TokenFile(tmpDir string) string {
	return filepath.Join(tmpDir, "authorization.json")
}

// WriteAuthorization stores tokens the way a successful login does.
func WriteAuthorization(t *testing.T, tmpDir, accessToken, refreshToken string) {
	t.Helper()

	content, err := json.Marshal(map[string]string{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(TokenFile(tmpDir), content, 0600))
}
