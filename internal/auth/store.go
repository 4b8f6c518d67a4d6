// Package auth keeps the user's tokens between invocations.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrNotLoggedIn = errors.New("not logged in, run `ruzlet auth login`")

type Authorization struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

func (a Authorization) IsLoggedIn() bool {
	return a.AccessToken != ""
}

// Store persists the Authorization as a JSON file readable only by the owner.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the stored authorization. A missing file means logged out.
func (s *Store) Load() (Authorization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var a Authorization
	if err := readJSON(s.path, &a); err != nil {
		return Authorization{}, fmt.Errorf("readJSON(%s) > %w", s.path, err)
	}
	return a, nil
}

// Require is Load that fails with ErrNotLoggedIn when there is no access token.
func (s *Store) Require() (Authorization, error) {
	a, err := s.Load()
	if err != nil {
		return Authorization{}, err
	}
	if !a.IsLoggedIn() {
		return Authorization{}, ErrNotLoggedIn
	}
	return a, nil
}

func (s *Store) Save(a Authorization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(s.path), err)
	}
	if err := writeJSON(s.path, a, 0o600); err != nil {
		return fmt.Errorf("writeJSON(%s) > %w", s.path, err)
	}
	return nil
}

// Clear forgets the stored tokens; clearing twice is fine.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("os.Remove(%s) > %w", s.path, err)
	}
	return nil
}

func readJSON(path string, out any) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// writeJSON writes through a temp file so a crash never leaves half a token file.
func writeJSON(path string, v any, mode os.FileMode) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, mode); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
