package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/Kbnch7/quizlet/internal/api"
	"github.com/Kbnch7/quizlet/internal/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// setConfigFile sets the global configFile variable and registers a cleanup to restore it.
func setConfigFile(t *testing.T, cfgPath string) {
	t.Helper()
	oldConfigFile := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = oldConfigFile })
}

// setupBrokenConfigFile creates a config file with invalid YAML that causes Load() to fail.
func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}

// fakeBackend keeps decks and results in memory and answers like the Ruzlet backend.
type fakeBackend struct {
	t        *testing.T
	url      string
	mu       sync.Mutex
	decks    map[int]*api.DeckDetailed
	nextID   int
	results  []api.TestResultCreate
	uploads  map[string][]byte
	learned  int
	requests []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	description := "Everyday words"
	decks := map[int]*api.DeckDetailed{
		3: {
			Deck: api.Deck{
				ID: 3, OwnerID: 7, Title: "Spanish basics", Description: &description, CardsAmount: 2,
				Categories: []api.Category{{ID: 1, Name: "Languages", Slug: "languages"}},
			},
			Cards: []api.Card{
				{ID: 11, DeckID: 3, FrontText: "hola", BackText: "hello"},
				{ID: 12, DeckID: 3, FrontText: "sol", BackText: "sun"},
			},
		},
		4: {
			Deck: api.Deck{ID: 4, OwnerID: 8, Title: "Astronomy", CardsAmount: 0},
		},
	}
	return &fakeBackend{
		t:       t,
		decks:   decks,
		nextID:  100,
		uploads: map[string][]byte{},
	}
}

// setup starts the backend and points a test config at it, storing tokens when loggedIn.
func (b *fakeBackend) setup(loggedIn bool) string {
	b.t.Helper()
	server := httptest.NewServer(b.handler())
	b.t.Cleanup(server.Close)
	b.url = server.URL

	tmpDir := b.t.TempDir()
	setConfigFile(b.t, testutil.SetupTestConfig(b.t, tmpDir, server.URL))
	if loggedIn {
		testutil.WriteAuthorization(b.t, tmpDir, "access-token", "refresh-token")
	}
	return tmpDir
}

func (b *fakeBackend) requested(request string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.requests {
		if r == request {
			return true
		}
	}
	return false
}

func (b *fakeBackend) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(b.t, json.NewEncoder(w).Encode(body))
}

func (b *fakeBackend) deck(w http.ResponseWriter, r *http.Request) (*api.DeckDetailed, bool) {
	id, _ := strconv.Atoi(r.PathValue("deck"))
	deck, ok := b.decks[id]
	if !ok {
		b.writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Deck not found"})
	}
	return deck, ok
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	tokens := map[string]string{"access": "access-token", "refresh": "refresh-token"}

	mux.HandleFunc("POST /login/", func(w http.ResponseWriter, r *http.Request) {
		b.writeJSON(w, http.StatusOK, tokens)
	})
	mux.HandleFunc("POST /register/", func(w http.ResponseWriter, r *http.Request) {
		b.writeJSON(w, http.StatusCreated, tokens)
	})
	mux.HandleFunc("POST /logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /refresh/", func(w http.ResponseWriter, r *http.Request) {
		b.writeJSON(w, http.StatusOK, map[string]string{"access": "new-access-token"})
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			b.writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
			return
		}
		b.writeJSON(w, http.StatusOK, api.User{ID: 7, Username: "alice", Email: "alice@example.com"})
	})
	mux.HandleFunc("GET /categories/{$}", func(w http.ResponseWriter, r *http.Request) {
		b.writeJSON(w, http.StatusOK, []api.Category{{ID: 1, Name: "Languages", Slug: "languages"}})
	})
	mux.HandleFunc("GET /deck/{$}", func(w http.ResponseWriter, r *http.Request) {
		var decks []api.Deck
		for _, id := range []int{3, 4} {
			if deck, ok := b.decks[id]; ok {
				decks = append(decks, deck.Deck)
			}
		}
		b.writeJSON(w, http.StatusOK, decks)
	})
	mux.HandleFunc("POST /deck/{$}", func(w http.ResponseWriter, r *http.Request) {
		var body api.DeckCreate
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))
		b.nextID++
		deck := &api.DeckDetailed{Deck: api.Deck{ID: b.nextID, Title: body.Title, Description: body.Description}}
		b.decks[deck.ID] = deck
		b.writeJSON(w, http.StatusCreated, deck.Deck)
	})
	mux.HandleFunc("GET /deck/{deck}/{$}", func(w http.ResponseWriter, r *http.Request) {
		if deck, ok := b.deck(w, r); ok {
			b.writeJSON(w, http.StatusOK, deck)
		}
	})
	mux.HandleFunc("PATCH /deck/{deck}/{$}", func(w http.ResponseWriter, r *http.Request) {
		deck, ok := b.deck(w, r)
		if !ok {
			return
		}
		var body api.DeckUpdate
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))
		if body.Title != nil {
			deck.Title = *body.Title
		}
		if body.Description != nil {
			deck.Description = body.Description
		}
		b.writeJSON(w, http.StatusOK, deck.Deck)
	})
	mux.HandleFunc("DELETE /deck/{deck}/{$}", func(w http.ResponseWriter, r *http.Request) {
		if deck, ok := b.deck(w, r); ok {
			delete(b.decks, deck.ID)
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("GET /deck/{deck}/stats/{$}", func(w http.ResponseWriter, r *http.Request) {
		if deck, ok := b.deck(w, r); ok {
			b.writeJSON(w, http.StatusOK, map[string]int{"cards": len(deck.Cards), "learners": 5})
		}
	})
	mux.HandleFunc("POST /deck/{deck}/cards", func(w http.ResponseWriter, r *http.Request) {
		deck, ok := b.deck(w, r)
		if !ok {
			return
		}
		var body api.CardCreate
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))
		b.nextID++
		card := api.Card{
			ID: b.nextID, DeckID: deck.ID, FrontText: body.FrontText, BackText: body.BackText,
			FrontImageURL: body.FrontImageURL, BackImageURL: body.BackImageURL, OrderIndex: body.OrderIndex,
		}
		deck.Cards = append(deck.Cards, card)
		b.writeJSON(w, http.StatusCreated, card)
	})
	mux.HandleFunc("PATCH /deck/{deck}/cards/{card}", func(w http.ResponseWriter, r *http.Request) {
		deck, ok := b.deck(w, r)
		if !ok {
			return
		}
		id, _ := strconv.Atoi(r.PathValue("card"))
		var body api.CardUpdate
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))
		for i := range deck.Cards {
			if deck.Cards[i].ID != id {
				continue
			}
			if body.FrontText != nil {
				deck.Cards[i].FrontText = *body.FrontText
			}
			if body.BackText != nil {
				deck.Cards[i].BackText = *body.BackText
			}
			b.writeJSON(w, http.StatusOK, deck.Cards[i])
			return
		}
		b.writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Card not found"})
	})
	mux.HandleFunc("DELETE /deck/{deck}/cards/{card}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /deck/uploads/presign", func(w http.ResponseWriter, r *http.Request) {
		var body api.PresignUploadRequest
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))
		b.writeJSON(w, http.StatusOK, api.PresignUploadResponse{
			PutURL:    b.url + "/storage/" + body.Filename,
			GetURL:    "https://cdn.example.com/" + body.Filename,
			ObjectKey: body.Filename,
		})
	})
	mux.HandleFunc("PUT /storage/{name}", func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(b.t, err)
		b.uploads[r.PathValue("name")] = data
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("PATCH /decks/{deck}/cards", func(w http.ResponseWriter, r *http.Request) {
		deck, ok := b.deck(w, r)
		if !ok {
			return
		}
		var items []api.CardBulkItem
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&items))
		cards := deck.Cards
		for _, item := range items {
			if item.ID == nil && item.FrontText != nil && item.BackText != nil {
				b.nextID++
				cards = append(cards, api.Card{ID: b.nextID, DeckID: deck.ID, FrontText: *item.FrontText, BackText: *item.BackText})
			}
		}
		deck.Cards = cards
		b.writeJSON(w, http.StatusOK, cards)
	})
	mux.HandleFunc("POST /deck/{deck}/results", func(w http.ResponseWriter, r *http.Request) {
		var body api.TestResultCreate
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))
		b.results = append(b.results, body)
		b.writeJSON(w, http.StatusCreated, api.TestResult{ID: len(b.results), DeckID: 3, UserID: body.UserID, CorrectRate: body.CorrectRate})
	})
	mux.HandleFunc("GET /deck/{deck}/results", func(w http.ResponseWriter, r *http.Request) {
		results := []api.TestResult{
			{ID: 1, DeckID: 3, UserID: 7, TotalTimeSeconds: 12, CorrectRate: 0.5, CardResults: []api.CardResult{
				{CardID: 11, Correct: true, AnswerTimeSeconds: 5},
				{CardID: 12, Correct: false, AnswerTimeSeconds: 7},
			}},
			{ID: 2, DeckID: 3, UserID: 8, TotalTimeSeconds: 8, CorrectRate: 1, CardResults: []api.CardResult{
				{CardID: 11, Correct: true, AnswerTimeSeconds: 3},
				{CardID: 12, Correct: true, AnswerTimeSeconds: 5},
			}},
		}
		if userID := r.URL.Query().Get("user_id"); userID != "" {
			results = results[:1]
		}
		b.writeJSON(w, http.StatusOK, results)
	})
	mux.HandleFunc("POST /learn/deck/{deck}/sessions", func(w http.ResponseWriter, r *http.Request) {
		b.writeJSON(w, http.StatusCreated, api.LearnSessionCreateResponse{
			Session: api.LearnSession{ID: 50, DeckID: 3, Status: "active", TotalCards: 2},
		})
	})
	mux.HandleFunc("GET /learn/sessions/{session}/next", func(w http.ResponseWriter, r *http.Request) {
		next := api.LearnBatchResponse{SessionID: 50, LearnedCards: b.learned, TotalCards: 2, Progress: float64(b.learned) / 2}
		if b.learned < 2 {
			cardID := 11 + b.learned
			next.CardID = &cardID
		}
		b.writeJSON(w, http.StatusOK, next)
	})
	mux.HandleFunc("POST /learn/sessions/{session}/cards/{card}/answer", func(w http.ResponseWriter, r *http.Request) {
		var body api.LearnAnswer
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&body))
		if body.Correct {
			b.learned++
		}
		b.writeJSON(w, http.StatusOK, api.LearnProgressResponse{
			SessionID: 50, LearnedCards: b.learned, TotalCards: 2, Progress: float64(b.learned) / 2, IsCompleted: b.learned == 2,
		})
	})
	mux.HandleFunc("GET /learn/sessions/{session}/progress", func(w http.ResponseWriter, r *http.Request) {
		b.writeJSON(w, http.StatusOK, api.LearnProgressResponse{SessionID: 50, LearnedCards: b.learned, TotalCards: 2, Progress: float64(b.learned) / 2})
	})
	mux.HandleFunc("POST /learn/sessions/{session}/finish", func(w http.ResponseWriter, r *http.Request) {
		b.writeJSON(w, http.StatusOK, api.LearnProgressResponse{
			SessionID: 50, LearnedCards: b.learned, TotalCards: 2, Progress: float64(b.learned) / 2, IsCompleted: b.learned == 2,
		})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		mux.ServeHTTP(w, r)
	})
}

// execute runs command with args, feeding input to it, and returns what it printed.
func execute(t *testing.T, command *cobra.Command, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	command.SetOut(&out)
	command.SetErr(&out)
	command.SetIn(strings.NewReader(input))
	command.SetArgs(args)
	err := command.Execute()
	return out.String(), err
}
