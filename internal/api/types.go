package api

import (
	"encoding/json"
	"time"
)

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Deck struct {
	ID          int        `json:"id"`
	OwnerID     int        `json:"owner_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	CardsAmount int        `json:"cards_amount"`
	Categories  []Category `json:"categories,omitempty"`
	Tags        []Tag      `json:"tags,omitempty"`
}

func (d Deck) DescriptionText() string {
	if d.Description == nil {
		return ""
	}
	return *d.Description
}

type DeckDetailed struct {
	Deck
	Cards []Card `json:"cards"`
}

// CardByID looks a card up by id; learn sessions only hand out ids.
func (d DeckDetailed) CardByID(id int) (Card, bool) {
	for _, card := range d.Cards {
		if card.ID == id {
			return card, true
		}
	}
	return Card{}, false
}

type DeckCreate struct {
	Title       string   `json:"title"`
	OwnerID     *int     `json:"owner_id,omitempty"`
	Description *string  `json:"description,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type DeckUpdate struct {
	Title       *string  `json:"title,omitempty"`
	OwnerID     *int     `json:"owner_id,omitempty"`
	Description *string  `json:"description,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// DeckListParams filters the deck listing. Nil fields are not sent.
type DeckListParams struct {
	Author     *int
	Category   *string
	Tag        *string
	MyTeachers *bool
	Cursor     *int
	Limit      *int
}

type Card struct {
	ID            int     `json:"id"`
	DeckID        int     `json:"deck_id"`
	FrontText     string  `json:"front_text"`
	FrontImageURL *string `json:"front_image_url,omitempty"`
	BackText      string  `json:"back_text"`
	BackImageURL  *string `json:"back_image_url,omitempty"`
	OrderIndex    *int    `json:"order_index,omitempty"`
}

type CardCreate struct {
	FrontText     string  `json:"front_text"`
	FrontImageURL *string `json:"front_image_url,omitempty"`
	BackText      string  `json:"back_text"`
	BackImageURL  *string `json:"back_image_url,omitempty"`
	OrderIndex    *int    `json:"order_index,omitempty"`
}

type CardUpdate struct {
	FrontText     *string `json:"front_text,omitempty"`
	FrontImageURL *string `json:"front_image_url,omitempty"`
	BackText      *string `json:"back_text,omitempty"`
	BackImageURL  *string `json:"back_image_url,omitempty"`
	OrderIndex    *int    `json:"order_index,omitempty"`
}

// CardBulkItem creates a card when ID is nil, updates it otherwise, and deletes it with ToDelete.
type CardBulkItem struct {
	ID            *int    `json:"id,omitempty" yaml:"id,omitempty"`
	FrontText     *string `json:"front_text,omitempty" yaml:"front_text,omitempty"`
	FrontImageURL *string `json:"front_image_url,omitempty" yaml:"front_image_url,omitempty"`
	BackText      *string `json:"back_text,omitempty" yaml:"back_text,omitempty"`
	BackImageURL  *string `json:"back_image_url,omitempty" yaml:"back_image_url,omitempty"`
	OrderIndex    *int    `json:"order_index,omitempty" yaml:"order_index,omitempty"`
	ToDelete      bool    `json:"to_delete,omitempty" yaml:"to_delete,omitempty"`
}

type PresignUploadRequest struct {
	Filename string `json:"filename"`
}

type PresignUploadResponse struct {
	PutURL    string `json:"put_url"`
	GetURL    string `json:"get_url"`
	ObjectKey string `json:"object_key"`
}

type LearnSession struct {
	ID           int        `json:"id"`
	DeckID       int        `json:"deck_id"`
	Status       string     `json:"status"`
	TotalCards   int        `json:"total_cards"`
	LearnedCards int        `json:"learned_cards"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

type LearnSessionCreateResponse struct {
	Session  LearnSession `json:"session"`
	Progress float64      `json:"progress"`
}

// LearnBatchResponse is the next card to show. A nil CardID means nothing is left.
type LearnBatchResponse struct {
	SessionID    int     `json:"session_id"`
	CardID       *int    `json:"card_id,omitempty"`
	LearnedCards int     `json:"learned_cards"`
	TotalCards   int     `json:"total_cards"`
	Progress     float64 `json:"progress"`
}

type LearnAnswer struct {
	Correct           bool `json:"correct"`
	AnswerTimeSeconds int  `json:"answer_time_seconds"`
}

type LearnProgressResponse struct {
	SessionID    int     `json:"session_id"`
	LearnedCards int     `json:"learned_cards"`
	TotalCards   int     `json:"total_cards"`
	Progress     float64 `json:"progress"`
	IsCompleted  bool    `json:"is_completed"`
}

type CardResult struct {
	ID                int     `json:"id"`
	CardID            int     `json:"card_id"`
	Correct           bool    `json:"correct"`
	AnswerTimeSeconds int     `json:"answer_time_seconds"`
	UserAnswer        *string `json:"user_answer,omitempty"`
}

type CardResultCreate struct {
	CardID            int     `json:"card_id"`
	Correct           bool    `json:"correct"`
	AnswerTimeSeconds int     `json:"answer_time_seconds"`
	UserAnswer        *string `json:"user_answer,omitempty"`
}

type TestResult struct {
	ID               int          `json:"id"`
	DeckID           int          `json:"deck_id"`
	UserID           int          `json:"user_id"`
	TotalTimeSeconds int          `json:"total_time_seconds"`
	CorrectRate      float64      `json:"correct_rate"`
	CardResults      []CardResult `json:"card_results"`
}

type TestResultCreate struct {
	UserID           int                `json:"user_id"`
	TotalTimeSeconds int                `json:"total_time_seconds"`
	CorrectRate      float64            `json:"correct_rate"`
	CardResults      []CardResultCreate `json:"card_results"`
}

type ResultListParams struct {
	Cursor *int
	Limit  *int
	UserID *int
}

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Surname  string `json:"surname,omitempty"`
	Email    string `json:"email"`
}

// DisplayName prefers the username, then the full name, then the email.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.Name != "" || u.Surname != "" {
		if u.Surname == "" {
			return u.Name
		}
		if u.Name == "" {
			return u.Surname
		}
		return u.Name + " " + u.Surname
	}
	return u.Email
}

type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
	Surname  string `json:"surname,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// tokenResponse accepts every token shape the backends emit.
type tokenResponse struct {
	Access            string `json:"access"`
	Refresh           string `json:"refresh"`
	AccessToken       string `json:"accessToken"`
	RefreshToken      string `json:"refreshToken"`
	AccessTokenSnake  string `json:"access_token"`
	RefreshTokenSnake string `json:"refresh_token"`
}

func (t tokenResponse) access() string {
	return firstNonEmpty(t.Access, t.AccessToken, t.AccessTokenSnake)
}

func (t tokenResponse) refresh() string {
	return firstNonEmpty(t.Refresh, t.RefreshToken, t.RefreshTokenSnake)
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
