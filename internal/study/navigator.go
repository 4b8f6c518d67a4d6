// Package study browses a deck card by card without any server-side tracking.
package study

import (
	"errors"
	"fmt"

	"github.com/Kbnch7/quizlet/internal/api"
)

var ErrEmptyDeck = errors.New("this deck has no cards yet")

// Navigator walks the cards of a deck in order. Moving always shows the front side.
type Navigator struct {
	cards    []api.Card
	index    int
	showBack bool
	passed   bool
}

func NewNavigator(cards []api.Card) (*Navigator, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}
	return &Navigator{cards: cards}, nil
}

func (n *Navigator) Card() api.Card {
	return n.cards[n.index]
}

func (n *Navigator) Index() int {
	return n.index
}

func (n *Navigator) Len() int {
	return len(n.cards)
}

func (n *Navigator) ShowBack() bool {
	return n.showBack
}

// Passed reports whether the user went past the last card.
func (n *Navigator) Passed() bool {
	return n.passed
}

// Side is the text currently facing the user.
func (n *Navigator) Side() string {
	card := n.Card()
	if n.showBack {
		return card.BackText
	}
	return card.FrontText
}

// ImageURL is the image of the side currently facing the user, if any.
func (n *Navigator) ImageURL() string {
	card := n.Card()
	url := card.FrontImageURL
	if n.showBack {
		url = card.BackImageURL
	}
	if url == nil {
		return ""
	}
	return *url
}

func (n *Navigator) Flip() {
	n.showBack = !n.showBack
}

func (n *Navigator) Next() {
	if n.index == len(n.cards)-1 {
		n.passed = true
		return
	}
	n.index++
	n.showBack = false
}

// Prev does nothing on the first card.
func (n *Navigator) Prev() {
	if n.index == 0 {
		return
	}
	n.index--
	n.showBack = false
}

// Restart goes back to the front of the first card.
func (n *Navigator) Restart() {
	n.index = 0
	n.showBack = false
	n.passed = false
}

// Header is the position line shown above the card, e.g. "Cards (1/12)".
func (n *Navigator) Header() string {
	return fmt.Sprintf("Cards (%d/%d)", n.index+1, len(n.cards))
}
