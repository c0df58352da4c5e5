package deck

import (
	"fmt"
	"strings"
)

// Blackjack is the best possible hand total.
const Blackjack = 21

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Spades
	Clubs
)

// Suits lists every suit in deck-building order.
var Suits = [...]Suit{Hearts, Diamonds, Spades, Clubs}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Spades:
		return "♠"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Name returns the long name of the suit, e.g. "Hearts".
func (s Suit) Name() string {
	switch s {
	case Hearts:
		return "Hearts"
	case Diamonds:
		return "Diamonds"
	case Spades:
		return "Spades"
	case Clubs:
		return "Clubs"
	default:
		return "Unknown"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return string(rune('0' + int(r)))
	case r == Ten:
		return "10"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Value returns the fixed blackjack value of the rank. Aces report their
// raw value of 11; use Card.ValueIn when the owning hand matters.
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 11
	case r >= Ten:
		return 10
	default:
		return int(r)
	}
}

// Card represents a playing card. Two cards are equal when both suit and
// rank match, so plain == comparison works.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// Equal reports whether both cards share suit and rank.
func (c Card) Equal(other Card) bool {
	return c == other
}

// Value returns the context-free value of the card (Ace = 11).
func (c Card) Value() int {
	return c.Rank.Value()
}

// ValueIn returns the value of the card when accumulated points are already
// counted in its hand. An Ace drops to 1 when 11 would take the hand past 21.
func (c Card) ValueIn(accumulated int) int {
	if c.Rank != Ace {
		return c.Rank.Value()
	}
	if accumulated+11 > Blackjack {
		return 1
	}
	return 11
}

// ParseCard parses two-character notation such as "Ah", "Td" or "9s".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: want rank and suit", s)
	}

	var rank Rank
	switch r := strings.ToUpper(s[:1]); r {
	case "A":
		rank = Ace
	case "K":
		rank = King
	case "Q":
		rank = Queen
	case "J":
		rank = Jack
	case "T":
		rank = Ten
	default:
		if r[0] < '2' || r[0] > '9' {
			return Card{}, fmt.Errorf("invalid rank in card %q", s)
		}
		rank = Rank(r[0] - '0')
	}

	var suit Suit
	switch strings.ToLower(s[1:]) {
	case "h":
		suit = Hearts
	case "d":
		suit = Diamonds
	case "s":
		suit = Spades
	case "c":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit in card %q", s)
	}

	return NewCard(suit, rank), nil
}

// ParseCards parses a run of cards with no separators, e.g. "AhKd8s".
func ParseCards(s string) ([]Card, error) {
	s = strings.ReplaceAll(s, " ", "")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string %q: odd length", s)
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests
// and static tables.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
