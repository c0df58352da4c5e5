package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
)

func handOf(cards string) *Hand {
	h := NewHand("test")
	for _, c := range deck.MustParseCards(cards) {
		h.AddCard(c)
	}
	return h
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		cards string
		want  int
	}{
		{"", 0},
		{"Ah", 11},
		{"AhAd", 12},
		{"AhAdAs", 13},
		{"AhKd", 21},
		{"Ah5d", 16},
		{"9hAhAd", 21},
		{"KhQd", 20},
		{"KhQd5s", 25},
		{"KhQd5sAc", 26},
		{"KhQd5sAcAd", 27},
		{"2h3d4c", 9},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			assert.Equal(t, tt.want, handOf(tt.cards).Value())
		})
	}
}

func TestHandValueRecomputesSequentially(t *testing.T) {
	h := handOf("Ah5d")
	require.Equal(t, 16, h.Value())
	assert.True(t, h.IsSoft())

	h.AddCard(deck.NewCard(deck.Clubs, deck.King))
	assert.Equal(t, 16, h.Value(), "ace drops to 1 once 11 would bust")
	assert.False(t, h.IsSoft())

	h.AddCard(deck.NewCard(deck.Spades, deck.Ace))
	assert.Equal(t, 17, h.Value())
}

func TestHandValueRecomputeKeepsAceHigh(t *testing.T) {
	h := handOf("2h3d")
	require.Equal(t, 5, h.Value())

	h.AddCard(deck.NewCard(deck.Hearts, deck.Ace))
	assert.Equal(t, 16, h.Value())
	assert.True(t, h.IsSoft())

	h.AddCard(deck.NewCard(deck.Diamonds, deck.Ace))
	assert.Equal(t, 17, h.Value(), "second ace counts 1 after the first took 11")
}

func TestHandValueAcesLowWhenOthersBust(t *testing.T) {
	h := handOf("KhQd")
	require.Equal(t, 20, h.Value())

	h.AddCard(deck.NewCard(deck.Spades, deck.Five))
	require.Equal(t, 25, h.Value())

	h.AddCard(deck.NewCard(deck.Clubs, deck.Ace))
	assert.Equal(t, 26, h.Value())
	h.AddCard(deck.NewCard(deck.Diamonds, deck.Ace))
	assert.Equal(t, 27, h.Value())
	assert.True(t, h.IsBusted())
}

func TestHandValueIsCached(t *testing.T) {
	h := handOf("9h7d")
	assert.Equal(t, 16, h.Value())
	assert.Equal(t, 16, h.Value())

	h.AddCard(deck.NewCard(deck.Clubs, deck.Two))
	assert.Equal(t, 18, h.Value())
}

func TestHandIsNatural(t *testing.T) {
	tests := []struct {
		cards string
		want  bool
	}{
		{"AhKd", true},
		{"TsAc", true},
		{"QhAh", true},
		{"Ah", false},
		{"AhAd", false},
		{"KhQd", false},
		{"9h2dKc", false},
		{"5h6dKc", false},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			assert.Equal(t, tt.want, handOf(tt.cards).IsNatural())
		})
	}
}

func TestHandNaturalSurvivesLaterDraws(t *testing.T) {
	h := handOf("AhKd")
	require.True(t, h.IsNatural())
	require.Equal(t, 21, h.Value())

	h.AddCard(deck.NewCard(deck.Clubs, deck.Five))
	assert.True(t, h.IsNatural())
	assert.Equal(t, 16, h.Value())
}

func TestHandCanSplitPair(t *testing.T) {
	tests := []struct {
		cards string
		want  bool
	}{
		{"8h8h", true},
		{"AsAs", true},
		{"8h8d", false},
		{"KhQh", false},
		{"8h", false},
		{"8h8h8h", false},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			assert.Equal(t, tt.want, handOf(tt.cards).CanSplitPair())
		})
	}
}

func TestHandCanDoubleDown(t *testing.T) {
	tests := []struct {
		cards string
		want  bool
	}{
		{"6h4d", true},
		{"5h4d", true},
		{"6h5d", true},
		{"4h4d", false},
		{"6h6d", false},
		{"2h3d4c", false},
		{"Ah9d", false},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			assert.Equal(t, tt.want, handOf(tt.cards).CanDoubleDown())
		})
	}
}

func TestHandSplit(t *testing.T) {
	h := NewPlayerHand(MainHandName, WholeChips(10))
	for _, c := range deck.MustParseCards("8h8h") {
		h.AddCard(c)
	}
	require.Equal(t, 16, h.Value())

	split, err := h.Split(SplitHandName)
	require.NoError(t, err)

	assert.Equal(t, deck.MustParseCards("8h"), h.Cards())
	assert.Equal(t, deck.MustParseCards("8h"), split.Cards())
	assert.Equal(t, 8, h.Value())
	assert.Equal(t, 8, split.Value())
	assert.Equal(t, WholeChips(10), split.Bet())
	assert.Equal(t, SplitHandName, split.Name())
	assert.True(t, split.Playable())
}

func TestHandSplitRejectsNonPair(t *testing.T) {
	h := handOf("8h8d")
	_, err := h.Split(SplitHandName)
	assert.ErrorIs(t, err, ErrCannotSplit)
	assert.Equal(t, 2, h.Len())
}

func TestDealerHandSnapshotHidesHoleCard(t *testing.T) {
	h := NewDealerHand()
	for _, c := range deck.MustParseCards("AhKd") {
		h.AddCard(c)
	}

	s := h.Snapshot()
	assert.Equal(t, deck.MustParseCards("Ah"), s.Cards)
	assert.Equal(t, 1, s.HiddenCards)
	assert.Equal(t, 11, s.Value)
	assert.False(t, s.Natural)
	up, ok := s.UpCard()
	require.True(t, ok)
	assert.Equal(t, deck.NewCard(deck.Hearts, deck.Ace), up)

	// logic always sees the full hand
	assert.True(t, h.IsNatural())

	h.Reveal()
	s = h.Snapshot()
	assert.Len(t, s.Cards, 2)
	assert.Zero(t, s.HiddenCards)
	assert.Equal(t, 21, s.Value)
	assert.True(t, s.Natural)
}

func TestHandCardsReturnsCopy(t *testing.T) {
	h := handOf("2h3d")
	cards := h.Cards()
	cards[0] = deck.NewCard(deck.Spades, deck.Ace)
	assert.Equal(t, 5, h.Value())
}
