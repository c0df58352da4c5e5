package display

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

func TestHumanAgentPlaceBet(t *testing.T) {
	p, out := newTestPrompter("500\n2\n150\n40\n")
	agent := NewHumanAgent(p, NewStyles(io.Discard, true))

	bet, err := agent.PlaceBet(context.Background(), game.BetView{
		Player: "Player 1",
		Chips:  game.WholeChips(100),
		MinBet: game.WholeChips(5),
		MaxBet: game.WholeChips(200),
	})
	require.NoError(t, err)
	assert.Equal(t, game.WholeChips(40), bet)
	assert.Contains(t, out.String(), "You don't have that many chips.")
	assert.Contains(t, out.String(), "Bet must be between 5 and 200 chips.")
}

func TestHumanAgentDeclinesUnaffordableSplit(t *testing.T) {
	p, out := newTestPrompter("")
	agent := NewHumanAgent(p, NewStyles(io.Discard, true))

	h := game.NewPlayerHand(game.MainHandName, game.WholeChips(10))
	for _, c := range deck.MustParseCards("8h8h") {
		h.AddCard(c)
	}

	split, err := agent.Split(context.Background(), game.TurnView{
		Player: "Player 1",
		Chips:  game.WholeChips(5),
		Hand:   h.Snapshot(),
	})
	require.NoError(t, err)
	assert.False(t, split)
	assert.Contains(t, out.String(), "You don't have enough chips to split.")
}

func TestHumanAgentDecisions(t *testing.T) {
	p, out := newTestPrompter("1\n1\n0\n")
	agent := NewHumanAgent(p, NewStyles(io.Discard, true))

	h := game.NewPlayerHand(game.MainHandName, game.WholeChips(10))
	for _, c := range deck.MustParseCards("6h4d") {
		h.AddCard(c)
	}
	view := game.TurnView{Player: "Player 1", Chips: game.WholeChips(90), Hand: h.Snapshot()}

	double, err := agent.DoubleDown(context.Background(), view)
	require.NoError(t, err)
	assert.True(t, double)
	assert.Contains(t, out.String(), "Double down Hand? Yes(1) or No(0): ")

	hit, err := agent.Hit(context.Background(), view)
	require.NoError(t, err)
	assert.True(t, hit)

	again, err := agent.PlayAgain(context.Background(), game.PlayerView{Player: "Player 1", Chips: game.WholeChips(90)})
	require.NoError(t, err)
	assert.False(t, again)
	assert.Contains(t, out.String(), "[6♥ 4♦] Total: 10")
}
