package display

import (
	"context"
	"fmt"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// PlayerSetup is one seat chosen during interactive setup.
type PlayerSetup struct {
	Name  string
	Chips int
}

// TableSetup is the result of interactive setup.
type TableSetup struct {
	MinBet  int
	MaxBet  int
	Deck    deck.Kind
	Players []PlayerSetup
}

// SetupTable asks for the betting limits, deck type, number of players and
// each player's buy-in.
func SetupTable(ctx context.Context, p Prompter) (TableSetup, error) {
	var s TableSetup
	var err error

	if s.MinBet, err = AskInt(ctx, p, "Minimum bet: ", Positive); err != nil {
		return s, err
	}
	s.MaxBet, err = AskInt(ctx, p, "Maximum bet: ", func(n int) error {
		if n < s.MinBet {
			return fmt.Errorf("Maximum bet must be at least %d.", s.MinBet)
		}
		return nil
	})
	if err != nil {
		return s, err
	}

	kind, err := AskInt(ctx, p, "Deck type. Standard(0) or SixPack(1): ", func(n int) error {
		if n != 0 && n != 1 {
			return ErrInvalidInput
		}
		return nil
	})
	if err != nil {
		return s, err
	}
	s.Deck = deck.Standard
	if kind == 1 {
		s.Deck = deck.SixPack
	}

	count, err := AskInt(ctx, p, "Number of players: ", func(n int) error {
		if n < 1 || n > game.MaxSeats {
			return fmt.Errorf("Between 1 and %d players can sit at the table.", game.MaxSeats)
		}
		return nil
	})
	if err != nil {
		return s, err
	}

	for i := 1; i <= count; i++ {
		name := game.DefaultPlayerName(i)
		p.Say(name + ":")
		chips, err := AskInt(ctx, p, "How many chips do you want to buy? ", Positive)
		if err != nil {
			return s, err
		}
		s.Players = append(s.Players, PlayerSetup{Name: name, Chips: chips})
	}
	return s, nil
}
