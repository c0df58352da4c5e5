package display

import (
	"context"
	"errors"
	"fmt"

	"github.com/lox/blackjack/internal/game"
)

var errNotEnoughChips = errors.New("You don't have that many chips.")

// HumanAgent asks a person at the terminal for every decision.
type HumanAgent struct {
	prompter Prompter
	styles   Styles
}

// NewHumanAgent creates an agent that prompts through p and formats hands
// with styles.
func NewHumanAgent(p Prompter, styles Styles) *HumanAgent {
	return &HumanAgent{prompter: p, styles: styles}
}

// PlaceBet asks for a bet until it lies within the table limits and the
// player's balance.
func (h *HumanAgent) PlaceBet(ctx context.Context, v game.BetView) (game.Chips, error) {
	h.prompter.Say(fmt.Sprintf("%s: you have %s chips.", v.Player, v.Chips))
	n, err := AskInt(ctx, h.prompter, "How many chips do you want to bet? ", func(n int) error {
		if n <= 0 {
			return ErrInvalidInput
		}
		bet := game.WholeChips(n)
		if bet > v.Chips {
			return errNotEnoughChips
		}
		if !v.Valid(bet) {
			return fmt.Errorf("Bet must be between %s and %s chips.", v.MinBet, v.MaxBet)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return game.WholeChips(n), nil
}

// Split offers to split the pair. Players who cannot cover a second bet are
// told so and not asked.
func (h *HumanAgent) Split(ctx context.Context, v game.TurnView) (bool, error) {
	h.showTurn(v)
	if !v.CanAfford() {
		h.prompter.Say("You don't have enough chips to split.")
		return false, nil
	}
	return AskYesNo(ctx, h.prompter, "Split pairs?")
}

// DoubleDown offers to double the bet on the current hand.
func (h *HumanAgent) DoubleDown(ctx context.Context, v game.TurnView) (bool, error) {
	h.showTurn(v)
	if !v.CanAfford() {
		h.prompter.Say("You don't have enough chips to double down.")
		return false, nil
	}
	return AskYesNo(ctx, h.prompter, fmt.Sprintf("Double down %s?", v.Hand.Name))
}

// Hit asks whether to draw another card.
func (h *HumanAgent) Hit(ctx context.Context, v game.TurnView) (bool, error) {
	h.showTurn(v)
	return AskHitStay(ctx, h.prompter)
}

// PlayAgain asks whether to stay for another round.
func (h *HumanAgent) PlayAgain(ctx context.Context, v game.PlayerView) (bool, error) {
	h.prompter.Say(fmt.Sprintf("%s: you have %s chips remaining.", v.Player, v.Chips))
	return AskYesNo(ctx, h.prompter, "Another hand?")
}

func (h *HumanAgent) showTurn(v game.TurnView) {
	h.prompter.Say(fmt.Sprintf("%s, %s: %s", v.Player, v.Hand.Name, FormatHand(h.styles, v.Hand)))
	h.prompter.Say("Dealer: " + FormatHand(h.styles, v.Dealer))
}

var _ game.Agent = (*HumanAgent)(nil)
