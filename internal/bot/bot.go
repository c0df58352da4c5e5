// Package bot provides computer players for simulations and for filling
// seats at an interactive table.
package bot

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/game"
)

// Strategy decides how a bot plays its hands. Bots only consult a strategy
// for a split or double down the player can afford.
type Strategy interface {
	Name() string
	Split(view game.TurnView, rng *rand.Rand) bool
	DoubleDown(view game.TurnView, rng *rand.Rand) bool
	Hit(view game.TurnView, rng *rand.Rand) bool
}

// Option configures a Bot.
type Option func(*Bot)

// WithRounds makes the bot leave after n rounds. Zero plays until broke.
func WithRounds(n int) Option {
	return func(b *Bot) { b.rounds = n }
}

// WithBetUnits bets units times the table minimum, capped at what the
// table and balance allow.
func WithBetUnits(units int) Option {
	return func(b *Bot) {
		if units > 0 {
			b.units = units
		}
	}
}

// Bot is a game.Agent that plays a Strategy with flat betting.
type Bot struct {
	strategy Strategy
	rng      *rand.Rand
	logger   *log.Logger
	rounds   int
	units    int
}

// New creates a bot playing strategy.
func New(strategy Strategy, rng *rand.Rand, logger *log.Logger, opts ...Option) *Bot {
	b := &Bot{
		strategy: strategy,
		rng:      rng,
		logger:   logger.WithPrefix("bot"),
		units:    1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Strategy returns the strategy the bot plays.
func (b *Bot) Strategy() Strategy { return b.strategy }

func (b *Bot) PlaceBet(_ context.Context, v game.BetView) (game.Chips, error) {
	bet := v.MinBet * game.Chips(b.units)
	if limit := v.MaxAllowed(); bet > limit {
		bet = limit
	}
	// keep bets whole so payouts stay readable
	if !bet.IsWhole() {
		bet = game.WholeChips(bet.Whole())
	}
	b.logger.Debug("Bet", "player", v.Player, "strategy", b.strategy.Name(), "bet", bet, "chips", v.Chips)
	return bet, nil
}

func (b *Bot) Split(_ context.Context, v game.TurnView) (bool, error) {
	if !v.CanAfford() {
		return false, nil
	}
	split := b.strategy.Split(v, b.rng)
	b.logger.Debug("Split decision", "player", v.Player, "hand", v.Hand.Cards, "dealer", v.Dealer.Cards, "split", split)
	return split, nil
}

func (b *Bot) DoubleDown(_ context.Context, v game.TurnView) (bool, error) {
	if !v.CanAfford() {
		return false, nil
	}
	double := b.strategy.DoubleDown(v, b.rng)
	b.logger.Debug("Double decision", "player", v.Player, "value", v.Hand.Value, "dealer", v.Dealer.Cards, "double", double)
	return double, nil
}

func (b *Bot) Hit(_ context.Context, v game.TurnView) (bool, error) {
	hit := b.strategy.Hit(v, b.rng)
	b.logger.Debug("Hit decision", "player", v.Player, "value", v.Hand.Value, "soft", v.Hand.Soft, "hit", hit)
	return hit, nil
}

func (b *Bot) PlayAgain(_ context.Context, v game.PlayerView) (bool, error) {
	return b.rounds == 0 || v.Round < b.rounds, nil
}

var strategies = map[string]func() Strategy{
	"basic":    func() Strategy { return BasicStrategy{} },
	"dealer":   func() Strategy { return DealerStrategy{} },
	"cautious": func() Strategy { return CautiousStrategy{} },
	"random":   func() Strategy { return RandomStrategy{} },
}

var aliases = map[string]string{
	"basic-strategy": "basic",
	"book":           "basic",
	"mimic":          "dealer",
	"house":          "dealer",
	"safe":           "cautious",
	"never-bust":     "cautious",
	"rand":           "random",
}

// ResolveStrategy finds a strategy by name or alias.
func ResolveStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	newStrategy, ok := strategies[key]
	if !ok {
		return nil, fmt.Errorf("unknown bot strategy %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return newStrategy(), nil
}

// ForName builds a bot playing the named strategy.
func ForName(name string, rng *rand.Rand, logger *log.Logger, opts ...Option) (*Bot, error) {
	strategy, err := ResolveStrategy(name)
	if err != nil {
		return nil, err
	}
	return New(strategy, rng, logger, opts...), nil
}

// Names lists the canonical strategy names.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsKnown reports whether name resolves to a strategy.
func IsKnown(name string) bool {
	_, err := ResolveStrategy(name)
	return err == nil
}

var _ game.Agent = (*Bot)(nil)
