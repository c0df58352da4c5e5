package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/blackjack/internal/deck"
)

// MaxSeats is the number of player seats at a table.
const MaxSeats = 7

// RoundState is the position of the table in the round state machine.
type RoundState int

const (
	RoundStart RoundState = iota
	DeckCheck
	Deal
	PlayerTurns
	DealerTurn
	Settle
	ContinueDecision
	Terminated
)

// String returns the string representation of a round state
func (s RoundState) String() string {
	switch s {
	case RoundStart:
		return "Round Start"
	case DeckCheck:
		return "Deck Check"
	case Deal:
		return "Deal"
	case PlayerTurns:
		return "Player Turns"
	case DealerTurn:
		return "Dealer Turn"
	case Settle:
		return "Settle"
	case ContinueDecision:
		return "Continue Decision"
	case Terminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// TableConfig holds the betting limits of a table.
type TableConfig struct {
	MinBet Chips
	MaxBet Chips
}

// Validate checks that 0 < MinBet <= MaxBet.
func (c TableConfig) Validate() error {
	if c.MinBet <= 0 {
		return fmt.Errorf("minimum bet must be positive, got %s", c.MinBet)
	}
	if c.MaxBet < c.MinBet {
		return fmt.Errorf("maximum bet %s is below minimum bet %s", c.MaxBet, c.MinBet)
	}
	return nil
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithEventBus publishes table events on bus instead of a private bus.
func WithEventBus(bus EventBus) TableOption {
	return func(t *Table) { t.bus = bus }
}

// WithClock sets the clock used to timestamp events.
func WithClock(clock quartz.Clock) TableOption {
	return func(t *Table) { t.clock = clock }
}

// WithSessionID overrides the generated session identifier.
func WithSessionID(id string) TableOption {
	return func(t *Table) { t.sessionID = id }
}

// Table runs rounds of blackjack between a dealer and up to seven players
// sharing one deck.
type Table struct {
	cfg    TableConfig
	deck   deck.Deck
	dealer *Dealer

	players  []*Player
	departed []PlayerSummary

	state     RoundState
	round     int
	roundID   string
	sessionID string

	// bankroll is every chip ever brought to the table. houseNet is what the
	// house has won from settled or forfeited bets.
	bankroll Chips
	houseNet Chips

	bus    EventBus
	clock  quartz.Clock
	logger *log.Logger
}

// NewTable creates a table dealing from d.
func NewTable(d deck.Deck, cfg TableConfig, logger *log.Logger, opts ...TableOption) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	t := &Table{
		cfg:       cfg,
		deck:      d,
		dealer:    NewDealer(),
		players:   make([]*Player, 0, MaxSeats),
		state:     RoundStart,
		sessionID: uuid.NewString(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.bus == nil {
		t.bus = NewEventBus()
	}
	if t.clock == nil {
		t.clock = quartz.NewReal()
	}
	return t, nil
}

// AddPlayer seats a player. Names must be unique.
func (t *Table) AddPlayer(p *Player) error {
	if t.state != RoundStart {
		return fmt.Errorf("cannot seat %s during %s", p.Name(), t.state)
	}
	if len(t.players) >= MaxSeats {
		return fmt.Errorf("table is full (%d seats)", MaxSeats)
	}
	if p.Chips() <= 0 {
		return fmt.Errorf("%s must buy in with a positive number of chips", p.Name())
	}
	for _, existing := range t.players {
		if existing.Name() == p.Name() {
			return fmt.Errorf("player %q is already seated", p.Name())
		}
	}

	t.players = append(t.players, p)
	t.bankroll += p.Chips()
	t.logger.Debug("Player seated", "player", p.Name(), "seat", p.Seat(), "chips", p.Chips())
	return nil
}

func (t *Table) Config() TableConfig { return t.cfg }
func (t *Table) Deck() deck.Deck { return t.deck }
func (t *Table) Dealer() *Dealer { return t.dealer }
func (t *Table) State() RoundState { return t.state }
func (t *Table) Round() int { return t.round }
func (t *Table) RoundID() string { return t.roundID }
func (t *Table) SessionID() string { return t.sessionID }
func (t *Table) EventBus() EventBus { return t.bus }
func (t *Table) HouseNet() Chips { return t.houseNet }
func (t *Table) Departed() []PlayerSummary { return slices.Clone(t.departed) }

// Players returns the players still seated, in turn order.
func (t *Table) Players() []*Player {
	return slices.Clone(t.players)
}

// Run plays rounds until every player has left the table. It returns early
// only on a fatal error or when ctx is cancelled.
func (t *Table) Run(ctx context.Context) error {
	t.logger.Info("Table open", "session", t.sessionID, "players", len(t.players),
		"min_bet", t.cfg.MinBet, "max_bet", t.cfg.MaxBet)

	for len(t.players) > 0 {
		if err := t.PlayRound(ctx); err != nil {
			t.logger.Error("Round aborted", "round", t.round, "error", err)
			return err
		}
	}

	t.state = Terminated
	t.bus.Publish(TableClosedEvent{
		SessionID: t.sessionID,
		Rounds:    t.round,
		HouseNet:  t.houseNet,
		timestamp: t.clock.Now(),
	})
	t.logger.Info("Table closed", "session", t.sessionID, "rounds", t.round, "house_net", t.houseNet)
	return nil
}

// PlayRound runs one full round from the deck check to the continue
// decision. Players that fail are removed and the round goes on; a returned
// error means the round could not be completed.
func (t *Table) PlayRound(ctx context.Context) error {
	if len(t.players) == 0 {
		t.state = Terminated
		return errors.New("no players at the table")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t.round++
	t.roundID = uuid.NewString()
	t.state = RoundStart
	logger := t.logger.With("round", t.round)

	t.state = DeckCheck
	shuffled := t.deck.NeedsReshuffle()
	if shuffled {
		t.deck.Shuffle()
		logger.Debug("Deck shuffled", "remaining", t.deck.Remaining())
	}
	t.bus.Publish(RoundStartEvent{
		RoundID:   t.roundID,
		Round:     t.round,
		Players:   t.summaries(),
		Shuffled:  shuffled,
		timestamp: t.clock.Now(),
	})

	t.state = Deal
	if err := t.deal(ctx); err != nil {
		return err
	}

	if len(t.players) > 0 {
		t.state = PlayerTurns
		if err := t.playerTurns(ctx); err != nil {
			return err
		}

		t.state = DealerTurn
		if err := t.dealerTurn(); err != nil {
			return err
		}

		t.state = Settle
		t.settle()
	}
	t.deck.Discard(t.dealer.clearHand()...)

	t.state = ContinueDecision
	if err := t.continueDecision(ctx); err != nil {
		return err
	}

	if err := t.ValidateChipConservation(); err != nil {
		return err
	}

	t.bus.Publish(RoundEndEvent{
		RoundID:   t.roundID,
		Round:     t.round,
		Players:   t.summaries(),
		HouseNet:  t.houseNet,
		timestamp: t.clock.Now(),
	})
	logger.Info("Round complete", "players", len(t.players), "house_net", t.houseNet)

	if len(t.players) == 0 {
		t.state = Terminated
	} else {
		t.state = RoundStart
	}
	return nil
}

func (t *Table) deal(ctx context.Context) error {
	for _, p := range t.Players() {
		if p.Chips() < t.cfg.MinBet {
			t.remove(p, RemovalBroke, ErrInsufficientFunds)
			continue
		}

		view := BetView{
			Player: p.Name(),
			Round:  t.round,
			Chips:  p.Chips(),
			MinBet: t.cfg.MinBet,
			MaxBet: t.cfg.MaxBet,
		}
		amount, err := p.Agent().PlaceBet(ctx, view)
		if err != nil {
			if isFatal(err) {
				return err
			}
			t.remove(p, RemovalKicked, err)
			continue
		}
		if !view.Valid(amount) {
			cause := ErrInvalidDecision
			if amount > p.Chips() {
				cause = ErrInsufficientFunds
			}
			t.remove(p, RemovalKicked, fmt.Errorf("bet %s outside [%s, %s]: %w",
				amount, view.MinBet, view.MaxAllowed(), cause))
			continue
		}
		if err := p.PlaceBet(amount); err != nil {
			t.remove(p, RemovalKicked, err)
			continue
		}

		for i := 0; i < 2; i++ {
			if _, err := p.Hand().Draw(t.deck); err != nil {
				return fmt.Errorf("dealing to %s: %w", p.Name(), err)
			}
		}
		t.logger.Debug("Dealt", "round", t.round, "player", p.Name(), "bet", amount, "hand", p.Hand().Cards())
		t.publishHand(p, ActionDeal, p.Hand(), nil)
	}

	if len(t.players) == 0 {
		return nil
	}
	if err := t.dealer.Deal(t.deck); err != nil {
		return fmt.Errorf("dealing to dealer: %w", err)
	}
	t.publishHand(nil, ActionDeal, t.dealer.Hand(), nil)
	return nil
}

func (t *Table) playerTurns(ctx context.Context) error {
	for _, p := range t.Players() {
		turn := Turn{
			Round:  t.round,
			Deck:   t.deck,
			Dealer: t.dealer.Hand().Snapshot(),
			Notify: func(action HandAction, h *Hand, card *deck.Card) {
				t.logger.Debug("Player action", "round", t.round, "player", p.Name(),
					"hand", h.Name(), "action", action, "value", h.Value())
				t.publishHand(p, action, h, card)
			},
		}
		if err := p.Play(ctx, turn); err != nil {
			if isFatal(err) {
				return err
			}
			t.remove(p, RemovalKicked, err)
		}
	}
	return nil
}

func (t *Table) dealerTurn() error {
	t.dealer.Reveal()
	hand := t.dealer.Hand()
	t.bus.Publish(DealerRevealEvent{
		RoundID:   t.roundID,
		Hand:      hand.Snapshot(),
		timestamp: t.clock.Now(),
	})

	drawn, err := t.dealer.Play(t.deck)
	for i := range drawn {
		t.publishHand(nil, ActionHit, hand, &drawn[i])
	}
	if err != nil {
		return fmt.Errorf("dealer draw: %w", err)
	}

	action := ActionStand
	if hand.IsBusted() {
		action = ActionBust
	}
	t.publishHand(nil, action, hand, nil)
	t.logger.Debug("Dealer done", "round", t.round, "hand", hand.Cards(), "value", hand.Value())
	return nil
}

func (t *Table) settle() {
	dealerHand := t.dealer.Hand()
	for _, p := range t.players {
		for _, h := range p.Hands() {
			outcome, payout := p.settle(dealerHand, h)
			t.houseNet += h.Bet() - payout
			t.logger.Debug("Settled", "round", t.round, "player", p.Name(), "hand", h.Name(),
				"outcome", outcome, "bet", h.Bet(), "payout", payout)
			t.bus.Publish(SettlementEvent{
				RoundID:   t.roundID,
				Player:    p.Name(),
				Hand:      h.Snapshot(),
				Dealer:    dealerHand.Snapshot(),
				Outcome:   outcome,
				Payout:    payout,
				Chips:     p.Chips(),
				timestamp: t.clock.Now(),
			})
		}
		t.deck.Discard(p.clearHands()...)
	}
}

func (t *Table) continueDecision(ctx context.Context) error {
	for _, p := range t.Players() {
		if p.Chips() < t.cfg.MinBet {
			t.remove(p, RemovalBroke, nil)
			continue
		}
		again, err := p.Agent().PlayAgain(ctx, PlayerView{
			Player: p.Name(),
			Round:  t.round,
			Chips:  p.Chips(),
			MinBet: t.cfg.MinBet,
		})
		if err != nil {
			if isFatal(err) {
				return err
			}
			t.remove(p, RemovalKicked, err)
			continue
		}
		if !again {
			t.remove(p, RemovalDeclined, nil)
		}
	}
	return nil
}

// remove takes p off the table. Any bets still on its hands are forfeited to
// the house and its cards go to the discard pile.
func (t *Table) remove(p *Player, reason RemovalReason, cause error) {
	forfeit := p.Staked()
	t.houseNet += forfeit
	t.deck.Discard(p.clearHands()...)

	t.players = slices.DeleteFunc(t.players, func(q *Player) bool { return q == p })
	t.departed = append(t.departed, PlayerSummary{Name: p.Name(), Chips: p.Chips()})

	if reason == RemovalKicked {
		t.logger.Warn("Player kicked from game", "round", t.round, "player", p.Name(), "forfeit", forfeit, "error", cause)
	} else {
		t.logger.Info("Player left", "round", t.round, "player", p.Name(), "reason", reason, "chips", p.Chips())
	}
	t.bus.Publish(PlayerRemovedEvent{
		RoundID:   t.roundID,
		Player:    p.Name(),
		Reason:    reason,
		Chips:     p.Chips(),
		Err:       cause,
		timestamp: t.clock.Now(),
	})
}

func (t *Table) publishHand(p *Player, action HandAction, h *Hand, card *deck.Card) {
	e := HandEvent{
		RoundID:   t.roundID,
		Action:    action,
		Card:      card,
		Hand:      h.Snapshot(),
		timestamp: t.clock.Now(),
	}
	if p != nil {
		e.Player = p.Name()
		e.Chips = p.Chips()
	}
	t.bus.Publish(e)
}

func (t *Table) summaries() []PlayerSummary {
	out := make([]PlayerSummary, len(t.players))
	for i, p := range t.players {
		out[i] = PlayerSummary{Name: p.Name(), Chips: p.Chips()}
	}
	return out
}

// TotalChips is every chip accounted for at the table: seated balances and
// live bets, departed balances and the house result.
func (t *Table) TotalChips() Chips {
	total := t.houseNet
	for _, p := range t.players {
		total += p.Chips() + p.Staked()
	}
	for _, d := range t.departed {
		total += d.Chips
	}
	return total
}

// ValidateChipConservation ensures no chips were created or destroyed since
// players bought in.
func (t *Table) ValidateChipConservation() error {
	actual := t.TotalChips()
	if actual != t.bankroll {
		return fmt.Errorf("%w: expected %s total chips, found %s (difference %s)",
			ErrChipConservation, t.bankroll, actual, actual-t.bankroll)
	}
	return nil
}

// isFatal reports whether err must abort the round rather than remove a
// single player.
func isFatal(err error) bool {
	return errors.Is(err, deck.ErrDeckExhausted) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, ErrChipConservation)
}
