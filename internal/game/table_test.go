package game

import (
	"context"
	"errors"
	"io"
	rand "math/rand/v2"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/randutil"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

type eventLog struct {
	events []GameEvent
}

func (l *eventLog) OnEvent(event GameEvent) {
	l.events = append(l.events, event)
}

func (l *eventLog) settlements() []SettlementEvent {
	var out []SettlementEvent
	for _, e := range l.events {
		if s, ok := e.(SettlementEvent); ok {
			out = append(out, s)
		}
	}
	return out
}

func (l *eventLog) removals() []PlayerRemovedEvent {
	var out []PlayerRemovedEvent
	for _, e := range l.events {
		if r, ok := e.(PlayerRemovedEvent); ok {
			out = append(out, r)
		}
	}
	return out
}

func (l *eventLog) handActions(player string) []HandAction {
	var out []HandAction
	for _, e := range l.events {
		if h, ok := e.(HandEvent); ok && h.Player == player {
			out = append(out, h.Action)
		}
	}
	return out
}

func (l *eventLog) count(et EventType) int {
	n := 0
	for _, e := range l.events {
		if e.EventType() == et {
			n++
		}
	}
	return n
}

func newTestTable(t *testing.T, d deck.Deck) (*Table, *eventLog) {
	t.Helper()
	events := &eventLog{}
	bus := NewEventBus()
	bus.Subscribe(events)

	table, err := NewTable(d,
		TableConfig{MinBet: WholeChips(5), MaxBet: WholeChips(100)},
		quietLogger(),
		WithEventBus(bus),
		WithClock(quartz.NewMock(t)),
	)
	require.NoError(t, err)
	return table, events
}

func seat(t *testing.T, table *Table, name string, chips int, agent Agent) *Player {
	t.Helper()
	p := NewPlayer(name, len(table.Players())+1, WholeChips(chips), agent)
	require.NoError(t, table.AddPlayer(p))
	return p
}

func TestTableConfigValidate(t *testing.T) {
	assert.NoError(t, TableConfig{MinBet: WholeChips(5), MaxBet: WholeChips(5)}.Validate())
	assert.Error(t, TableConfig{MinBet: 0, MaxBet: WholeChips(5)}.Validate())
	assert.Error(t, TableConfig{MinBet: WholeChips(10), MaxBet: WholeChips(5)}.Validate())
}

func TestTableAddPlayer(t *testing.T) {
	table, _ := newTestTable(t, stackedDeck(t, deck.Standard, ""))

	for i := 1; i <= MaxSeats; i++ {
		seat(t, table, DefaultPlayerName(i), 100, &ScriptedAgent{})
	}
	assert.Error(t, table.AddPlayer(NewPlayer("Extra", 8, WholeChips(100), &ScriptedAgent{})))

	table, _ = newTestTable(t, stackedDeck(t, deck.Standard, ""))
	seat(t, table, "Alice", 100, &ScriptedAgent{})
	assert.Error(t, table.AddPlayer(NewPlayer("Alice", 2, WholeChips(100), &ScriptedAgent{})))
	assert.Error(t, table.AddPlayer(NewPlayer("Broke", 2, 0, &ScriptedAgent{})))
}

func TestTableRoundOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		kind    deck.Kind
		cards   string
		agent   *ScriptedAgent
		outcome []Outcome
		chips   int
	}{
		{
			name:    "player natural pays two and a half",
			cards:   "AhKd9s8c",
			agent:   &ScriptedAgent{Bets: []Chips{WholeChips(10)}},
			outcome: []Outcome{PlayerNatural},
			chips:   115,
		},
		{
			name:    "both naturals push",
			cards:   "AhKdAsQc",
			agent:   &ScriptedAgent{Bets: []Chips{WholeChips(10)}},
			outcome: []Outcome{Draw},
			chips:   100,
		},
		{
			name:    "dealer natural beats twenty",
			cards:   "KhQdAsJc",
			agent:   &ScriptedAgent{Bets: []Chips{WholeChips(10)}},
			outcome: []Outcome{DealerWins},
			chips:   90,
		},
		{
			name:    "double down win",
			cards:   "6h4dTs7cKc",
			agent:   &ScriptedAgent{Bets: []Chips{WholeChips(10)}, Doubles: []bool{true}},
			outcome: []Outcome{PlayerWins},
			chips:   120,
		},
		{
			name:    "player busts",
			cards:   "Th6dTs7cKc",
			agent:   &ScriptedAgent{Bets: []Chips{WholeChips(10)}, Hits: []bool{true}},
			outcome: []Outcome{DealerWins},
			chips:   90,
		},
		{
			name:    "dealer busts",
			cards:   "Th8dTs6cKh",
			agent:   &ScriptedAgent{Bets: []Chips{WholeChips(10)}},
			outcome: []Outcome{PlayerWins},
			chips:   110,
		},
		{
			name:  "split pair settles each hand with its own bet",
			kind:  deck.SixPack,
			cards: "8h8hTs7cTd2c9d",
			agent: &ScriptedAgent{
				Bets:    []Chips{WholeChips(10)},
				Splits:  []bool{true},
				Doubles: []bool{false},
				Hits:    []bool{false, true, false},
			},
			outcome: []Outcome{PlayerWins, PlayerWins},
			chips:   120,
		},
		{
			name:  "split pair with doubled split hand",
			kind:  deck.SixPack,
			cards: "8h8hTs7cTd3cKd",
			agent: &ScriptedAgent{
				Bets:    []Chips{WholeChips(10)},
				Splits:  []bool{true},
				Doubles: []bool{true},
			},
			outcome: []Outcome{PlayerWins, PlayerWins},
			chips:   130,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, events := newTestTable(t, stackedDeck(t, tt.kind, tt.cards))
			seat(t, table, "Alice", 100, tt.agent)

			require.NoError(t, table.Run(context.Background()))
			assert.Equal(t, Terminated, table.State())

			settled := events.settlements()
			require.Len(t, settled, len(tt.outcome))
			for i, s := range settled {
				assert.Equal(t, tt.outcome[i], s.Outcome, "hand %d", i)
			}

			departed := table.Departed()
			require.Len(t, departed, 1)
			assert.Equal(t, WholeChips(tt.chips), departed[0].Chips)
			assert.Equal(t, WholeChips(100-tt.chips), table.HouseNet())
			assert.NoError(t, table.ValidateChipConservation())
		})
	}
}

func TestTableSplitHandsUseOwnBets(t *testing.T) {
	agent := &ScriptedAgent{
		Bets:    []Chips{WholeChips(10)},
		Splits:  []bool{true},
		Doubles: []bool{true},
		Hits:    []bool{true},
	}
	// main 8+2 doubles to 20 and wins, split 8+8 hits to bust and loses
	table, events := newTestTable(t, stackedDeck(t, deck.SixPack, "8h8hTs7c2d8sKd6c"))
	seat(t, table, "Alice", 100, agent)

	require.NoError(t, table.Run(context.Background()))

	settled := events.settlements()
	require.Len(t, settled, 2)
	assert.Equal(t, MainHandName, settled[0].Hand.Name)
	assert.Equal(t, WholeChips(20), settled[0].Hand.Bet)
	assert.Equal(t, PlayerWins, settled[0].Outcome)
	assert.Equal(t, WholeChips(40), settled[0].Payout)

	assert.Equal(t, SplitHandName, settled[1].Hand.Name)
	assert.Equal(t, WholeChips(10), settled[1].Hand.Bet)
	assert.Equal(t, DealerWins, settled[1].Outcome)
	assert.Zero(t, settled[1].Payout)

	assert.Equal(t, WholeChips(110), table.Departed()[0].Chips)
}

func TestTableDealsDealerAfterPlayers(t *testing.T) {
	table, events := newTestTable(t, stackedDeck(t, deck.Standard, "Th9dTs8c2h3d"))
	seat(t, table, "Alice", 100, &ScriptedAgent{})
	seat(t, table, "Bob", 100, &ScriptedAgent{})

	require.NoError(t, table.PlayRound(context.Background()))

	var dealt []HandEvent
	for _, e := range events.events {
		if h, ok := e.(HandEvent); ok && h.Action == ActionDeal {
			dealt = append(dealt, h)
		}
	}
	require.Len(t, dealt, 3)
	assert.Equal(t, "Alice", dealt[0].Player)
	assert.Equal(t, deck.MustParseCards("Th9d"), dealt[0].Hand.Cards)
	assert.Equal(t, "Bob", dealt[1].Player)
	assert.Equal(t, deck.MustParseCards("Ts8c"), dealt[1].Hand.Cards)
	assert.True(t, dealt[2].IsDealer())
	assert.Equal(t, deck.MustParseCards("2h"), dealt[2].Hand.Cards)
	assert.Equal(t, 1, dealt[2].Hand.HiddenCards)
}

func TestTableRemovesPlayerOnAgentError(t *testing.T) {
	lost := errors.New("connection lost")
	table, events := newTestTable(t, stackedDeck(t, deck.Standard, "Th8dTs7c"))
	seat(t, table, "Alice", 100, &ScriptedAgent{Err: lost})
	bob := &ScriptedAgent{Bets: []Chips{WholeChips(10)}}
	seat(t, table, "Bob", 100, bob)

	require.NoError(t, table.Run(context.Background()))

	removed := events.removals()
	require.Len(t, removed, 2)
	assert.Equal(t, "Alice", removed[0].Player)
	assert.Equal(t, RemovalKicked, removed[0].Reason)
	assert.ErrorIs(t, removed[0].Err, lost)
	assert.Equal(t, WholeChips(100), removed[0].Chips)

	assert.Equal(t, "Bob", removed[1].Player)
	assert.Equal(t, RemovalDeclined, removed[1].Reason)
	assert.Equal(t, WholeChips(110), removed[1].Chips)
	assert.Equal(t, []string{"bet", "hit", "again"}, bob.Calls())
}

func TestTableRejectsOutOfRangeBets(t *testing.T) {
	tests := []struct {
		name  string
		chips int
		bet   int
		want  error
	}{
		{"below minimum", 100, 3, ErrInvalidDecision},
		{"above maximum", 200, 101, ErrInvalidDecision},
		{"more than balance", 50, 60, ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, events := newTestTable(t, stackedDeck(t, deck.Standard, ""))
			seat(t, table, "Alice", tt.chips, &ScriptedAgent{Bets: []Chips{WholeChips(tt.bet)}})

			require.NoError(t, table.PlayRound(context.Background()))
			assert.Equal(t, Terminated, table.State())

			removed := events.removals()
			require.Len(t, removed, 1)
			assert.Equal(t, RemovalKicked, removed[0].Reason)
			assert.ErrorIs(t, removed[0].Err, tt.want)
			assert.Equal(t, WholeChips(tt.chips), removed[0].Chips)
			assert.Zero(t, events.count(EventTypeSettlement))
		})
	}
}

func TestTableRemovesBrokePlayerWithoutAsking(t *testing.T) {
	agent := &ScriptedAgent{Bets: []Chips{WholeChips(10)}}
	table, events := newTestTable(t, stackedDeck(t, deck.Standard, "Th6dTs7c"))
	seat(t, table, "Alice", 10, agent)

	require.NoError(t, table.Run(context.Background()))

	assert.Equal(t, []string{"bet", "hit"}, agent.Calls())
	removed := events.removals()
	require.Len(t, removed, 1)
	assert.Equal(t, RemovalBroke, removed[0].Reason)
	assert.Zero(t, removed[0].Chips)
}

func TestTableUnaffordableSplitForfeitsBet(t *testing.T) {
	agent := &ScriptedAgent{Bets: []Chips{WholeChips(10)}, Splits: []bool{true}}
	d := stackedDeck(t, deck.SixPack, "8h8hTs7c")
	table, events := newTestTable(t, d)
	seat(t, table, "Alice", 10, agent)

	require.NoError(t, table.PlayRound(context.Background()))

	removed := events.removals()
	require.Len(t, removed, 1)
	assert.Equal(t, RemovalKicked, removed[0].Reason)
	assert.ErrorIs(t, removed[0].Err, ErrInsufficientFunds)
	assert.Equal(t, WholeChips(10), table.HouseNet())
	assert.Equal(t, 4, d.Discarded())
	assert.NoError(t, table.ValidateChipConservation())
}

func TestTableMultipleRounds(t *testing.T) {
	agent := &ScriptedAgent{Again: []bool{true, true, false}}
	table, events := newTestTable(t, stackedDeck(t, deck.Standard, "Th8dTs7c"))
	seat(t, table, "Alice", 100, agent)

	require.NoError(t, table.Run(context.Background()))

	assert.Equal(t, 3, table.Round())
	assert.Equal(t, 3, events.count(EventTypeRoundStart))
	assert.Equal(t, 3, events.count(EventTypeRoundEnd))
	assert.Equal(t, 1, events.count(EventTypeTableClosed))
	assert.Equal(t, WholeChips(115), table.Departed()[0].Chips)

	for _, e := range events.events {
		if rs, ok := e.(RoundStartEvent); ok {
			assert.True(t, rs.Shuffled, "standard deck reshuffles every round")
		}
	}
}

func TestTableHandEvents(t *testing.T) {
	agent := &ScriptedAgent{Bets: []Chips{WholeChips(10)}, Hits: []bool{true, false}}
	table, events := newTestTable(t, stackedDeck(t, deck.Standard, "2h3dTs7c4s"))
	seat(t, table, "Alice", 100, agent)

	require.NoError(t, table.Run(context.Background()))

	assert.Equal(t, []HandAction{ActionDeal, ActionHit, ActionStand}, events.handActions("Alice"))
	assert.Equal(t, []HandAction{ActionDeal, ActionStand}, events.handActions(""))
	assert.Equal(t, 1, events.count(EventTypeDealerReveal))
}

type exhaustedDeck struct{ deck.Deck }

func (exhaustedDeck) Draw() (deck.Card, error) { return deck.Card{}, deck.ErrDeckExhausted }

func TestTableDeckExhaustedIsFatal(t *testing.T) {
	table, _ := newTestTable(t, exhaustedDeck{stackedDeck(t, deck.Standard, "")})
	seat(t, table, "Alice", 100, &ScriptedAgent{})

	err := table.Run(context.Background())
	assert.ErrorIs(t, err, deck.ErrDeckExhausted)
	assert.Len(t, table.Players(), 1)
	assert.NoError(t, table.ValidateChipConservation())
}

func TestTableContextCancelled(t *testing.T) {
	table, _ := newTestTable(t, stackedDeck(t, deck.Standard, ""))
	seat(t, table, "Alice", 100, &ScriptedAgent{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, table.Run(ctx), context.Canceled)
	assert.Len(t, table.Players(), 1)
}

// randomAgent makes legal but arbitrary decisions.
type randomAgent struct {
	rng    *rand.Rand
	rounds int
}

func (a *randomAgent) PlaceBet(_ context.Context, v BetView) (Chips, error) {
	lo, hi := v.MinBet.Whole(), v.MaxAllowed().Whole()
	return WholeChips(randutil.Between(a.rng, lo, hi)), nil
}

func (a *randomAgent) Split(_ context.Context, v TurnView) (bool, error) {
	return v.CanAfford() && a.rng.IntN(2) == 0, nil
}

func (a *randomAgent) DoubleDown(_ context.Context, v TurnView) (bool, error) {
	return v.CanAfford() && a.rng.IntN(2) == 0, nil
}

func (a *randomAgent) Hit(_ context.Context, v TurnView) (bool, error) {
	return v.Hand.Value < 17 && a.rng.IntN(4) > 0, nil
}

func (a *randomAgent) PlayAgain(_ context.Context, v PlayerView) (bool, error) {
	return v.Round < a.rounds, nil
}

func TestTableChipConservationOverLongSession(t *testing.T) {
	d, err := deck.New(deck.SixPack, randutil.New(99))
	require.NoError(t, err)
	table, events := newTestTable(t, d)

	rng := randutil.New(1234)
	for i := 1; i <= 4; i++ {
		seat(t, table, DefaultPlayerName(i), 500, &randomAgent{rng: rng, rounds: 300})
	}

	require.NoError(t, table.Run(context.Background()))
	assert.Equal(t, Terminated, table.State())
	assert.Equal(t, WholeChips(2000), table.TotalChips())
	assert.Len(t, table.Departed(), 4)
	assert.Equal(t, 1, events.count(EventTypeTableClosed))
}
