// Package simulator plays many independent blackjack sessions between bots
// and the house and aggregates the results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
)

// ErrTimeout is returned when the whole simulation exceeds Config.Timeout.
var ErrTimeout = errors.New("simulation timed out")

// AgentFactory builds the agent for one seat of one session.
type AgentFactory func(session, seat int, rng *rand.Rand) (game.Agent, error)

// Config holds the parameters of a simulation run.
type Config struct {
	Sessions int
	Rounds   int // per session; bots leave after this many rounds
	Players  int // bots per table
	Strategy string
	BetUnits int
	Chips    game.Chips // buy-in per bot
	Table    game.TableConfig
	Deck     deck.Kind
	Seed     int64
	Parallel int
	Timeout  time.Duration

	// NewAgent overrides Strategy when set.
	NewAgent AgentFactory

	Logger *log.Logger
	Clock  quartz.Clock
}

// Result summarizes a completed run.
type Result struct {
	Stats    *statistics.Statistics
	Sessions int
	Rounds   int
	HouseNet game.Chips
	Broke    int
	Elapsed  time.Duration
}

// Simulator runs blackjack sessions in parallel.
type Simulator struct {
	config Config
	logger *log.Logger
	clock  quartz.Clock
}

// New creates a simulator, filling unset fields with defaults.
func New(config Config) *Simulator {
	if config.Sessions <= 0 {
		config.Sessions = 1
	}
	if config.Players <= 0 {
		config.Players = 1
	}
	if config.Rounds <= 0 {
		config.Rounds = 100
	}
	if config.Strategy == "" {
		config.Strategy = "basic"
	}
	if config.Table.MinBet == 0 {
		config.Table = game.TableConfig{MinBet: game.WholeChips(5), MaxBet: game.WholeChips(100)}
	}
	if config.Chips == 0 {
		config.Chips = config.Table.MinBet * 1000
	}
	if config.Parallel <= 0 {
		config.Parallel = runtime.GOMAXPROCS(0)
	}

	s := &Simulator{config: config, logger: config.Logger, clock: config.Clock}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	return s
}

// Config returns the effective configuration.
func (s *Simulator) Config() Config { return s.config }

// Run plays every session and returns the merged statistics.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if err := s.config.Table.Validate(); err != nil {
		return nil, err
	}
	if s.config.NewAgent == nil && !bot.IsKnown(s.config.Strategy) {
		_, err := bot.ResolveStrategy(s.config.Strategy)
		return nil, err
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	if s.config.Timeout > 0 {
		timer := s.clock.AfterFunc(s.config.Timeout, func() {
			cancel(fmt.Errorf("%w after %v", ErrTimeout, s.config.Timeout))
		})
		defer timer.Stop()
	}

	start := s.clock.Now()
	s.logger.Info("Starting simulation",
		"sessions", s.config.Sessions,
		"rounds", s.config.Rounds,
		"players", s.config.Players,
		"strategy", s.config.Strategy,
		"seed", s.config.Seed)

	var (
		mu     sync.Mutex
		result = &Result{Stats: &statistics.Statistics{}}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Parallel)
	for i := 0; i < s.config.Sessions; i++ {
		session := i
		g.Go(func() error {
			sr, err := s.playSession(gctx, session)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", session, s.sessionSeed(session), err)
			}
			mu.Lock()
			defer mu.Unlock()
			result.Stats.Merge(sr.stats)
			result.Sessions++
			result.Rounds += sr.rounds
			result.HouseNet += sr.houseNet
			result.Broke += sr.broke
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if cause := context.Cause(ctx); errors.Is(cause, ErrTimeout) {
			return nil, cause
		}
		return nil, err
	}

	result.Elapsed = s.clock.Since(start)
	if err := result.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete",
		"hands", result.Stats.Hands,
		"rounds", result.Rounds,
		"house_edge", fmt.Sprintf("%.4f", result.Stats.HouseEdge()),
		"elapsed", result.Elapsed)
	return result, nil
}

func (s *Simulator) sessionSeed(session int) int64 {
	return s.config.Seed + int64(session)
}

type sessionResult struct {
	stats    *statistics.Statistics
	rounds   int
	houseNet game.Chips
	broke    int
}

// playSession runs one table to completion with its own deck and RNG.
func (s *Simulator) playSession(ctx context.Context, session int) (*sessionResult, error) {
	seed := s.sessionSeed(session)
	rng := randutil.New(seed)
	logger := s.logger.With("session", session)

	d, err := deck.New(s.config.Deck, rng)
	if err != nil {
		return nil, err
	}

	bus := game.NewEventBus()
	collector := newCollector()
	bus.Subscribe(collector)

	// per-round table logging only at debug level
	tableLogger := logger.WithPrefix("table")
	if level := s.logger.GetLevel(); level > log.DebugLevel {
		tableLogger.SetLevel(max(level, log.WarnLevel))
	}

	table, err := game.NewTable(d, s.config.Table, tableLogger, game.WithEventBus(bus), game.WithClock(s.clock))
	if err != nil {
		return nil, err
	}

	for seat := 1; seat <= s.config.Players; seat++ {
		agent, err := s.newAgent(session, seat, randutil.New(seed*int64(game.MaxSeats+1)+int64(seat)), logger)
		if err != nil {
			return nil, err
		}
		name := game.DefaultPlayerName(seat)
		collector.seats[name] = seat
		if err := table.AddPlayer(game.NewPlayer(name, seat, s.config.Chips, agent)); err != nil {
			return nil, err
		}
	}

	if err := table.Run(ctx); err != nil {
		return nil, err
	}
	if err := table.ValidateChipConservation(); err != nil {
		return nil, err
	}

	logger.Debug("Session finished", "rounds", table.Round(), "house_net", table.HouseNet())
	return &sessionResult{
		stats:    collector.stats,
		rounds:   table.Round(),
		houseNet: table.HouseNet(),
		broke:    collector.broke,
	}, nil
}

func (s *Simulator) newAgent(session, seat int, rng *rand.Rand, logger *log.Logger) (game.Agent, error) {
	if s.config.NewAgent != nil {
		return s.config.NewAgent(session, seat, rng)
	}
	return bot.ForName(s.config.Strategy, rng, logger,
		bot.WithRounds(s.config.Rounds),
		bot.WithBetUnits(s.config.BetUnits))
}

// collector turns settlement events into hand results.
type collector struct {
	stats   *statistics.Statistics
	seats   map[string]int
	split   map[string]bool
	doubled map[string]bool
	broke   int
}

func newCollector() *collector {
	return &collector{
		stats:   &statistics.Statistics{},
		seats:   make(map[string]int),
		split:   make(map[string]bool),
		doubled: make(map[string]bool),
	}
}

func handKey(player string, hand game.HandSnapshot) string {
	return player + "/" + hand.Name
}

func (c *collector) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		clear(c.split)
		clear(c.doubled)
	case game.HandEvent:
		switch e.Action {
		case game.ActionSplit:
			c.split[e.Player] = true
		case game.ActionDouble:
			c.doubled[handKey(e.Player, e.Hand)] = true
		}
	case game.SettlementEvent:
		c.stats.Add(statistics.HandResult{
			Outcome: e.Outcome,
			Bet:     e.Hand.Bet,
			Payout:  e.Payout,
			Seat:    c.seats[e.Player],
			Split:   c.split[e.Player],
			Doubled: c.doubled[handKey(e.Player, e.Hand)],
		})
	case game.PlayerRemovedEvent:
		if e.Reason == game.RemovalBroke {
			c.broke++
		}
	}
}
