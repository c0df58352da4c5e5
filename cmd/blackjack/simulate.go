package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

var sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))

// SimulateCmd plays bot sessions in parallel and reports the results.
type SimulateCmd struct {
	Sessions int           `help:"Number of independent sessions (overrides config)"`
	Rounds   int           `help:"Rounds per session (overrides config)"`
	Players  int           `help:"Bots per table (overrides config)"`
	Strategy string        `help:"Bot strategy: basic, dealer, cautious, random (overrides config)"`
	BetUnits int           `default:"1" help:"Bet this many table minimums per hand"`
	Chips    int           `help:"Buy-in per bot (defaults to 1000 minimum bets)"`
	Deck     string        `help:"Deck type: standard or sixpack (overrides config)"`
	Seed     int64         `default:"0" help:"RNG seed (0 for random)"`
	Parallel int           `default:"0" help:"Sessions run at once (0 for one per CPU)"`
	Timeout  time.Duration `default:"0s" help:"Abort the simulation after this long (0 for no limit)"`
}

func (c *SimulateCmd) Run(globals *Globals) error {
	ctx, stop := signalContext()
	defer stop()
	return c.run(ctx, globals, os.Stdout)
}

func (c *SimulateCmd) run(ctx context.Context, globals *Globals, out io.Writer) error {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	kind, err := cfg.DeckKind()
	if err != nil {
		return err
	}

	level := log.WarnLevel
	if globals.Debug {
		level = log.DebugLevel
	}
	logger := newStderrLogger(level)

	_, seed := randutil.Resolve(seedPtr(c.Seed))
	sim := simulator.New(simulator.Config{
		Sessions: cfg.Simulate.Sessions,
		Rounds:   cfg.Simulate.Rounds,
		Players:  cfg.Simulate.Players,
		Strategy: cfg.Simulate.Strategy,
		BetUnits: c.BetUnits,
		Chips:    game.WholeChips(c.Chips),
		Table:    cfg.TableConfig(),
		Deck:     kind,
		Seed:     seed,
		Parallel: c.Parallel,
		Timeout:  c.Timeout,
		Logger:   logger,
	})

	result, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	printSimulation(out, sim.Config(), result)
	return nil
}

func (c *SimulateCmd) applyOverrides(cfg *config.Config) {
	if c.Sessions > 0 {
		cfg.Simulate.Sessions = c.Sessions
	}
	if c.Rounds > 0 {
		cfg.Simulate.Rounds = c.Rounds
	}
	if c.Players > 0 {
		cfg.Simulate.Players = c.Players
	}
	if c.Strategy != "" {
		cfg.Simulate.Strategy = c.Strategy
	}
	if c.Deck != "" {
		cfg.Table.Deck = c.Deck
	}
}

func printSimulation(w io.Writer, cfg simulator.Config, r *simulator.Result) {
	stats := r.Stats
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf(" ♠ ♥ %s strategy vs the house ♦ ♣ ", cfg.Strategy)))
	fmt.Fprintf(w, "Sessions: %d, rounds: %d, hands: %d, seed: %d, deck: %s\n",
		r.Sessions, r.Rounds, stats.Hands, cfg.Seed, cfg.Deck)
	fmt.Fprintf(w, "Table: %s-%s, bet %s, elapsed %s\n",
		cfg.Table.MinBet, cfg.Table.MaxBet, cfg.Table.MinBet*game.Chips(max(cfg.BetUnits, 1)), r.Elapsed.Round(time.Millisecond))

	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("Results"))
	fmt.Fprintf(w, "Mean: %.4f chips/hand\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.4f chips/hand\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f chips\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f chips\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] chips/hand\n", low, high)
	fmt.Fprintf(w, "House edge: %.2f%%\n", stats.HouseEdge()*100)
	fmt.Fprintf(w, "House net: %s chips\n", r.HouseNet)

	fmt.Fprintln(w)
	fmt.Fprintln(w, sectionStyle.Render("Outcomes"))
	for _, o := range []game.Outcome{game.PlayerNatural, game.PlayerWins, game.Draw, game.DealerWins} {
		fmt.Fprintf(w, "%-15s %7d (%5.1f%%) %+12.2f chips\n",
			capitalize(o.String()), stats.Count(o), stats.Rate(o)*100, stats.OutcomeNet[o])
	}
	fmt.Fprintf(w, "Splits: %d hands, doubles: %d hands, broke players: %d\n", stats.Splits, stats.Doubles, r.Broke)

	if cfg.Players > 1 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionStyle.Render("Seats"))
		for seat := 1; seat <= game.MaxSeats; seat++ {
			if s := stats.Seats[seat]; s.Hands > 0 {
				fmt.Fprintf(w, "Seat %d: %d hands, %.4f chips/hand\n", seat, s.Hands, stats.SeatMean(seat))
			}
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
