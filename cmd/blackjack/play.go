package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/history"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs an interactive table.
type PlayCmd struct {
	MinBet   int      `help:"Minimum bet (overrides config)"`
	MaxBet   int      `help:"Maximum bet (overrides config)"`
	Deck     string   `help:"Deck type: standard or sixpack (overrides config)"`
	Players  int      `short:"p" help:"Number of human players (overrides config)"`
	Chips    int      `help:"Chips each human player buys in with"`
	Bots     []string `help:"Seat bots with these strategies alongside the human players"`
	Seed     int64    `default:"0" help:"RNG seed (0 for random)"`
	Scenario string   `help:"Stack the deck for a demo: split, double, natural, naturals, split-double"`
	Setup    bool     `help:"Ask for limits, deck type and players interactively"`
	TUI      bool     `name:"tui" help:"Use the interactive text input prompt"`
	NoColor  bool     `help:"Disable colours"`
	Clear    bool     `help:"Clear the screen between rounds"`
	Save     string   `name:"history" type:"path" help:"Write a session transcript (TOML) to this file"`
	LogFile  string   `type:"path" help:"Log file (overrides config)"`
}

func (c *PlayCmd) Run(globals *Globals) error {
	ctx, stop := signalContext()
	defer stop()
	return c.run(ctx, globals, os.Stdin, os.Stdout)
}

func (c *PlayCmd) run(ctx context.Context, globals *Globals, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return err
	}
	c.applyOverrides(cfg)

	logPath := cfg.Log.File
	if c.LogFile != "" {
		logPath = c.LogFile
	}
	logger, closer, err := newFileLogger(logPath, logLevel(cfg.LogLevel(), globals.Debug))
	if err != nil {
		return err
	}
	defer closer.Close()

	renderer := display.NewRenderer(out, display.Options{NoColor: c.NoColor, Clear: c.Clear})
	var prompter display.Prompter = display.NewLinePrompter(in, out)
	if c.TUI {
		prompter = tui.NewPrompter(in, out, logger)
	}

	if c.Setup {
		setup, err := display.SetupTable(ctx, prompter)
		if err != nil {
			return quitOnCancel(renderer, err)
		}
		applySetup(cfg, setup)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	rng, seed := randutil.Resolve(seedPtr(c.Seed))
	kind, err := cfg.DeckKind()
	if err != nil {
		return err
	}
	var deckOpts []deck.Option
	if c.Scenario != "" {
		scenario, err := deck.LookupScenario(c.Scenario)
		if err != nil {
			return err
		}
		if scenario.Kind > kind {
			kind = scenario.Kind
		}
		deckOpts = append(deckOpts, deck.WithStack(scenario.Cards...))
		renderer.Say(fmt.Sprintf("Scenario: %s", scenario.Description))
	}
	d, err := deck.New(kind, rng, deckOpts...)
	if err != nil {
		return err
	}

	bus := game.NewEventBus()
	bus.Subscribe(renderer)
	var recorder *history.Recorder
	if c.Save != "" {
		recorder = history.NewRecorder(cfg.TableConfig(), kind, nil)
		bus.Subscribe(recorder)
	}

	table, err := game.NewTable(d, cfg.TableConfig(), logger, game.WithEventBus(bus))
	if err != nil {
		return err
	}
	logger.Info("Starting session", "session", table.SessionID(), "seed", seed, "deck", kind,
		"min_bet", cfg.Table.MinBet, "max_bet", cfg.Table.MaxBet, "players", len(cfg.Players))

	humans := display.NewHumanAgent(prompter, renderer.Styles())
	if err := seatPlayers(table, cfg, humans, seed, logger); err != nil {
		return err
	}

	runErr := table.Run(ctx)
	if recorder != nil {
		if runErr != nil {
			recorder.SetSessionID(table.SessionID())
		}
		if err := recorder.Save(c.Save); err != nil {
			logger.Error("Failed to save history", "path", c.Save, "error", err)
			renderer.Say(fmt.Sprintf("Could not save history: %v", err))
		} else {
			renderer.Say(fmt.Sprintf("Session saved to %s", c.Save))
		}
	}
	if runErr != nil {
		return quitOnCancel(renderer, runErr)
	}
	return nil
}

// quitOnCancel turns an interrupt into a clean exit.
func quitOnCancel(r *display.Renderer, err error) error {
	if errors.Is(err, context.Canceled) {
		r.Say("Goodbye.")
		return nil
	}
	return err
}

func seedPtr(seed int64) *int64 {
	if seed == 0 {
		return nil
	}
	return &seed
}

func (c *PlayCmd) applyOverrides(cfg *config.Config) {
	if c.MinBet > 0 {
		cfg.Table.MinBet = c.MinBet
		if cfg.Table.MaxBet < c.MinBet {
			cfg.Table.MaxBet = c.MinBet
		}
	}
	if c.MaxBet > 0 {
		cfg.Table.MaxBet = c.MaxBet
	}
	if c.Deck != "" {
		cfg.Table.Deck = c.Deck
	}
	if c.Players > 0 {
		chips := c.Chips
		if chips <= 0 && len(cfg.Players) > 0 {
			chips = cfg.Players[0].Chips
		}
		cfg.Players = nil
		for i := 1; i <= c.Players; i++ {
			cfg.Players = append(cfg.Players, config.PlayerSettings{
				Name:  game.DefaultPlayerName(i),
				Chips: chips,
				Agent: config.HumanAgent,
			})
		}
	} else if c.Chips > 0 {
		for i := range cfg.Players {
			if cfg.Players[i].Agent == config.HumanAgent {
				cfg.Players[i].Chips = c.Chips
			}
		}
	}
	for i, strategy := range c.Bots {
		chips := c.Chips
		if chips <= 0 {
			chips = cfg.Table.MaxBet * 10
		}
		cfg.Players = append(cfg.Players, config.PlayerSettings{
			Name:  fmt.Sprintf("Bot %d", i+1),
			Chips: chips,
			Agent: strategy,
		})
	}
}

// applySetup replaces the table and the human seats with interactive
// answers. Bot seats are kept after the humans.
func applySetup(cfg *config.Config, s display.TableSetup) {
	cfg.Table.MinBet = s.MinBet
	cfg.Table.MaxBet = s.MaxBet
	cfg.Table.Deck = s.Deck.String()

	players := make([]config.PlayerSettings, 0, len(s.Players)+len(cfg.Players))
	for _, p := range s.Players {
		players = append(players, config.PlayerSettings{
			Name:  p.Name,
			Chips: p.Chips,
			Agent: config.HumanAgent,
		})
	}
	for _, p := range cfg.Players {
		if p.Agent != config.HumanAgent {
			players = append(players, p)
		}
	}
	cfg.Players = players
}

// seatPlayers adds every configured seat. Humans share one agent since turns
// never overlap.
func seatPlayers(table *game.Table, cfg *config.Config, human game.Agent, seed int64, logger *log.Logger) error {
	for i, p := range cfg.Players {
		seat := i + 1
		agent := human
		if p.Agent != config.HumanAgent {
			b, err := bot.ForName(p.Agent, randutil.New(seed+int64(seat)), logger)
			if err != nil {
				return err
			}
			agent = b
		}
		if err := table.AddPlayer(game.NewPlayer(p.Name, seat, game.WholeChips(p.Chips), agent)); err != nil {
			return err
		}
	}
	return nil
}
