// Package config loads table setups from HCL files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// HumanAgent is the agent name for a seat played from the terminal.
const HumanAgent = "human"

const (
	defaultMinBet   = 5
	defaultMaxBet   = 100
	defaultDeck     = "standard"
	defaultChips    = 100
	defaultLogLevel = "info"
	defaultLogFile  = "blackjack.log"
	defaultSessions = 100
	defaultRounds   = 1000
)

// Config is the complete table configuration.
type Config struct {
	Table    *TableSettings    `hcl:"table,block"`
	Players  []PlayerSettings  `hcl:"player,block"`
	Log      *LogSettings      `hcl:"log,block"`
	Simulate *SimulateSettings `hcl:"simulate,block"`
}

// TableSettings holds bet bounds and the deck variant.
type TableSettings struct {
	MinBet int    `hcl:"min_bet,optional"`
	MaxBet int    `hcl:"max_bet,optional"`
	Deck   string `hcl:"deck,optional"`
}

// PlayerSettings describes one seat. Agent is "human" or a bot strategy.
type PlayerSettings struct {
	Name  string `hcl:"name,label"`
	Chips int    `hcl:"chips,optional"`
	Agent string `hcl:"agent,optional"`
}

// LogSettings controls the log file for interactive play.
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// SimulateSettings are the defaults for the simulate command.
type SimulateSettings struct {
	Sessions int    `hcl:"sessions,optional"`
	Rounds   int    `hcl:"rounds,optional"`
	Players  int    `hcl:"players,optional"`
	Strategy string `hcl:"strategy,optional"`
}

// Default returns the configuration used when no file is present: one human
// player at a single-deck table.
func Default() *Config {
	c := &Config{
		Players: []PlayerSettings{{Name: game.DefaultPlayerName(1)}},
	}
	c.applyDefaults()
	return c
}

// Load reads an HCL configuration file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(file.Body)
}

// Parse decodes configuration from HCL source.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var c Config
	if diags := gohcl.DecodeBody(body, nil, &c); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Table == nil {
		c.Table = &TableSettings{}
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = defaultMinBet
	}
	if c.Table.MaxBet == 0 {
		c.Table.MaxBet = max(defaultMaxBet, c.Table.MinBet)
	}
	if c.Table.Deck == "" {
		c.Table.Deck = defaultDeck
	}

	for i := range c.Players {
		if c.Players[i].Chips == 0 {
			c.Players[i].Chips = defaultChips
		}
		if c.Players[i].Agent == "" {
			c.Players[i].Agent = HumanAgent
		}
	}

	if c.Log == nil {
		c.Log = &LogSettings{}
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.File == "" {
		c.Log.File = defaultLogFile
	}

	if c.Simulate == nil {
		c.Simulate = &SimulateSettings{}
	}
	if c.Simulate.Sessions == 0 {
		c.Simulate.Sessions = defaultSessions
	}
	if c.Simulate.Rounds == 0 {
		c.Simulate.Rounds = defaultRounds
	}
	if c.Simulate.Players == 0 {
		c.Simulate.Players = 1
	}
	if c.Simulate.Strategy == "" {
		c.Simulate.Strategy = "basic"
	}
}

// Validate checks bet bounds, seats and names.
func (c *Config) Validate() error {
	if c.Table.MinBet <= 0 {
		return errors.New("table: min_bet must be positive")
	}
	if c.Table.MaxBet < c.Table.MinBet {
		return fmt.Errorf("table: max_bet %d is below min_bet %d", c.Table.MaxBet, c.Table.MinBet)
	}
	if _, err := deck.ParseKind(c.Table.Deck); err != nil {
		return fmt.Errorf("table: %w", err)
	}

	if len(c.Players) == 0 {
		return errors.New("at least one player must be configured")
	}
	if len(c.Players) > game.MaxSeats {
		return fmt.Errorf("%d players configured but the table seats %d", len(c.Players), game.MaxSeats)
	}
	seen := make(map[string]bool, len(c.Players))
	for _, p := range c.Players {
		if strings.TrimSpace(p.Name) == "" {
			return errors.New("player names must not be empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("player %q configured twice", p.Name)
		}
		seen[p.Name] = true
		if p.Chips <= 0 {
			return fmt.Errorf("player %s: chips must be positive", p.Name)
		}
		if p.Agent != HumanAgent && !bot.IsKnown(p.Agent) {
			return fmt.Errorf("player %s: unknown agent %q", p.Name, p.Agent)
		}
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}

	if c.Simulate.Sessions < 0 || c.Simulate.Rounds < 0 {
		return errors.New("simulate: sessions and rounds must not be negative")
	}
	if c.Simulate.Players < 1 || c.Simulate.Players > game.MaxSeats {
		return fmt.Errorf("simulate: players must be between 1 and %d", game.MaxSeats)
	}
	if !bot.IsKnown(c.Simulate.Strategy) {
		return fmt.Errorf("simulate: unknown strategy %q", c.Simulate.Strategy)
	}
	return nil
}

// TableConfig converts the bet bounds into engine units.
func (c *Config) TableConfig() game.TableConfig {
	return game.TableConfig{
		MinBet: game.WholeChips(c.Table.MinBet),
		MaxBet: game.WholeChips(c.Table.MaxBet),
	}
}

// DeckKind returns the configured deck variant.
func (c *Config) DeckKind() (deck.Kind, error) {
	return deck.ParseKind(c.Table.Deck)
}

// LogLevel returns the configured log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// HumanSeats reports how many seats are played from the terminal.
func (c *Config) HumanSeats() int {
	n := 0
	for _, p := range c.Players {
		if p.Agent == HumanAgent {
			n++
		}
	}
	return n
}
