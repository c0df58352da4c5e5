package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, 5, c.Table.MinBet)
	assert.Equal(t, 100, c.Table.MaxBet)
	assert.Equal(t, "standard", c.Table.Deck)
	require.Len(t, c.Players, 1)
	assert.Equal(t, "Player 1", c.Players[0].Name)
	assert.Equal(t, HumanAgent, c.Players[0].Agent)
	assert.Equal(t, 100, c.Players[0].Chips)
	assert.Equal(t, "blackjack.log", c.Log.File)
	assert.Equal(t, 1, c.HumanSeats())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.hcl")
	src := `
table {
  min_bet = 10
  max_bet = 500
  deck    = "sixpack"
}

player "Alice" {
  chips = 250
}

player "Robot" {
  chips = 1000
  agent = "basic"
}

log {
  level = "debug"
  file  = "/tmp/bj.log"
}

simulate {
  sessions = 8
  rounds   = 200
  players  = 3
  strategy = "cautious"
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, game.TableConfig{MinBet: game.WholeChips(10), MaxBet: game.WholeChips(500)}, c.TableConfig())
	kind, err := c.DeckKind()
	require.NoError(t, err)
	assert.Equal(t, deck.SixPack, kind)

	require.Len(t, c.Players, 2)
	assert.Equal(t, PlayerSettings{Name: "Alice", Chips: 250, Agent: HumanAgent}, c.Players[0])
	assert.Equal(t, PlayerSettings{Name: "Robot", Chips: 1000, Agent: "basic"}, c.Players[1])
	assert.Equal(t, 1, c.HumanSeats())

	assert.Equal(t, log.DebugLevel, c.LogLevel())
	assert.Equal(t, "/tmp/bj.log", c.Log.File)
	assert.Equal(t, SimulateSettings{Sessions: 8, Rounds: 200, Players: 3, Strategy: "cautious"}, *c.Simulate)
}

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
table {
  min_bet = 200
}
player "Bob" {}
`), "inline.hcl")
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, 200, c.Table.MinBet)
	assert.Equal(t, 200, c.Table.MaxBet, "max bet never defaults below the minimum")
	assert.Equal(t, 100, c.Players[0].Chips)
	assert.Equal(t, "basic", c.Simulate.Strategy)
	assert.Equal(t, log.InfoLevel, c.LogLevel())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`table {`), "broken.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL")

	_, err = Parse([]byte(`table { min_bet = "lots" }`), "types.hcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode HCL")

	_, err = Parse([]byte(`croupier "Sam" {}`), "unknown.hcl")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero min bet", func(c *Config) { c.Table.MinBet = 0 }, "min_bet must be positive"},
		{"max below min", func(c *Config) { c.Table.MaxBet = 1 }, "max_bet 1 is below min_bet 5"},
		{"bad deck", func(c *Config) { c.Table.Deck = "tarot" }, "unknown deck type"},
		{"no players", func(c *Config) { c.Players = nil }, "at least one player"},
		{"too many players", func(c *Config) {
			c.Players = nil
			for i := 1; i <= 8; i++ {
				c.Players = append(c.Players, PlayerSettings{Name: game.DefaultPlayerName(i), Chips: 10, Agent: "dealer"})
			}
		}, "table seats 7"},
		{"duplicate name", func(c *Config) {
			c.Players = append(c.Players, c.Players[0])
		}, "configured twice"},
		{"broke player", func(c *Config) { c.Players[0].Chips = -5 }, "chips must be positive"},
		{"unknown agent", func(c *Config) { c.Players[0].Agent = "oracle" }, `unknown agent "oracle"`},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, "log:"},
		{"bad sim players", func(c *Config) { c.Simulate.Players = 9 }, "players must be between 1 and 7"},
		{"bad sim strategy", func(c *Config) { c.Simulate.Strategy = "oracle" }, "unknown strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
