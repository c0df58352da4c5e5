package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Config string `short:"c" default:"blackjack.hcl" help:"HCL table configuration file (defaults apply when missing)"`
	Debug  bool   `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"withargs" help:"Play blackjack at the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate bot sessions and report house edge"`
	History  HistoryCmd       `cmd:"" help:"Summarize a saved session transcript"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Terminal blackjack against the house"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
