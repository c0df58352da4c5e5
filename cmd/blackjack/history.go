package main

import (
	"fmt"
	"io"
	"os"

	"github.com/lox/blackjack/internal/history"
)

// HistoryCmd prints a saved session transcript.
type HistoryCmd struct {
	File   string `arg:"" type:"existingfile" help:"Transcript written by play --history"`
	Rounds bool   `short:"r" help:"Print every round, not just the totals"`
}

func (c *HistoryCmd) Run(globals *Globals) error {
	return c.run(os.Stdout)
}

func (c *HistoryCmd) run(out io.Writer) error {
	s, err := history.Load(c.File)
	if err != nil {
		return err
	}

	if c.Rounds {
		for _, round := range s.Rounds {
			printRound(out, round)
		}
		fmt.Fprintln(out)
	}
	printSummary(out, history.Summarize(s))
	return nil
}

func printRound(w io.Writer, r history.Round) {
	header := fmt.Sprintf("Round %d", r.Number)
	if r.Shuffled {
		header += " (shuffled)"
	}
	fmt.Fprintln(w, sectionStyle.Render(header))
	fmt.Fprintf(w, "  Dealer %v = %d\n", r.Dealer.Cards, r.Dealer.Value)
	for _, h := range r.Hands {
		doubled := ""
		if h.Doubled {
			doubled = ", doubled"
		}
		fmt.Fprintf(w, "  %s, %s %v = %d: %s (bet %g%s, %+g)\n",
			h.Player, h.Name, h.Cards, h.Value, h.Outcome, h.Bet, doubled, h.Net())
	}
	for _, rm := range r.Removed {
		fmt.Fprintf(w, "  %s left (%s) with %g chips\n", rm.Player, rm.Reason, rm.Chips)
	}
}

func printSummary(w io.Writer, s history.Summary) {
	fmt.Fprintln(w, titleStyle.Render(" Session "+s.SessionID+" "))
	fmt.Fprintf(w, "Rounds: %d, hands: %d, naturals: %d, shuffles: %d\n", s.Rounds, s.Hands, s.Naturals, s.Shuffles)
	fmt.Fprintf(w, "House net: %+g chips\n", s.HouseNet)
	fmt.Fprintln(w)
	for _, p := range s.Leaders() {
		status := "seated"
		if p.Left != "" {
			status = p.Left
		}
		fmt.Fprintf(w, "%-12s %3d hands  W%d D%d L%d  wagered %g  net %+g  final %g (%s)\n",
			p.Name, p.Hands, p.Wins, p.Pushes, p.Losses, p.Wagered, p.Net, p.Final, status)
	}
}
