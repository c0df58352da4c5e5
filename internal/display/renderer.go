package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

// Options controls how the renderer writes to the terminal.
type Options struct {
	// NoColor disables ANSI colours.
	NoColor bool
	// Clear clears the screen at the start of every round and before the
	// dealer plays.
	Clear bool
}

// Renderer prints table events as text. It implements game.EventSubscriber.
type Renderer struct {
	w      io.Writer
	out    *termenv.Output
	styles Styles
	clear  bool
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer, opts Options) *Renderer {
	var outOpts []termenv.OutputOption
	if opts.NoColor {
		outOpts = append(outOpts, termenv.WithProfile(termenv.Ascii))
	}
	return &Renderer{
		w:      w,
		out:    termenv.NewOutput(w, outOpts...),
		styles: NewStyles(w, opts.NoColor),
		clear:  opts.Clear,
	}
}

// Styles returns the styles the renderer draws with.
func (r *Renderer) Styles() Styles { return r.styles }

// OnEvent renders one table event.
func (r *Renderer) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.RoundStartEvent:
		r.roundStart(e)
	case game.HandEvent:
		r.hand(e)
	case game.DealerRevealEvent:
		r.clearScreen()
		r.println(r.styles.Dealer.Render("Dealer"))
		r.println(r.FormatHand(e.Hand))
	case game.SettlementEvent:
		r.settlement(e)
	case game.PlayerRemovedEvent:
		r.removed(e)
	case game.RoundEndEvent:
		r.roundEnd(e)
	case game.TableClosedEvent:
		r.println("")
		r.println(r.styles.Info.Render(fmt.Sprintf("Table closed after %d rounds.", e.Rounds)))
	}
}

func (r *Renderer) roundStart(e game.RoundStartEvent) {
	r.clearScreen()
	r.println(r.styles.Header.Render(fmt.Sprintf(" Round %d ", e.Round)))
	if e.Shuffled {
		r.println(r.styles.Info.Render("Shuffling the deck..."))
	}
}

func (r *Renderer) hand(e game.HandEvent) {
	if e.IsDealer() {
		switch e.Action {
		case game.ActionDeal:
			r.println("")
			r.println(r.styles.Dealer.Render("Dealer"))
			r.println(r.FormatHand(e.Hand))
		case game.ActionHit:
			r.println("Dealer draws " + r.styles.Card(*e.Card))
		case game.ActionBust:
			r.println(r.styles.Success.Render(fmt.Sprintf("Dealer busts with %d.", e.Hand.Value)))
		case game.ActionStand:
			r.println(fmt.Sprintf("Dealer stands on %d.", e.Hand.Value))
		}
		return
	}

	switch e.Action {
	case game.ActionDeal:
		r.println("")
		r.println(r.styles.HandInfo.Render(e.Player) + r.styles.Info.Render(fmt.Sprintf("  chips remaining: %s", e.Chips)))
		r.println(r.FormatHand(e.Hand))
	case game.ActionSplit:
		r.println(fmt.Sprintf("%s splits. %s", e.Player, r.FormatHand(e.Hand)))
	case game.ActionDouble:
		r.println(fmt.Sprintf("%s doubles down and draws %s. %s", e.Player, r.styles.Card(*e.Card), r.FormatHand(e.Hand)))
	case game.ActionHit:
		r.println(fmt.Sprintf("%s draws %s. %s", e.Player, r.styles.Card(*e.Card), r.FormatHand(e.Hand)))
	case game.ActionBust:
		r.println(r.styles.Error.Render(fmt.Sprintf("%s busts with %d.", e.Player, e.Hand.Value)))
	case game.ActionStand:
		r.println(fmt.Sprintf("%s stays on %d.", e.Player, e.Hand.Value))
	}
}

func (r *Renderer) settlement(e game.SettlementEvent) {
	r.println(fmt.Sprintf("%s, %s -> Total: %d", e.Player, e.Hand.Name, e.Hand.Value))
	switch e.Outcome {
	case game.DealerWins:
		r.println(r.styles.Error.Render("You lose."))
	case game.Draw:
		r.println(r.styles.Warning.Render("Draw"))
	case game.PlayerWins:
		r.println(r.styles.Success.Render(fmt.Sprintf("You win! (+%s)", e.Payout)))
	case game.PlayerNatural:
		r.println(r.styles.Success.Render(fmt.Sprintf("BLACKJACK! (+%s)", e.Payout)))
	}
}

func (r *Renderer) removed(e game.PlayerRemovedEvent) {
	switch e.Reason {
	case game.RemovalKicked:
		r.println(r.styles.Error.Render(fmt.Sprintf("Something went wrong. %s kicked from game.", e.Player)))
	case game.RemovalBroke:
		r.println(r.styles.Warning.Render(fmt.Sprintf("%s doesn't have enough chips to play.", e.Player)))
	default:
		r.println(fmt.Sprintf("%s leaves the table with %s chips.", e.Player, e.Chips))
	}
}

func (r *Renderer) roundEnd(e game.RoundEndEvent) {
	if len(e.Players) == 0 {
		return
	}
	parts := make([]string, len(e.Players))
	for i, p := range e.Players {
		parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Chips)
	}
	r.println(r.styles.Info.Render("Chips  " + strings.Join(parts, "  ")))
}

// FormatCards renders cards as "[A♥ K♦]".
func (r *Renderer) FormatCards(cards []deck.Card) string {
	return FormatCards(r.styles, cards, 0)
}

// FormatHand renders a hand snapshot with its total, or the dealer form
// with the hole card hidden.
func (r *Renderer) FormatHand(s game.HandSnapshot) string {
	return FormatHand(r.styles, s)
}

// FormatCards renders cards followed by hidden placeholders.
func FormatCards(styles Styles, cards []deck.Card, hidden int) string {
	parts := make([]string, 0, len(cards)+hidden)
	for _, c := range cards {
		parts = append(parts, styles.Card(c))
	}
	for i := 0; i < hidden; i++ {
		parts = append(parts, styles.Hidden.Render("[ HIDDEN ]"))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// FormatHand renders a hand snapshot.
func FormatHand(styles Styles, s game.HandSnapshot) string {
	cards := FormatCards(styles, s.Cards, s.HiddenCards)
	if s.HiddenCards > 0 {
		return fmt.Sprintf("%s Showing: %d", cards, s.Value)
	}

	var b strings.Builder
	b.WriteString(cards)
	fmt.Fprintf(&b, " Total: %d", s.Value)
	switch {
	case s.Natural:
		b.WriteString(" (blackjack)")
	case s.Busted:
		b.WriteString(" (bust)")
	case s.Soft:
		b.WriteString(" (soft)")
	}
	if s.Bet > 0 {
		fmt.Fprintf(&b, "  %s, bet placed: %s", s.Name, s.Bet)
	}
	return b.String()
}

func (r *Renderer) clearScreen() {
	if r.clear {
		r.out.ClearScreen()
	}
}

func (r *Renderer) println(s string) {
	fmt.Fprintln(r.w, s)
}

// Say prints a plain message.
func (r *Renderer) Say(msg string) {
	r.println(msg)
}

var _ game.EventSubscriber = (*Renderer)(nil)
