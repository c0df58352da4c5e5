package history

import (
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// PlayerTotals aggregates one player's hands across a session.
type PlayerTotals struct {
	Name    string
	Hands   int
	Wins    int
	Pushes  int
	Losses  int
	Wagered float64
	Net     float64
	Final   float64
	Left    string // removal reason, empty if still seated
}

// Summary condenses a session for display.
type Summary struct {
	SessionID string
	Rounds    int
	Hands     int
	Naturals  int
	Shuffles  int
	HouseNet  float64
	Players   []PlayerTotals
}

// Summarize totals a session per player, in order of first appearance.
func Summarize(s *Session) Summary {
	sum := Summary{
		SessionID: s.SessionID,
		Rounds:    len(s.Rounds),
		HouseNet:  s.HouseNet,
	}

	index := make(map[string]int)
	player := func(name string) *PlayerTotals {
		i, ok := index[name]
		if !ok {
			i = len(sum.Players)
			index[name] = i
			sum.Players = append(sum.Players, PlayerTotals{Name: name})
		}
		return &sum.Players[i]
	}

	for _, round := range s.Rounds {
		if round.Shuffled {
			sum.Shuffles++
		}
		for _, h := range round.Hands {
			p := player(h.Player)
			p.Hands++
			p.Wagered += h.Bet
			p.Net += h.Net()
			p.Final = h.Chips
			switch {
			case h.Net() > 0:
				p.Wins++
			case h.Net() == 0:
				p.Pushes++
			default:
				p.Losses++
			}
			if h.Outcome == game.PlayerNatural.String() {
				sum.Naturals++
			}
			sum.Hands++
		}
		for _, r := range round.Removed {
			p := player(r.Player)
			p.Left = r.Reason
			p.Final = r.Chips
		}
	}
	return sum
}

// Leaders returns the players sorted by net result, best first.
func (s Summary) Leaders() []PlayerTotals {
	out := append([]PlayerTotals(nil), s.Players...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Net > out[j].Net })
	return out
}
