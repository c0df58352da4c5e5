package history

import "time"

// Session is the transcript of one table session.
type Session struct {
	SessionID string     `toml:"session_id"`
	Started   time.Time  `toml:"started"`
	Finished  *time.Time `toml:"finished,omitempty"`
	MinBet    float64    `toml:"min_bet"`
	MaxBet    float64    `toml:"max_bet"`
	Deck      string     `toml:"deck"`
	HouseNet  float64    `toml:"house_net"`
	Rounds    []Round    `toml:"round"`
}

// Round is everything that happened between two deals.
type Round struct {
	ID       string       `toml:"id"`
	Number   int          `toml:"number"`
	Shuffled bool         `toml:"shuffled,omitempty"`
	Dealer   HandRecord   `toml:"dealer"`
	Hands    []HandRecord `toml:"hand"`
	Removed  []Removal    `toml:"removed,omitempty"`
	HouseNet float64      `toml:"house_net"`
}

// HandRecord is one settled hand. The dealer record has no player, bet or
// outcome.
type HandRecord struct {
	Player  string   `toml:"player,omitempty"`
	Name    string   `toml:"name"`
	Cards   []string `toml:"cards"`
	Value   int      `toml:"value"`
	Bet     float64  `toml:"bet,omitempty"`
	Doubled bool     `toml:"doubled,omitempty"`
	Outcome string   `toml:"outcome,omitempty"`
	Payout  float64  `toml:"payout,omitempty"`
	Chips   float64  `toml:"chips,omitempty"`
}

// Net is the player's gain on the hand.
func (h HandRecord) Net() float64 { return h.Payout - h.Bet }

// Removal records a player leaving the table.
type Removal struct {
	Player string  `toml:"player"`
	Reason string  `toml:"reason"`
	Chips  float64 `toml:"chips"`
	Error  string  `toml:"error,omitempty"`
}
