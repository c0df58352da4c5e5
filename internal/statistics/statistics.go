// Package statistics aggregates per-hand results from simulated sessions.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/blackjack/internal/game"
)

// HandResult is the settled outcome of one player hand.
type HandResult struct {
	Outcome game.Outcome
	Bet     game.Chips // final wager, doubled if the hand was doubled down
	Payout  game.Chips // amount returned to the player, bet included
	Seat    int        // 1-7
	Split   bool       // the hand came from a split pair
	Doubled bool
}

// Net is the player's gain on the hand in whole chips.
func (r HandResult) Net() float64 {
	return chips(r.Payout - r.Bet)
}

func chips(c game.Chips) float64 {
	return float64(c) / float64(game.WholeChips(1))
}

// SeatStats tracks results for one seat.
type SeatStats struct {
	Hands  int
	SumNet float64
}

// Statistics accumulates net results per hand, in chips.
type Statistics struct {
	Hands   int
	SumNet  float64
	SumNet2 float64   // sum of squares for variance
	Values  []float64 // every result, for median and percentiles

	Wagered float64
	Paid    float64

	// Outcome counts and the net each outcome contributed, indexed by
	// game.Outcome.
	Outcomes   [4]int
	OutcomeNet [4]float64

	Splits  int
	Doubles int

	Seats [game.MaxSeats + 1]SeatStats // index 0 unused
}

// Add incorporates a hand result.
func (s *Statistics) Add(r HandResult) {
	net := r.Net()
	s.Hands++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)

	s.Wagered += chips(r.Bet)
	s.Paid += chips(r.Payout)

	if o := int(r.Outcome); o >= 0 && o < len(s.Outcomes) {
		s.Outcomes[o]++
		s.OutcomeNet[o] += net
	}
	if r.Split {
		s.Splits++
	}
	if r.Doubled {
		s.Doubles++
	}
	if r.Seat >= 1 && r.Seat <= game.MaxSeats {
		s.Seats[r.Seat].Hands++
		s.Seats[r.Seat].SumNet += net
	}
}

// Merge folds other into s. Sessions run in parallel each keep their own
// Statistics and are merged at the end.
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Wagered += other.Wagered
	s.Paid += other.Paid
	for i := range s.Outcomes {
		s.Outcomes[i] += other.Outcomes[i]
		s.OutcomeNet[i] += other.OutcomeNet[i]
	}
	s.Splits += other.Splits
	s.Doubles += other.Doubles
	for i := range s.Seats {
		s.Seats[i].Hands += other.Seats[i].Hands
		s.Seats[i].SumNet += other.Seats[i].SumNet
	}
}

// Count returns how many hands ended with outcome o.
func (s *Statistics) Count(o game.Outcome) int {
	if int(o) < 0 || int(o) >= len(s.Outcomes) {
		return 0
	}
	return s.Outcomes[o]
}

// Rate returns the share of hands that ended with outcome o.
func (s *Statistics) Rate(o game.Outcome) float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Count(o)) / float64(s.Hands)
}

// Mean returns the mean net result per hand.
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumNet / float64(s.Hands)
}

// Variance returns the sample variance of the results.
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	v := (s.SumNet2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
	// rounding can push a zero variance slightly negative
	return math.Max(v, 0)
}

// StdDev returns the sample standard deviation.
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// HouseEdge is the house's win as a fraction of everything wagered.
func (s *Statistics) HouseEdge() float64 {
	if s.Wagered == 0 {
		return 0
	}
	return -s.SumNet / s.Wagered
}

// Median returns the median result.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at percentile p (0.0 to 1.0), interpolating
// between neighbours.
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean result for a seat.
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 1 || seat > game.MaxSeats {
		return 0
	}
	ss := s.Seats[seat]
	if ss.Hands == 0 {
		return 0
	}
	return ss.SumNet / float64(ss.Hands)
}

// IsLedgerBalanced checks that the per-outcome nets add up to the total and
// that payouts minus wagers equal the net.
func (s *Statistics) IsLedgerBalanced() bool {
	byOutcome := 0.0
	for _, n := range s.OutcomeNet {
		byOutcome += n
	}
	return math.Abs(s.SumNet-byOutcome) <= 1e-6 &&
		math.Abs(s.SumNet-(s.Paid-s.Wagered)) <= 1e-6
}

// Validate checks the internal consistency of the collected data.
func (s *Statistics) Validate() error {
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)", len(s.Values), s.Hands)
	}
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: net=%.2f paid=%.2f wagered=%.2f", s.SumNet, s.Paid, s.Wagered)
	}

	total := 0
	for _, n := range s.Outcomes {
		total += n
	}
	if total != s.Hands {
		return fmt.Errorf("outcome total (%d) does not match hands count (%d)", total, s.Hands)
	}

	seats := 0
	for seat := 1; seat <= game.MaxSeats; seat++ {
		seats += s.Seats[seat].Hands
	}
	if seats != s.Hands {
		return fmt.Errorf("seat hands total (%d) does not match hands count (%d)", seats, s.Hands)
	}
	if s.Splits > s.Hands || s.Doubles > s.Hands {
		return fmt.Errorf("splits (%d) or doubles (%d) exceed hands (%d)", s.Splits, s.Doubles, s.Hands)
	}
	return nil
}
