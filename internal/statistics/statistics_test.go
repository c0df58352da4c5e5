package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/game"
)

func result(o game.Outcome, bet int, seat int) HandResult {
	b := game.WholeChips(bet)
	return HandResult{Outcome: o, Bet: b, Payout: o.Payout(b), Seat: seat}
}

func TestStatisticsEmpty(t *testing.T) {
	s := &Statistics{}
	assert.Zero(t, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Zero(t, s.StdDev())
	assert.Zero(t, s.StdError())
	assert.Zero(t, s.Median())
	assert.Zero(t, s.HouseEdge())
	assert.Zero(t, s.Rate(game.PlayerWins))
	assert.Error(t, s.Validate())
}

func TestHandResultNet(t *testing.T) {
	assert.Equal(t, -10.0, result(game.DealerWins, 10, 1).Net())
	assert.Equal(t, 0.0, result(game.Draw, 10, 1).Net())
	assert.Equal(t, 10.0, result(game.PlayerWins, 10, 1).Net())
	assert.Equal(t, 7.5, result(game.PlayerNatural, 5, 1).Net())
}

func TestStatisticsSingleValue(t *testing.T) {
	s := &Statistics{}
	s.Add(result(game.PlayerNatural, 10, 3))

	assert.Equal(t, 1, s.Hands)
	assert.Equal(t, 15.0, s.Mean())
	assert.Zero(t, s.Variance())
	assert.Equal(t, 15.0, s.Median())
	assert.Equal(t, 1, s.Count(game.PlayerNatural))
	assert.Equal(t, 15.0, s.SeatMean(3))
	assert.True(t, s.IsLedgerBalanced())
	require.NoError(t, s.Validate())
}

func TestStatisticsMultipleValues(t *testing.T) {
	s := &Statistics{}
	for _, r := range []HandResult{
		result(game.PlayerWins, 10, 1),    // +10
		result(game.DealerWins, 10, 2),    // -10
		result(game.DealerWins, 20, 1),    // -20
		result(game.Draw, 10, 2),          // 0
		result(game.PlayerNatural, 10, 1), // +15
	} {
		s.Add(r)
	}

	assert.Equal(t, 5, s.Hands)
	assert.Equal(t, -5.0, s.SumNet)
	assert.Equal(t, -1.0, s.Mean())
	assert.Equal(t, 60.0, s.Wagered)
	assert.Equal(t, 55.0, s.Paid)
	assert.InDelta(t, 5.0/60.0, s.HouseEdge(), 1e-9)
	assert.Equal(t, 0.0, s.Median())
	assert.Equal(t, -20.0, s.Percentile(0))
	assert.Equal(t, 15.0, s.Percentile(1))

	// sum of squared deviations from -1: 121 + 81 + 361 + 1 + 256 = 820
	assert.InDelta(t, 820.0/4, s.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(205), s.StdDev(), 1e-9)
	assert.InDelta(t, math.Sqrt(205)/math.Sqrt(5), s.StdError(), 1e-9)

	low, high := s.ConfidenceInterval95()
	assert.InDelta(t, -1-1.96*s.StdError(), low, 1e-9)
	assert.InDelta(t, -1+1.96*s.StdError(), high, 1e-9)

	assert.Equal(t, 2, s.Count(game.DealerWins))
	assert.InDelta(t, 0.4, s.Rate(game.DealerWins), 1e-9)
	assert.Equal(t, -30.0, s.OutcomeNet[game.DealerWins])
	assert.InDelta(t, 5.0/3, s.SeatMean(1), 1e-9)
	assert.Equal(t, -5.0, s.SeatMean(2))
	assert.Zero(t, s.SeatMean(0))
	assert.Zero(t, s.SeatMean(8))

	require.NoError(t, s.Validate())
}

func TestStatisticsSplitsAndDoubles(t *testing.T) {
	s := &Statistics{}
	r := result(game.PlayerWins, 20, 1)
	r.Doubled = true
	s.Add(r)
	r = result(game.DealerWins, 10, 1)
	r.Split = true
	s.Add(r)

	assert.Equal(t, 1, s.Doubles)
	assert.Equal(t, 1, s.Splits)
	require.NoError(t, s.Validate())
}

func TestStatisticsMerge(t *testing.T) {
	a, b, all := &Statistics{}, &Statistics{}, &Statistics{}
	results := []HandResult{
		result(game.PlayerWins, 10, 1),
		result(game.DealerWins, 25, 2),
		result(game.PlayerNatural, 5, 3),
		result(game.Draw, 10, 7),
	}
	for i, r := range results {
		all.Add(r)
		if i%2 == 0 {
			a.Add(r)
		} else {
			b.Add(r)
		}
	}

	a.Merge(b)
	assert.Equal(t, all.Hands, a.Hands)
	assert.InDelta(t, all.SumNet, a.SumNet, 1e-9)
	assert.InDelta(t, all.Variance(), a.Variance(), 1e-9)
	assert.Equal(t, all.Outcomes, a.Outcomes)
	assert.Equal(t, all.Seats, a.Seats)
	assert.ElementsMatch(t, all.Values, a.Values)
	require.NoError(t, a.Validate())
}

func TestStatisticsValidateDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(s *Statistics)
		wantErr string
	}{
		{"values", func(s *Statistics) { s.Values = s.Values[:1] }, "values array length"},
		{"ledger", func(s *Statistics) { s.Paid += 5 }, "ledger mismatch"},
		{"outcomes", func(s *Statistics) {
			s.Outcomes[game.Draw]++
		}, "outcome total"},
		{"seats", func(s *Statistics) { s.Seats[4].Hands++ }, "seat hands total"},
		{"splits", func(s *Statistics) { s.Splits = 9 }, "splits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Statistics{}
			s.Add(result(game.PlayerWins, 10, 1))
			s.Add(result(game.DealerWins, 10, 2))
			require.NoError(t, s.Validate())

			tt.corrupt(s)
			err := s.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
