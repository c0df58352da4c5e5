package game

import (
	"context"
	"sync"
)

// ScriptedAgent answers decisions from pre-loaded queues, for tests and
// replays. When a queue runs dry it bets the table minimum and answers no to
// every question.
type ScriptedAgent struct {
	Bets    []Chips
	Splits  []bool
	Doubles []bool
	Hits    []bool
	Again   []bool

	// Err, when set, is returned from every decision.
	Err error

	mu    sync.Mutex
	calls []string
}

// Calls returns the names of the decisions asked so far, in order.
func (a *ScriptedAgent) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

func (a *ScriptedAgent) record(ctx context.Context, name string) error {
	a.mu.Lock()
	a.calls = append(a.calls, name)
	a.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.Err
}

func (a *ScriptedAgent) PlaceBet(ctx context.Context, view BetView) (Chips, error) {
	if err := a.record(ctx, "bet"); err != nil {
		return 0, err
	}
	if len(a.Bets) == 0 {
		return view.MinBet, nil
	}
	bet := a.Bets[0]
	a.Bets = a.Bets[1:]
	return bet, nil
}

func (a *ScriptedAgent) Split(ctx context.Context, _ TurnView) (bool, error) {
	if err := a.record(ctx, "split"); err != nil {
		return false, err
	}
	return pop(&a.Splits), nil
}

func (a *ScriptedAgent) DoubleDown(ctx context.Context, _ TurnView) (bool, error) {
	if err := a.record(ctx, "double"); err != nil {
		return false, err
	}
	return pop(&a.Doubles), nil
}

func (a *ScriptedAgent) Hit(ctx context.Context, _ TurnView) (bool, error) {
	if err := a.record(ctx, "hit"); err != nil {
		return false, err
	}
	return pop(&a.Hits), nil
}

func (a *ScriptedAgent) PlayAgain(ctx context.Context, _ PlayerView) (bool, error) {
	if err := a.record(ctx, "again"); err != nil {
		return false, err
	}
	return pop(&a.Again), nil
}

func pop(q *[]bool) bool {
	if len(*q) == 0 {
		return false
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v
}

var _ Agent = (*ScriptedAgent)(nil)
