// Package game implements the blackjack round engine.
//
// A Table owns one deck, a Dealer and up to seven Players. Each call to
// PlayRound walks the round state machine:
//
//	RoundStart → DeckCheck → Deal → PlayerTurns → DealerTurn → Settle → ContinueDecision
//
// and Run repeats rounds until no players remain, ending in Terminated.
//
// # Decisions and events
//
// Players never read input themselves. Every decision (bet, split, double
// down, hit, play again) is asked of the player's Agent, which receives an
// immutable view and blocks the table until it answers. Everything the table
// does is published on an EventBus so renderers and recorders can follow the
// game without touching its state:
//
//	t, _ := game.NewTable(d, game.TableConfig{MinBet: game.WholeChips(5), MaxBet: game.WholeChips(100)}, logger)
//	t.EventBus().Subscribe(renderer)
//	_ = t.AddPlayer(game.NewPlayer("Player 1", 1, game.WholeChips(500), agent))
//	err := t.Run(ctx)
//
// # Failures
//
// An agent error, an out of range bet, or an unaffordable split or double
// removes only that player; its live bets go to the house. A deck that runs
// dry, a cancelled context or a chip ledger mismatch aborts the round and is
// returned to the caller.
package game
