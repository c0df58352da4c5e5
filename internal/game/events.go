package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for table events
const (
	EventTypeRoundStart    EventType = "round_start"
	EventTypeHand          EventType = "hand"
	EventTypeDealerReveal  EventType = "dealer_reveal"
	EventTypeSettlement    EventType = "settlement"
	EventTypePlayerRemoved EventType = "player_removed"
	EventTypeRoundEnd      EventType = "round_end"
	EventTypeTableClosed   EventType = "table_closed"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens at the table
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandAction identifies what happened to a hand in a HandEvent.
type HandAction string

const (
	ActionDeal   HandAction = "deal"
	ActionHit    HandAction = "hit"
	ActionSplit  HandAction = "split"
	ActionDouble HandAction = "double"
	ActionStand  HandAction = "stand"
	ActionBust   HandAction = "bust"
)

// RoundStartEvent is published once bets are about to be taken.
type RoundStartEvent struct {
	RoundID   string
	Round     int
	Players   []PlayerSummary
	Shuffled  bool
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// HandEvent is published whenever a player or dealer hand changes. Player is
// empty for the dealer.
type HandEvent struct {
	RoundID   string
	Player    string
	Action    HandAction
	Card      *deck.Card
	Hand      HandSnapshot
	Chips     Chips
	timestamp time.Time
}

func (e HandEvent) EventType() EventType { return EventTypeHand }
func (e HandEvent) Timestamp() time.Time { return e.timestamp }

// IsDealer reports whether the event concerns the dealer hand.
func (e HandEvent) IsDealer() bool { return e.Player == "" }

// DealerRevealEvent is published when the hole card is turned over.
type DealerRevealEvent struct {
	RoundID   string
	Hand      HandSnapshot
	timestamp time.Time
}

func (e DealerRevealEvent) EventType() EventType { return EventTypeDealerReveal }
func (e DealerRevealEvent) Timestamp() time.Time { return e.timestamp }

// SettlementEvent reports the result of one player hand.
type SettlementEvent struct {
	RoundID   string
	Player    string
	Hand      HandSnapshot
	Dealer    HandSnapshot
	Outcome   Outcome
	Payout    Chips
	Chips     Chips
	timestamp time.Time
}

func (e SettlementEvent) EventType() EventType { return EventTypeSettlement }
func (e SettlementEvent) Timestamp() time.Time { return e.timestamp }

// Net is the chip change for this hand relative to its stake.
func (e SettlementEvent) Net() Chips { return e.Payout - e.Hand.Bet }

// RemovalReason explains why a player left the table.
type RemovalReason string

const (
	// RemovalDeclined means the player chose not to play another round.
	RemovalDeclined RemovalReason = "declined"
	// RemovalBroke means the player can no longer cover the table minimum.
	RemovalBroke RemovalReason = "broke"
	// RemovalKicked means the player's agent failed or made an illegal move.
	RemovalKicked RemovalReason = "kicked"
)

// PlayerRemovedEvent is published when a player leaves the table.
type PlayerRemovedEvent struct {
	RoundID   string
	Player    string
	Reason    RemovalReason
	Chips     Chips
	Err       error
	timestamp time.Time
}

func (e PlayerRemovedEvent) EventType() EventType { return EventTypePlayerRemoved }
func (e PlayerRemovedEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent is published after the continue decision.
type RoundEndEvent struct {
	RoundID   string
	Round     int
	Players   []PlayerSummary
	HouseNet  Chips
	timestamp time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// TableClosedEvent is published when the last player has left.
type TableClosedEvent struct {
	SessionID string
	Rounds    int
	HouseNet  Chips
	timestamp time.Time
}

func (e TableClosedEvent) EventType() EventType { return EventTypeTableClosed }
func (e TableClosedEvent) Timestamp() time.Time { return e.timestamp }

// PlayerSummary is a name and balance pair.
type PlayerSummary struct {
	Name  string
	Chips Chips
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber.
type EventSubscriberFunc func(GameEvent)

func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation. Events are
// delivered synchronously in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. Function
// subscribers cannot be compared and must be wrapped in a pointer type to be
// removable.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
