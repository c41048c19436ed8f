package game

import "time"

// EventType represents a round lifecycle event type with type safety
type EventType string

const (
	EventTypeRoundStart   EventType = "round_start"
	EventTypePlayerAction EventType = "player_action"
	EventTypeDealerPlay   EventType = "dealer_play"
	EventTypeRoundSettled EventType = "round_settled"
	EventTypeShoeRebuilt  EventType = "shoe_rebuilt"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// RoundEvent represents any event that occurs during a round
type RoundEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartEvent is published after the opening deal
type RoundStartEvent struct {
	Players   int
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// ShoeRebuiltEvent is published when the penetration threshold forces a
// reshuffle at round start
type ShoeRebuiltEvent struct {
	Penetration float64
	timestamp   time.Time
}

func (e ShoeRebuiltEvent) EventType() EventType { return EventTypeShoeRebuilt }
func (e ShoeRebuiltEvent) Timestamp() time.Time { return e.timestamp }

// PlayerActionEvent is published when a player takes an action
type PlayerActionEvent struct {
	Player    *Participant
	Action    Action
	HandIndex int
	HandValue int
	Status    HandStatus
	timestamp time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.timestamp }

// DealerPlayEvent is published after the dealer finishes drawing
type DealerPlayEvent struct {
	Value     int
	Status    HandStatus
	timestamp time.Time
}

func (e DealerPlayEvent) EventType() EventType { return EventTypeDealerPlay }
func (e DealerPlayEvent) Timestamp() time.Time { return e.timestamp }

// HandResult records the settlement of one player hand
type HandResult struct {
	Player    string
	HandIndex int
	Status    HandStatus
	Bet       int
	Delta     int
}

// RoundSettledEvent is published after outcomes are determined
type RoundSettledEvent struct {
	Results   []HandResult
	timestamp time.Time
}

func (e RoundSettledEvent) EventType() EventType { return EventTypeRoundSettled }
func (e RoundSettledEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to round events
type EventSubscriber interface {
	OnEvent(event RoundEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event RoundEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event RoundEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
