package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeXPGranted     EventType = "xp_granted"
	EventTypeLevelUp       EventType = "level_up"
	EventTypeRewardGranted EventType = "reward_granted"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// XPGrantedEvent fires after a grant passed the cooldown and was persisted
type XPGrantedEvent struct {
	UserID int64
	Amount int64
	XP     int64
	Level  int64
}

func (e XPGrantedEvent) Type() EventType {
	return EventTypeXPGranted
}

// LevelUpEvent fires when a grant crossed at least one level boundary
type LevelUpEvent struct {
	UserID   int64
	OldLevel int64
	NewLevel int64
}

func (e LevelUpEvent) Type() EventType {
	return EventTypeLevelUp
}

// RewardGrantedEvent fires for each level reward role successfully added
type RewardGrantedEvent struct {
	GuildID  int64
	UserID   int64
	Level    int64
	RoleID   int64
	RoleName string
}

func (e RewardGrantedEvent) Type() EventType {
	return EventTypeRewardGranted
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the emitter
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds pending events coupled to a unit of work and
// flushes them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events to main event bus")

	// Events outlive the transaction context that produced them
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after a rollback to drop staged events
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
