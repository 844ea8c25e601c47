package events

import (
	"context"
	"sync"

	"aurabot/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange   EventType = "balance_change"
	EventTypeUserCreated     EventType = "user_created"
	EventTypeChallengeIssued EventType = "challenge_issued"
	EventTypeBattleResolved  EventType = "battle_resolved"
	EventTypeLedgerReset     EventType = "ledger_reset"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID          string
	OldBalance      int64
	NewBalance      int64
	TransactionType models.TransactionType
	ChangeAmount    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// UserCreatedEvent represents a new ledger record
type UserCreatedEvent struct {
	UserID         string
	InitialBalance int64
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// ChallengeIssuedEvent represents a battle challenge written onto a target
type ChallengeIssuedEvent struct {
	ChallengerID string
	TargetID     string
	Amount       int64
}

func (e ChallengeIssuedEvent) Type() EventType {
	return EventTypeChallengeIssued
}

// BattleResolvedEvent represents an accepted challenge that was rolled out
type BattleResolvedEvent struct {
	ChallengerID string
	AccepterID   string
	WinnerID     string // empty on a tie
	Amount       int64
}

func (e BattleResolvedEvent) Type() EventType {
	return EventTypeBattleResolved
}

// LedgerResetEvent represents a bulk reset of every balance
type LedgerResetEvent struct {
	UsersAffected int
}

func (e LedgerResetEvent) Type() EventType {
	return EventTypeLedgerReset
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

// Emit publishes an event to all registered handlers.
// Handlers run on their own goroutines and a panicking handler is logged, not propagated.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

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

// TransactionalBus holds events raised while the ledger is being mutated.
// They reach the real bus only once the ledger has been persisted.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Flush is called after a successful persist
func (b *TransactionalBus) Flush() {
	// Handlers outlive the command that raised the event
	eventCtx := context.Background()

	if b.real != nil {
		for _, ev := range b.pending {
			b.real.Emit(eventCtx, ev)
		}
	}
	b.pending = nil
}

// Discard drops pending events after a failed operation
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

// Pending returns the number of buffered events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
