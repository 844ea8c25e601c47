package service

import (
	"context"

	"aurabot/events"
	"aurabot/models"
)

// LedgerStorage is the durable backing of the ledger
type LedgerStorage interface {
	// Load returns every stored record in storage order.
	// Missing storage yields an empty slice; malformed storage yields an error wrapping ErrStorageCorrupt.
	Load(ctx context.Context) ([]*models.User, error)

	// Save overwrites storage with the given records, in order
	Save(ctx context.Context, users []*models.User) error

	// Reset replaces unreadable storage with an empty, valid ledger
	Reset(ctx context.Context) error
}

// Random is the randomness source used for initial balances, coin flips and battle rolls
type Random interface {
	// Intn returns a uniform int in [0, n)
	Intn(n int) int
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork stages ledger changes made by one operation.
// Nothing reaches the ledger unless the operation returns nil.
type UnitOfWork interface {
	// Get returns a working copy of an existing record
	Get(discordID string) (*models.User, bool)

	// GetOrCreate returns a working copy, creating the record with a random initial balance if needed
	GetOrCreate(discordID string) *models.User

	// Put stages a modified record
	Put(user *models.User)

	// EventBus returns the bus whose events are flushed after the ledger persisted
	EventBus() EventPublisher
}

// LedgerStore owns the mapping from identity to balance record
type LedgerStore interface {
	// Load replaces the in-memory ledger with the content of storage
	Load(ctx context.Context) error

	// GetOrCreate returns the record for discordID, creating it on first reference
	GetOrCreate(ctx context.Context, discordID string) (*models.User, error)

	// Update runs fn against a unit of work and persists once if fn staged changes
	Update(ctx context.Context, fn func(uow UnitOfWork) error) error

	// ResetAll re-rolls every balance, clears every challenge and persists once
	ResetAll(ctx context.Context) (int, error)

	// TopN returns the n highest balances, descending, ties in ledger order
	TopN(n int) []models.LeaderboardEntry

	// Snapshot returns copies of every record in ledger order
	Snapshot() []*models.User
}

// WagerService implements gambling and two-party battles
type WagerService interface {
	// Gamble flips a fair coin for amount
	Gamble(ctx context.Context, discordID string, amount int64) (*models.GambleResult, error)

	// Challenge writes a pending battle onto the target, replacing any earlier one
	Challenge(ctx context.Context, challengerID, targetID string, targetIsBot bool, amount int64) (*models.ChallengeResult, error)

	// PendingChallenge returns the challenger and amount waiting on discordID
	PendingChallenge(ctx context.Context, discordID string) (challengerID string, amount int64, err error)

	// Accept resolves the pending battle on accepterID with two rolls in [0, 100).
	// It fails with ErrNoPendingChallenge unless the pending challenge is still from challengerID.
	Accept(ctx context.Context, accepterID, challengerID string) (*models.BattleResult, error)
}

// AdminService implements privileged balance mutations
type AdminService interface {
	// Give adds amount to the target's balance
	Give(ctx context.Context, actorID, targetID string, amount int64) (*models.User, error)

	// Take subtracts amount from the target's balance
	Take(ctx context.Context, actorID, targetID string, amount int64) (*models.User, error)

	// Reset zeroes the target's balance and clears its challenge
	Reset(ctx context.Context, actorID, targetID string) (*models.User, error)

	// Set overwrites the target's balance
	Set(ctx context.Context, actorID, targetID string, amount int64) (*models.User, error)
}
