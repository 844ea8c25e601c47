package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"aurabot/events"
	"aurabot/models"

	log "github.com/sirupsen/logrus"
)

// ledger implements the LedgerStore interface.
// The mutex serializes command handlers and the reset scheduler.
type ledger struct {
	mu       sync.Mutex
	storage  LedgerStorage
	rng      Random
	eventBus *events.Bus

	users map[string]*models.User
	order []string
}

// NewLedger creates an empty ledger backed by storage. Call Load to read existing records.
func NewLedger(storage LedgerStorage, rng Random, eventBus *events.Bus) LedgerStore {
	return &ledger{
		storage:  storage,
		rng:      rng,
		eventBus: eventBus,
		users:    make(map[string]*models.User),
	}
}

func (l *ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	users, err := l.storage.Load(ctx)
	if errors.Is(err, ErrStorageCorrupt) {
		log.WithError(err).Warn("Ledger storage is corrupt, starting with an empty ledger")
		if resetErr := l.storage.Reset(ctx); resetErr != nil {
			return fmt.Errorf("failed to reset corrupt storage: %w", resetErr)
		}
		users = nil
	} else if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	l.users = make(map[string]*models.User, len(users))
	l.order = l.order[:0]
	for _, user := range users {
		if _, seen := l.users[user.DiscordID]; !seen {
			l.order = append(l.order, user.DiscordID)
		}
		l.users[user.DiscordID] = user.Clone()
	}

	log.WithField("users", len(l.order)).Info("Ledger loaded")
	return nil
}

func (l *ledger) GetOrCreate(ctx context.Context, discordID string) (*models.User, error) {
	var user *models.User
	err := l.Update(ctx, func(uow UnitOfWork) error {
		user = uow.GetOrCreate(discordID)
		return nil
	})
	return user, err
}

func (l *ledger) Update(ctx context.Context, fn func(uow UnitOfWork) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	uow := newLedgerUnitOfWork(l)
	if err := fn(uow); err != nil {
		uow.bus.Discard()
		return err
	}
	if len(uow.staged) == 0 {
		uow.bus.Flush()
		return nil
	}

	uow.apply()
	if err := l.persistLocked(ctx); err != nil {
		// The in-memory change stays; only its events are dropped.
		uow.bus.Discard()
		return err
	}
	uow.bus.Flush()
	return nil
}

func (l *ledger) ResetAll(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bus := events.NewTransactionalBus(l.eventBus)
	for _, id := range l.order {
		user := l.users[id]
		before := user.Balance
		user.Balance = RandomInitialBalance(l.rng)
		user.Challenge = models.Challenge{}
		bus.Publish(events.BalanceChangeEvent{
			UserID:          id,
			OldBalance:      before,
			NewBalance:      user.Balance,
			TransactionType: models.TransactionTypeDailyReset,
			ChangeAmount:    user.Balance - before,
		})
	}
	bus.Publish(events.LedgerResetEvent{UsersAffected: len(l.order)})

	if err := l.persistLocked(ctx); err != nil {
		bus.Discard()
		return len(l.order), err
	}
	bus.Flush()

	log.WithField("users", len(l.order)).Info("Reset aura for every user")
	return len(l.order), nil
}

func (l *ledger) TopN(n int) []models.LeaderboardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]models.LeaderboardEntry, 0, len(l.order))
	for _, id := range l.order {
		entries = append(entries, models.LeaderboardEntry{DiscordID: id, Balance: l.users[id].Balance})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Balance > entries[j].Balance
	})

	if n < len(entries) {
		entries = entries[:max(n, 0)]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func (l *ledger) Snapshot() []*models.User {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *ledger) snapshotLocked() []*models.User {
	users := make([]*models.User, 0, len(l.order))
	for _, id := range l.order {
		users = append(users, l.users[id].Clone())
	}
	return users
}

func (l *ledger) persistLocked(ctx context.Context) error {
	if err := l.storage.Save(ctx, l.snapshotLocked()); err != nil {
		log.WithError(err).Error("Failed to persist ledger")
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	return nil
}
