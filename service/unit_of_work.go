package service

import (
	"aurabot/events"
	"aurabot/models"
)

// ledgerUnitOfWork implements the UnitOfWork interface on top of a locked ledger
type ledgerUnitOfWork struct {
	ledger  *ledger
	staged  map[string]*models.User
	created []string
	bus     *events.TransactionalBus
}

func newLedgerUnitOfWork(l *ledger) *ledgerUnitOfWork {
	return &ledgerUnitOfWork{
		ledger: l,
		staged: make(map[string]*models.User),
		bus:    events.NewTransactionalBus(l.eventBus),
	}
}

func (u *ledgerUnitOfWork) Get(discordID string) (*models.User, bool) {
	if user, ok := u.staged[discordID]; ok {
		return user.Clone(), true
	}
	if user, ok := u.ledger.users[discordID]; ok {
		return user.Clone(), true
	}
	return nil, false
}

func (u *ledgerUnitOfWork) GetOrCreate(discordID string) *models.User {
	if user, ok := u.Get(discordID); ok {
		return user
	}

	user := &models.User{
		DiscordID: discordID,
		Balance:   RandomInitialBalance(u.ledger.rng),
	}
	u.created = append(u.created, discordID)
	u.Put(user)

	RecordBalanceChange(u, models.BalanceChange{
		DiscordID:       discordID,
		BalanceBefore:   0,
		BalanceAfter:    user.Balance,
		TransactionType: models.TransactionTypeInitial,
	})
	return user.Clone()
}

func (u *ledgerUnitOfWork) Put(user *models.User) {
	u.staged[user.DiscordID] = user.Clone()
}

func (u *ledgerUnitOfWork) EventBus() EventPublisher {
	return u.bus
}

// apply copies staged records into the ledger, appending new identities in creation order
func (u *ledgerUnitOfWork) apply() {
	for _, id := range u.created {
		if _, exists := u.ledger.users[id]; !exists {
			u.ledger.order = append(u.ledger.order, id)
			u.ledger.users[id] = u.staged[id]
		}
	}
	for id, user := range u.staged {
		if _, exists := u.ledger.users[id]; !exists {
			// Put on an identity that never went through GetOrCreate
			u.ledger.order = append(u.ledger.order, id)
		}
		u.ledger.users[id] = user
	}
}
