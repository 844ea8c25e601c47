package service

import (
	"context"
	"testing"

	"aurabot/events"
	"aurabot/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestLedger returns a ledger preloaded with users whose storage accepts every save
func newTestLedger(t *testing.T, rng *MockRandom, users ...*models.User) (LedgerStore, *MockLedgerStorage) {
	t.Helper()

	storage := new(MockLedgerStorage)
	storage.On("Load", mock.Anything).Return(users, nil).Once()
	storage.On("Save", mock.Anything, mock.Anything).Return(nil)

	l := NewLedger(storage, rng, events.NewBus())
	require.NoError(t, l.Load(context.Background()))
	return l, storage
}

// lastSaved returns the records passed to the most recent Save call
func lastSaved(t *testing.T, storage *MockLedgerStorage) map[string]*models.User {
	t.Helper()

	var saved []*models.User
	for _, call := range storage.Calls {
		if call.Method == "Save" {
			saved = call.Arguments.Get(1).([]*models.User)
		}
	}
	require.NotNil(t, saved, "expected at least one Save call")

	byID := make(map[string]*models.User, len(saved))
	for _, user := range saved {
		byID[user.DiscordID] = user
	}
	return byID
}

func saveCount(storage *MockLedgerStorage) int {
	count := 0
	for _, call := range storage.Calls {
		if call.Method == "Save" {
			count++
		}
	}
	return count
}

func balanceOf(t *testing.T, l LedgerStore, discordID string) int64 {
	t.Helper()
	for _, user := range l.Snapshot() {
		if user.DiscordID == discordID {
			return user.Balance
		}
	}
	t.Fatalf("no ledger record for %s", discordID)
	return 0
}

func userWithBalance(discordID string, balance int64) *models.User {
	return &models.User{DiscordID: discordID, Balance: balance}
}
