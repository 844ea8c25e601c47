package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"aurabot/events"
	"aurabot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedger_Load_CorruptStorageStartsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := new(MockLedgerStorage)
	storage.On("Load", ctx).Return(nil, fmt.Errorf("%w: unexpected token", ErrStorageCorrupt))
	storage.On("Reset", ctx).Return(nil)

	l := NewLedger(storage, new(MockRandom), events.NewBus())

	require.NoError(t, l.Load(ctx))
	assert.Empty(t, l.Snapshot())
	storage.AssertExpectations(t)
}

func TestLedger_Load_ReadErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	storage := new(MockLedgerStorage)
	storage.On("Load", ctx).Return(nil, errors.New("permission denied"))

	l := NewLedger(storage, new(MockRandom), events.NewBus())

	err := l.Load(ctx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load ledger")
	storage.AssertNotCalled(t, "Reset", mock.Anything)
}

func TestLedger_GetOrCreate_NewUserGetsRandomBalance(t *testing.T) {
	ctx := context.Background()
	rng := new(MockRandom)
	rng.On("Intn", 101).Return(37).Once()

	l, storage := newTestLedger(t, rng)

	user, err := l.GetOrCreate(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, int64(87), user.Balance)
	assert.Equal(t, models.NoChallenge, user.Challenge.State())
	assert.Equal(t, 1, saveCount(storage))

	again, err := l.GetOrCreate(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, int64(87), again.Balance)
	assert.Equal(t, 1, saveCount(storage), "existing record must not be persisted again")

	rng.AssertExpectations(t)
}

func TestLedger_GetOrCreate_InitialBalanceRange(t *testing.T) {
	for _, tc := range []struct {
		roll     int
		expected int64
	}{
		{roll: 0, expected: MinInitialBalance},
		{roll: 100, expected: MaxInitialBalance},
	} {
		rng := new(MockRandom)
		rng.On("Intn", 101).Return(tc.roll)
		l, _ := newTestLedger(t, rng)

		user, err := l.GetOrCreate(context.Background(), "222")
		require.NoError(t, err)
		assert.Equal(t, tc.expected, user.Balance)
	}
}

func TestLedger_Update_ErrorLeavesLedgerUntouched(t *testing.T) {
	ctx := context.Background()
	l, storage := newTestLedger(t, new(MockRandom), userWithBalance("a", 100))

	err := l.Update(ctx, func(uow UnitOfWork) error {
		user, _ := uow.Get("a")
		user.Balance = 5
		uow.Put(user)
		return ErrInsufficientFunds
	})

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(100), balanceOf(t, l, "a"))
	assert.Equal(t, 0, saveCount(storage))
}

func TestLedger_Update_PersistFailureIsReported(t *testing.T) {
	ctx := context.Background()
	storage := new(MockLedgerStorage)
	storage.On("Load", ctx).Return([]*models.User{userWithBalance("a", 100)}, nil)
	storage.On("Save", ctx, mock.Anything).Return(errors.New("disk full"))

	l := NewLedger(storage, new(MockRandom), events.NewBus())
	require.NoError(t, l.Load(ctx))

	err := l.Update(ctx, func(uow UnitOfWork) error {
		user, _ := uow.Get("a")
		user.Balance = 120
		uow.Put(user)
		return nil
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to persist ledger")
	// No rollback across a failed write
	assert.Equal(t, int64(120), balanceOf(t, l, "a"))
}

func TestLedger_Update_EventsFlushAfterPersist(t *testing.T) {
	ctx := context.Background()
	bus := events.NewBus()
	storage := new(MockLedgerStorage)
	storage.On("Load", ctx).Return([]*models.User{userWithBalance("a", 100)}, nil)
	storage.On("Save", ctx, mock.Anything).Return(nil)

	received := make(chan events.BalanceChangeEvent, 1)
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		received <- event.(events.BalanceChangeEvent)
	})

	l := NewLedger(storage, new(MockRandom), bus)
	require.NoError(t, l.Load(ctx))

	require.NoError(t, l.Update(ctx, func(uow UnitOfWork) error {
		user, _ := uow.Get("a")
		user.Balance = 130
		uow.Put(user)
		RecordBalanceChange(uow, models.BalanceChange{
			DiscordID:       "a",
			BalanceBefore:   100,
			BalanceAfter:    130,
			TransactionType: models.TransactionTypeAdminGive,
		})
		return nil
	}))

	select {
	case event := <-received:
		assert.Equal(t, "a", event.UserID)
		assert.Equal(t, int64(30), event.ChangeAmount)
	case <-time.After(2 * time.Second):
		t.Fatal("balance change event was not delivered")
	}
}

func TestLedger_ResetAll(t *testing.T) {
	ctx := context.Background()
	rng := new(MockRandom)
	rng.On("Intn", 101).Return(0).Once()
	rng.On("Intn", 101).Return(100).Once()
	rng.On("Intn", 101).Return(25).Once()

	challenged := userWithBalance("b", -40)
	challenged.Challenge = models.NewChallenge("a", 30)
	l, storage := newTestLedger(t, rng,
		userWithBalance("a", 900),
		challenged,
		userWithBalance("c", 0),
	)

	count, err := l.ResetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, saveCount(storage), "reset must persist exactly once")

	for _, user := range l.Snapshot() {
		assert.GreaterOrEqual(t, user.Balance, MinInitialBalance)
		assert.LessOrEqual(t, user.Balance, MaxInitialBalance)
		assert.Equal(t, models.NoChallenge, user.Challenge.State())
	}
	assert.Equal(t, int64(50), balanceOf(t, l, "a"))
	assert.Equal(t, int64(150), balanceOf(t, l, "b"))
	assert.Equal(t, int64(75), balanceOf(t, l, "c"))
}

func TestLedger_ResetAll_EmptyLedgerStillPersists(t *testing.T) {
	l, storage := newTestLedger(t, new(MockRandom))

	count, err := l.ResetAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Equal(t, 1, saveCount(storage))
}

func TestLedger_TopN(t *testing.T) {
	users := []*models.User{
		userWithBalance("u1", 50),
		userWithBalance("u2", 300),
		userWithBalance("u3", 120),
		userWithBalance("u4", 300),
		userWithBalance("u5", -10),
		userWithBalance("u6", 120),
	}
	for i := 7; i <= 14; i++ {
		users = append(users, userWithBalance(fmt.Sprintf("u%d", i), int64(i)))
	}
	l, _ := newTestLedger(t, new(MockRandom), users...)

	top := l.TopN(10)
	require.Len(t, top, 10)

	assert.Equal(t, "u2", top[0].DiscordID, "ties keep ledger order")
	assert.Equal(t, "u4", top[1].DiscordID)
	assert.Equal(t, "u3", top[2].DiscordID)
	assert.Equal(t, "u6", top[3].DiscordID)
	for i := 1; i < len(top); i++ {
		assert.GreaterOrEqual(t, top[i-1].Balance, top[i].Balance)
		assert.Equal(t, i+1, top[i].Rank)
	}

	assert.Len(t, l.TopN(3), 3)
	assert.Len(t, l.TopN(100), len(users))
	assert.Empty(t, l.TopN(0))
}
