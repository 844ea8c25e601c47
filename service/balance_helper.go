package service

import (
	"fmt"

	"aurabot/events"
	"aurabot/models"
)

// RecordBalanceChange emits the event for a balance mutation.
// This is the single entry point for all balance changes in the system.
func RecordBalanceChange(uow UnitOfWork, change models.BalanceChange) {
	if change.BalanceBefore == change.BalanceAfter && change.TransactionType != models.TransactionTypeInitial {
		return
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:          change.DiscordID,
		OldBalance:      change.BalanceBefore,
		NewBalance:      change.BalanceAfter,
		TransactionType: change.TransactionType,
		ChangeAmount:    change.ChangeAmount(),
	})

	if change.TransactionType == models.TransactionTypeInitial {
		uow.EventBus().Publish(events.UserCreatedEvent{
			UserID:         change.DiscordID,
			InitialBalance: change.BalanceAfter,
		})
	}
}

// addBalance returns balance+delta, or ErrInvalidAmount when the sum does not fit in an int64
func addBalance(balance, delta int64) (int64, error) {
	sum := balance + delta
	if (delta > 0 && sum < balance) || (delta < 0 && sum > balance) {
		return 0, fmt.Errorf("%w: %d %+d overflows the balance", ErrInvalidAmount, balance, delta)
	}
	return sum, nil
}
