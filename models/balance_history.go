package models

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial    TransactionType = "initial"
	TransactionTypeGambleWin  TransactionType = "gamble_win"
	TransactionTypeGambleLoss TransactionType = "gamble_loss"
	TransactionTypeBattleWin  TransactionType = "battle_win"
	TransactionTypeBattleLoss TransactionType = "battle_loss"
	TransactionTypeAdminGive  TransactionType = "admin_give"
	TransactionTypeAdminTake  TransactionType = "admin_take"
	TransactionTypeAdminSet   TransactionType = "admin_set"
	TransactionTypeAdminReset TransactionType = "admin_reset"
	TransactionTypeDailyReset TransactionType = "daily_reset"
)

// BalanceChange describes a single balance mutation before it is published
type BalanceChange struct {
	DiscordID       string
	BalanceBefore   int64
	BalanceAfter    int64
	TransactionType TransactionType
}

// ChangeAmount is the signed delta of the change
func (c BalanceChange) ChangeAmount() int64 {
	return c.BalanceAfter - c.BalanceBefore
}
