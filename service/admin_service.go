package service

import (
	"context"
	"fmt"

	"aurabot/models"

	log "github.com/sirupsen/logrus"
)

type adminService struct {
	ledger      LedgerStore
	permissions Permissions
}

// NewAdminService creates a new admin service
func NewAdminService(ledger LedgerStore, permissions Permissions) AdminService {
	return &adminService{
		ledger:      ledger,
		permissions: permissions,
	}
}

func (s *adminService) Give(ctx context.Context, actorID, targetID string, amount int64) (*models.User, error) {
	if err := s.authorizeAdjustment(actorID, targetID, amount); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actorID, targetID, models.TransactionTypeAdminGive, func(user *models.User) error {
		balance, err := addBalance(user.Balance, amount)
		if err != nil {
			return err
		}
		user.Balance = balance
		return nil
	})
}

func (s *adminService) Take(ctx context.Context, actorID, targetID string, amount int64) (*models.User, error) {
	if err := s.authorizeAdjustment(actorID, targetID, amount); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actorID, targetID, models.TransactionTypeAdminTake, func(user *models.User) error {
		balance, err := addBalance(user.Balance, -amount)
		if err != nil {
			return err
		}
		user.Balance = balance
		return nil
	})
}

func (s *adminService) Reset(ctx context.Context, actorID, targetID string) (*models.User, error) {
	if !s.permissions.IsOwner(actorID) {
		return nil, fmt.Errorf("%w: only the owner can reset aura", ErrPermissionDenied)
	}
	if targetID == "" {
		return nil, fmt.Errorf("%w: a target is required", ErrInvalidTarget)
	}
	return s.mutate(ctx, actorID, targetID, models.TransactionTypeAdminReset, func(user *models.User) error {
		user.Balance = 0
		user.Challenge = models.Challenge{}
		return nil
	})
}

func (s *adminService) Set(ctx context.Context, actorID, targetID string, amount int64) (*models.User, error) {
	if !s.permissions.IsOwner(actorID) {
		return nil, fmt.Errorf("%w: only the owner can set aura", ErrPermissionDenied)
	}
	if targetID == "" {
		targetID = actorID
	}
	return s.mutate(ctx, actorID, targetID, models.TransactionTypeAdminSet, func(user *models.User) error {
		user.Balance = amount
		return nil
	})
}

// authorizeAdjustment applies the give/take tiers: the owner is unrestricted,
// the friend is bounded by FriendAmountLimit and everyone else is denied.
func (s *adminService) authorizeAdjustment(actorID, targetID string, amount int64) error {
	tier := s.permissions.TierOf(actorID)
	if tier == TierMember {
		return fmt.Errorf("%w: %s may not adjust aura", ErrPermissionDenied, actorID)
	}
	if targetID == "" {
		return fmt.Errorf("%w: a target is required", ErrInvalidTarget)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}
	if tier == TierFriend && amount > FriendAmountLimit {
		return fmt.Errorf("%w: friends may adjust at most %d aura", ErrPermissionDenied, FriendAmountLimit)
	}
	return nil
}

func (s *adminService) mutate(ctx context.Context, actorID, targetID string, transactionType models.TransactionType, apply func(user *models.User) error) (*models.User, error) {
	var updated *models.User
	err := s.ledger.Update(ctx, func(uow UnitOfWork) error {
		user := uow.GetOrCreate(targetID)
		before := user.Balance
		if err := apply(user); err != nil {
			return err
		}
		uow.Put(user)

		RecordBalanceChange(uow, models.BalanceChange{
			DiscordID:       targetID,
			BalanceBefore:   before,
			BalanceAfter:    user.Balance,
			TransactionType: transactionType,
		})
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"actor":       actorID,
		"tier":        s.permissions.TierOf(actorID).String(),
		"target":      targetID,
		"action":      transactionType,
		"new_balance": updated.Balance,
	}).Info("Admin balance change")
	return updated, nil
}
