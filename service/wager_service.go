package service

import (
	"context"
	"fmt"

	"aurabot/events"
	"aurabot/models"

	log "github.com/sirupsen/logrus"
)

// RollSides is the exclusive upper bound of a battle roll
const RollSides = 100

type wagerService struct {
	ledger LedgerStore
	rng    Random
}

// NewWagerService creates a new wager service
func NewWagerService(ledger LedgerStore, rng Random) WagerService {
	return &wagerService{
		ledger: ledger,
		rng:    rng,
	}
}

func (s *wagerService) Gamble(ctx context.Context, discordID string, amount int64) (*models.GambleResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: gamble amount must be positive", ErrInvalidAmount)
	}

	var result *models.GambleResult
	err := s.ledger.Update(ctx, func(uow UnitOfWork) error {
		user := uow.GetOrCreate(discordID)
		if amount > user.Balance {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, user.Balance, amount)
		}

		winBalance, err := addBalance(user.Balance, amount)
		if err != nil {
			return err
		}

		before := user.Balance
		won := s.rng.Intn(2) == 1
		transactionType := models.TransactionTypeGambleLoss
		if won {
			user.Balance = winBalance
			transactionType = models.TransactionTypeGambleWin
		} else {
			user.Balance -= amount
		}
		uow.Put(user)

		RecordBalanceChange(uow, models.BalanceChange{
			DiscordID:       discordID,
			BalanceBefore:   before,
			BalanceAfter:    user.Balance,
			TransactionType: transactionType,
		})

		result = &models.GambleResult{
			Won:        won,
			Amount:     amount,
			NewBalance: user.Balance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user":        discordID,
		"amount":      amount,
		"won":         result.Won,
		"new_balance": result.NewBalance,
	}).Info("Gamble resolved")
	return result, nil
}

func (s *wagerService) Challenge(ctx context.Context, challengerID, targetID string, targetIsBot bool, amount int64) (*models.ChallengeResult, error) {
	if targetID == "" {
		return nil, fmt.Errorf("%w: a target is required", ErrInvalidTarget)
	}
	if targetID == challengerID || targetIsBot {
		return nil, fmt.Errorf("%w: cannot battle yourself or bots", ErrInvalidTarget)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: battle amount must be positive", ErrInvalidAmount)
	}

	var result *models.ChallengeResult
	err := s.ledger.Update(ctx, func(uow UnitOfWork) error {
		challenger := uow.GetOrCreate(challengerID)
		target := uow.GetOrCreate(targetID)
		if challenger.Balance < amount || target.Balance < amount {
			return fmt.Errorf("%w: both players need %d", ErrInsufficientFunds, amount)
		}

		result = &models.ChallengeResult{
			ChallengerID: challengerID,
			TargetID:     targetID,
			Amount:       amount,
		}
		if previous, _, ok := target.Challenge.Pending(); ok {
			result.ReplacedChallengerID = previous
		}

		target.Challenge = models.NewChallenge(challengerID, amount)
		uow.Put(target)

		uow.EventBus().Publish(events.ChallengeIssuedEvent{
			ChallengerID: challengerID,
			TargetID:     targetID,
			Amount:       amount,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"challenger": challengerID,
		"target":     targetID,
		"amount":     amount,
		"replaced":   result.ReplacedChallengerID,
	}).Info("Battle challenge issued")
	return result, nil
}

func (s *wagerService) PendingChallenge(ctx context.Context, discordID string) (string, int64, error) {
	var challengerID string
	var amount int64
	err := s.ledger.Update(ctx, func(uow UnitOfWork) error {
		user, ok := uow.Get(discordID)
		if !ok {
			return ErrNoPendingChallenge
		}
		var pending bool
		challengerID, amount, pending = user.Challenge.Pending()
		if !pending {
			return ErrNoPendingChallenge
		}
		return nil
	})
	if err != nil {
		return "", 0, err
	}
	return challengerID, amount, nil
}

func (s *wagerService) Accept(ctx context.Context, accepterID, challengerID string) (*models.BattleResult, error) {
	var result *models.BattleResult
	err := s.ledger.Update(ctx, func(uow UnitOfWork) error {
		accepter, ok := uow.Get(accepterID)
		if !ok {
			return ErrNoPendingChallenge
		}
		pendingID, amount, pending := accepter.Challenge.Pending()
		if !pending {
			return ErrNoPendingChallenge
		}
		if pendingID != challengerID {
			return fmt.Errorf("%w: the pending challenge is now from %s", ErrNoPendingChallenge, pendingID)
		}
		challenger, ok := uow.Get(challengerID)
		if !ok {
			return fmt.Errorf("%w: %s has no ledger record", ErrChallengerUnavailable, challengerID)
		}

		var stakes [4]int64
		for i, side := range []struct{ balance, delta int64 }{
			{challenger.Balance, amount}, {challenger.Balance, -amount},
			{accepter.Balance, amount}, {accepter.Balance, -amount},
		} {
			balance, err := addBalance(side.balance, side.delta)
			if err != nil {
				return err
			}
			stakes[i] = balance
		}

		accepter.Challenge = models.Challenge{}

		challengerRoll := s.rng.Intn(RollSides)
		accepterRoll := s.rng.Intn(RollSides)

		result = &models.BattleResult{
			ChallengerID:   challengerID,
			AccepterID:     accepterID,
			Amount:         amount,
			ChallengerRoll: challengerRoll,
			AccepterRoll:   accepterRoll,
			Outcome:        models.BattleTie,
		}

		challengerBefore, accepterBefore := challenger.Balance, accepter.Balance
		switch {
		case accepterRoll > challengerRoll:
			challenger.Balance, accepter.Balance = stakes[1], stakes[2]
			result.Outcome = models.BattleAccepterWon
		case challengerRoll > accepterRoll:
			challenger.Balance, accepter.Balance = stakes[0], stakes[3]
			result.Outcome = models.BattleChallengerWon
		}
		result.ChallengerBalance = challenger.Balance
		result.AccepterBalance = accepter.Balance

		uow.Put(accepter)
		uow.Put(challenger)

		RecordBalanceChange(uow, battleChange(challengerID, challengerBefore, challenger.Balance))
		RecordBalanceChange(uow, battleChange(accepterID, accepterBefore, accepter.Balance))
		uow.EventBus().Publish(events.BattleResolvedEvent{
			ChallengerID: challengerID,
			AccepterID:   accepterID,
			WinnerID:     result.WinnerID(),
			Amount:       amount,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"challenger":      result.ChallengerID,
		"accepter":        result.AccepterID,
		"amount":          result.Amount,
		"challenger_roll": result.ChallengerRoll,
		"accepter_roll":   result.AccepterRoll,
		"winner":          result.WinnerID(),
	}).Info("Battle resolved")
	return result, nil
}

func battleChange(discordID string, before, after int64) models.BalanceChange {
	transactionType := models.TransactionTypeBattleWin
	if after < before {
		transactionType = models.TransactionTypeBattleLoss
	}
	return models.BalanceChange{
		DiscordID:       discordID,
		BalanceBefore:   before,
		BalanceAfter:    after,
		TransactionType: transactionType,
	}
}
