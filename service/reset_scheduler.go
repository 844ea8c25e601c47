package service

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// ResetScheduler resets the ledger once per civil day at midnight in ResetLocation
type ResetScheduler struct {
	ledger LedgerStore

	now   func() time.Time
	after func(time.Duration) <-chan time.Time

	mu            sync.Mutex
	lastResetDate string
}

// NewResetScheduler creates a scheduler using the wall clock
func NewResetScheduler(ledger LedgerStore) *ResetScheduler {
	return &ResetScheduler{
		ledger: ledger,
		now:    time.Now,
		after:  time.After,
	}
}

// Start runs the scheduler in the background and returns a function that stops it
func (s *ResetScheduler) Start(ctx context.Context) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		s.Run(ctx)
	}()

	return func() {
		cancel()
		<-done
	}
}

// Run blocks until ctx is cancelled, resetting the ledger at every local midnight
func (s *ResetScheduler) Run(ctx context.Context) error {
	log.Infof("Daily reset scheduler started, resets at 00:00 %s", ResetLocation)

	for {
		now := s.now()
		next := GetNextResetTime(now)
		waitDuration := next.Sub(now)
		log.Debugf("Daily reset scheduler waiting %v until %s", waitDuration, next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			log.Info("Daily reset scheduler shutting down")
			return nil
		case <-s.after(waitDuration):
			if _, err := s.ResetForDate(ctx, CivilDate(next)); err != nil {
				log.Errorf("Error running daily reset: %v", err)
			}
		}
	}
}

// ResetForDate resets the ledger unless it already did so for civilDate.
// It reports whether a reset ran.
func (s *ResetScheduler) ResetForDate(ctx context.Context, civilDate string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastResetDate == civilDate {
		log.WithField("date", civilDate).Warn("Daily reset already ran, skipping")
		return false, nil
	}
	s.lastResetDate = civilDate

	users, err := s.ledger.ResetAll(ctx)
	log.WithFields(log.Fields{
		"date":  civilDate,
		"users": users,
	}).Info("Completed daily aura reset")
	return true, err
}

// LastResetDate returns the civil date of the most recent reset, or "" if none ran
func (s *ResetScheduler) LastResetDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResetDate
}
