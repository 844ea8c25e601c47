package models

// GambleResult is the outcome of a solo coin flip
type GambleResult struct {
	Won        bool
	Amount     int64
	NewBalance int64
}

// BattleOutcome describes who won a resolved battle
type BattleOutcome int

const (
	BattleTie BattleOutcome = iota
	BattleChallengerWon
	BattleAccepterWon
)

// ChallengeResult is returned after a battle is initiated
type ChallengeResult struct {
	ChallengerID string
	TargetID     string
	Amount       int64
	// ReplacedChallengerID is set when an older challenge on the target was overwritten
	ReplacedChallengerID string
}

// BattleResult is returned after a challenge is accepted and resolved
type BattleResult struct {
	ChallengerID      string
	AccepterID        string
	Amount            int64
	ChallengerRoll    int
	AccepterRoll      int
	Outcome           BattleOutcome
	ChallengerBalance int64
	AccepterBalance   int64
}

// WinnerID returns the winning identity, or "" on a tie
func (r *BattleResult) WinnerID() string {
	switch r.Outcome {
	case BattleChallengerWon:
		return r.ChallengerID
	case BattleAccepterWon:
		return r.AccepterID
	default:
		return ""
	}
}

// LeaderboardEntry is one row of the ranking
type LeaderboardEntry struct {
	Rank      int
	DiscordID string
	Balance   int64
}
