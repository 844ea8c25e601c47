package models

// User is a single aura balance record keyed by the chat platform's user ID
type User struct {
	DiscordID string
	Balance   int64
	Challenge Challenge
}

// Clone returns a copy that shares no state with u
func (u *User) Clone() *User {
	c := *u
	return &c
}

// ChallengeState tells whether a user has an inbound battle waiting on them
type ChallengeState int

const (
	NoChallenge ChallengeState = iota
	Challenged
)

// Challenge is the pending-battle slot of a user. The zero value is NoChallenge.
type Challenge struct {
	state        ChallengeState
	challengerID string
	amount       int64
}

// NewChallenge creates a pending challenge issued by challengerID for amount
func NewChallenge(challengerID string, amount int64) Challenge {
	return Challenge{
		state:        Challenged,
		challengerID: challengerID,
		amount:       amount,
	}
}

// State returns NoChallenge or Challenged
func (c Challenge) State() ChallengeState {
	return c.state
}

// Pending reports the challenger and wagered amount when a challenge is outstanding
func (c Challenge) Pending() (challengerID string, amount int64, ok bool) {
	if c.state != Challenged {
		return "", 0, false
	}
	return c.challengerID, c.amount, true
}
