package models

// Top-level command names understood by the router
const (
	CommandAura   = "aura"
	CommandHelp   = "help"
	CommandPrefix = "prefix"
)

// Subcommands of the aura command
const (
	SubcommandView        = "view"
	SubcommandGamble      = "gamble"
	SubcommandBattle      = "battle"
	SubcommandAccept      = "accept"
	SubcommandLeaderboard = "leaderboard"
	SubcommandGive        = "give"
	SubcommandTake        = "take"
	SubcommandReset       = "reset"
	SubcommandSet         = "set"
	SubcommandHelp        = "help"
)

// Source identifies which front end produced a command
type Source int

const (
	SourceText Source = iota
	SourceSlash
)

// Command is the normalized shape both front ends build before dispatch.
// Amount is nil when the argument was missing or not an integer.
type Command struct {
	Name       string
	Subcommand string
	ActorID    string
	Amount     *int64
	TargetID   string
	// TargetIsBot is set when the referenced target is an automated account
	TargetIsBot bool
	// Argument carries the raw text argument for commands like prefix
	Argument string
	Source   Source
}

// HasTarget reports whether the command references another identity
func (c Command) HasTarget() bool {
	return c.TargetID != ""
}

// Int64 returns a pointer to v, convenient when building commands
func Int64(v int64) *int64 {
	return &v
}
