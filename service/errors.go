package service

import "errors"

var (
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrInvalidTarget            = errors.New("invalid target")
	ErrNoPendingChallenge       = errors.New("no pending challenge")
	ErrChallengerUnavailable    = errors.New("challenger unavailable")
	ErrPermissionDenied         = errors.New("permission denied")
	ErrUnknownSubcommand        = errors.New("unknown subcommand")
	ErrStorageCorrupt           = errors.New("storage corrupt")
	ErrIdentityResolutionFailed = errors.New("identity resolution failed")
)
