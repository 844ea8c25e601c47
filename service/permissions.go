package service

// Privileged identities. Changing them requires a code change.
const (
	OwnerID  = "1104710418315251823"
	FriendID = "1215986364391497748"

	// FriendAmountLimit bounds the amount a friend may give or take in one command
	FriendAmountLimit int64 = 500
)

// Tier is the privilege level of an identity
type Tier int

const (
	TierMember Tier = iota
	TierFriend
	TierOwner
)

func (t Tier) String() string {
	switch t {
	case TierOwner:
		return "owner"
	case TierFriend:
		return "friend"
	default:
		return "member"
	}
}

// Permissions maps identities to tiers
type Permissions struct {
	OwnerID  string
	FriendID string
}

// DefaultPermissions returns the built-in owner and friend identities
func DefaultPermissions() Permissions {
	return Permissions{
		OwnerID:  OwnerID,
		FriendID: FriendID,
	}
}

// TierOf returns the privilege tier of discordID
func (p Permissions) TierOf(discordID string) Tier {
	switch {
	case discordID != "" && discordID == p.OwnerID:
		return TierOwner
	case discordID != "" && discordID == p.FriendID:
		return TierFriend
	default:
		return TierMember
	}
}

// IsOwner reports whether discordID has full admin rights
func (p Permissions) IsOwner(discordID string) bool {
	return p.TierOf(discordID) == TierOwner
}
