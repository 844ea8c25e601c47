package bot

import (
	"context"
	"fmt"

	"aurabot/service"

	"github.com/bwmarrin/discordgo"
)

// userLookup is the part of the Discord REST API needed to name users
type userLookup interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
}

// IdentityResolver names users the way they appear in the configured guild
type IdentityResolver struct {
	api     userLookup
	guildID string
}

// NewIdentityResolver creates a resolver. guildID may be empty, in which case only
// global user names are used.
func NewIdentityResolver(api userLookup, guildID string) *IdentityResolver {
	return &IdentityResolver{api: api, guildID: guildID}
}

// DisplayName returns the guild nickname, falling back to the global name and then the username
func (r *IdentityResolver) DisplayName(ctx context.Context, discordID string) (string, error) {
	if r.guildID != "" {
		member, err := r.api.GuildMember(r.guildID, discordID, discordgo.WithContext(ctx))
		if err == nil && member != nil {
			if member.Nick != "" {
				return member.Nick, nil
			}
			if name := userName(member.User); name != "" {
				return name, nil
			}
		}
	}

	user, err := r.api.User(discordID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", service.ErrIdentityResolutionFailed, discordID, err)
	}
	if name := userName(user); name != "" {
		return name, nil
	}
	return "", fmt.Errorf("%w: %s has no name", service.ErrIdentityResolutionFailed, discordID)
}

func userName(user *discordgo.User) string {
	if user == nil {
		return ""
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}
