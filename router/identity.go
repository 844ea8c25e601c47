package router

import (
	"context"
	"fmt"
)

// UnknownLabel replaces display names that could not be resolved
const UnknownLabel = "Unknown"

// IdentityResolver looks up human-readable names for platform identities
type IdentityResolver interface {
	DisplayName(ctx context.Context, discordID string) (string, error)
}

// Mention formats discordID so the platform renders it as a user reference
func Mention(discordID string) string {
	return fmt.Sprintf("<@%s>", discordID)
}

// labelFor returns the display name of discordID, or fallback when resolution fails
func (r *Router) labelFor(ctx context.Context, discordID, fallback string) string {
	name, err := r.identities.DisplayName(ctx, discordID)
	if err != nil || name == "" {
		return fallback
	}
	return name
}
