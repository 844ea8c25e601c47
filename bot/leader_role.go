package bot

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"aurabot/events"
	"aurabot/models"
	"aurabot/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// guildRoleAPI is the part of the Discord REST API used to move the leader role
type guildRoleAPI interface {
	GuildMembers(guildID, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

// leaderRoleSyncer keeps a guild role on whoever holds the most aura
type leaderRoleSyncer struct {
	api     guildRoleAPI
	ledger  service.LedgerStore
	guildID string
	roleID  string

	mu sync.Mutex
}

func newLeaderRoleSyncer(api guildRoleAPI, ledger service.LedgerStore, guildID, roleID string) *leaderRoleSyncer {
	return &leaderRoleSyncer{
		api:     api,
		ledger:  ledger,
		guildID: guildID,
		roleID:  roleID,
	}
}

// Subscribe re-syncs the role after balance changes and daily resets
func (l *leaderRoleSyncer) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		change, ok := event.(events.BalanceChangeEvent)
		// A reset emits one change per user followed by a LedgerResetEvent
		if !ok || change.TransactionType == models.TransactionTypeDailyReset {
			return
		}
		l.syncAndLog(ctx)
	})
	bus.Subscribe(events.EventTypeLedgerReset, func(ctx context.Context, event events.Event) {
		l.syncAndLog(ctx)
	})
}

func (l *leaderRoleSyncer) syncAndLog(ctx context.Context) {
	if err := l.Sync(ctx); err != nil {
		log.Errorf("Failed to update aura leader role: %v", err)
	}
}

// Sync moves the role to the current leader and removes it from everyone else
func (l *leaderRoleSyncer) Sync(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	top := l.ledger.TopN(1)
	if len(top) == 0 {
		return nil
	}
	leaderID := top[0].DiscordID

	members, err := l.api.GuildMembers(l.guildID, "", 1000, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to get guild members: %w", err)
	}

	hasRole := false
	for _, member := range members {
		if member.User == nil || !slices.Contains(member.Roles, l.roleID) {
			continue
		}
		if member.User.ID == leaderID {
			hasRole = true
			continue
		}
		if err := l.api.GuildMemberRoleRemove(l.guildID, member.User.ID, l.roleID, discordgo.WithContext(ctx)); err != nil {
			log.Errorf("Failed to remove aura leader role from user %s: %v", member.User.ID, err)
		} else {
			log.Infof("Removed aura leader role from user %s", member.User.ID)
		}
	}

	if !hasRole {
		if err := l.api.GuildMemberRoleAdd(l.guildID, leaderID, l.roleID, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to add aura leader role to user %s: %w", leaderID, err)
		}
		log.Infof("Added aura leader role to user %s (aura: %d)", leaderID, top[0].Balance)
	}
	return nil
}
