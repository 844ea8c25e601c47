package bot

import (
	"context"
	"errors"
	"testing"

	"aurabot/models"
	"aurabot/repository"
	"aurabot/service"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leaderRoleID = "role-1"

type fakeGuildRoles struct {
	members    []*discordgo.Member
	membersErr error
	added      []string
	removed    []string
}

func (f *fakeGuildRoles) GuildMembers(guildID, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error) {
	return f.members, f.membersErr
}

func (f *fakeGuildRoles) GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.added = append(f.added, userID)
	return nil
}

func (f *fakeGuildRoles) GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error {
	f.removed = append(f.removed, userID)
	return nil
}

func member(id string, roles ...string) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: id}, Roles: roles}
}

func loadedLedger(t *testing.T, users ...*models.User) service.LedgerStore {
	t.Helper()
	ledger := service.NewLedger(repository.NewMemoryStorage(users...), service.NewRandom(), nil)
	require.NoError(t, ledger.Load(context.Background()))
	return ledger
}

func TestLeaderRoleSyncer_MovesRoleToLeader(t *testing.T) {
	ledger := loadedLedger(t,
		&models.User{DiscordID: "a", Balance: 100},
		&models.User{DiscordID: "b", Balance: 400},
	)
	api := &fakeGuildRoles{members: []*discordgo.Member{
		member("a", leaderRoleID),
		member("b", "other-role"),
		member("c"),
	}}

	err := newLeaderRoleSyncer(api, ledger, "guild", leaderRoleID).Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, api.removed)
	assert.Equal(t, []string{"b"}, api.added)
}

func TestLeaderRoleSyncer_LeaderAlreadyHoldsRole(t *testing.T) {
	ledger := loadedLedger(t, &models.User{DiscordID: "a", Balance: 100})
	api := &fakeGuildRoles{members: []*discordgo.Member{member("a", leaderRoleID)}}

	err := newLeaderRoleSyncer(api, ledger, "guild", leaderRoleID).Sync(context.Background())

	require.NoError(t, err)
	assert.Empty(t, api.added)
	assert.Empty(t, api.removed)
}

func TestLeaderRoleSyncer_EmptyLedger(t *testing.T) {
	api := &fakeGuildRoles{membersErr: errors.New("should not be called")}

	err := newLeaderRoleSyncer(api, loadedLedger(t), "guild", leaderRoleID).Sync(context.Background())

	assert.NoError(t, err)
}

func TestLeaderRoleSyncer_MemberListFails(t *testing.T) {
	ledger := loadedLedger(t, &models.User{DiscordID: "a", Balance: 100})
	api := &fakeGuildRoles{membersErr: errors.New("forbidden")}

	err := newLeaderRoleSyncer(api, ledger, "guild", leaderRoleID).Sync(context.Background())

	assert.ErrorContains(t, err, "failed to get guild members")
	assert.Empty(t, api.added)
}
