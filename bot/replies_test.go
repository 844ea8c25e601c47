package bot

import (
	"errors"
	"testing"

	"aurabot/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageSend(t *testing.T) {
	source := &discordgo.Message{ID: "m1", ChannelID: "c1", GuildID: "g1"}

	private := messageSend(models.Reply{Content: "🌌 Your aura: **100**"}, source)
	require.NotNil(t, private.Reference)
	assert.Equal(t, "m1", private.Reference.MessageID)
	assert.Equal(t, "🌌 Your aura: **100**", private.Content)
	assert.Empty(t, private.Embeds)

	public := messageSend(models.Reply{
		Embed:  &models.Embed{Title: "🏆 MXaura Leaderboard", Description: "1. a: 5", Color: models.ColorLeaderboard},
		Public: true,
	}, source)
	assert.Nil(t, public.Reference)
	require.Len(t, public.Embeds, 1)
	assert.Equal(t, models.ColorLeaderboard, public.Embeds[0].Color)
	assert.Equal(t, "1. a: 5", public.Embeds[0].Description)
}

type fakeInteractionAPI struct {
	calls     []string
	deferErr  error
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
	followups []*discordgo.WebhookParams
}

func (f *fakeInteractionAPI) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	f.calls = append(f.calls, "respond")
	f.responses = append(f.responses, resp)
	return f.deferErr
}

func (f *fakeInteractionAPI) InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.calls = append(f.calls, "edit")
	f.edits = append(f.edits, newresp)
	return &discordgo.Message{}, nil
}

func (f *fakeInteractionAPI) InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error {
	f.calls = append(f.calls, "delete")
	return nil
}

func (f *fakeInteractionAPI) FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.calls = append(f.calls, "followup")
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, nil
}

func slashInteraction(subcommandName string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:     "i1",
		Type:   discordgo.InteractionApplicationCommand,
		Member: &discordgo.Member{User: &discordgo.User{ID: "111"}},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    "aura",
			Options: subcommand(subcommandName),
		},
	}}
}

func TestAnswerInteraction_DefersThenEdits(t *testing.T) {
	api := &fakeInteractionAPI{}
	var dispatched models.Command

	(&Bot{}).answerInteraction(api, slashInteraction("view"), func(cmd models.Command) models.Reply {
		// the acknowledgement is already out when dispatch starts
		assert.Equal(t, []string{"respond"}, api.calls)
		dispatched = cmd
		return models.Reply{Content: "🌌 Your aura: **100**"}
	})

	assert.Equal(t, []string{"respond", "edit"}, api.calls)
	assert.Equal(t, "view", dispatched.Subcommand)
	assert.Equal(t, "111", dispatched.ActorID)
	require.Len(t, api.responses, 1)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, api.responses[0].Type)
	require.Len(t, api.edits, 1)
	require.NotNil(t, api.edits[0].Content)
	assert.Equal(t, "🌌 Your aura: **100**", *api.edits[0].Content)
	assert.Empty(t, api.followups)
}

func TestAnswerInteraction_EphemeralReplyUsesFollowup(t *testing.T) {
	api := &fakeInteractionAPI{}

	(&Bot{}).answerInteraction(api, slashInteraction("gamble"), func(models.Command) models.Reply {
		return models.Reply{Content: "⚠️ Enter a valid aura amount!", Ephemeral: true}
	})

	assert.Equal(t, []string{"respond", "delete", "followup"}, api.calls)
	require.Len(t, api.followups, 1)
	assert.Equal(t, "⚠️ Enter a valid aura amount!", api.followups[0].Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, api.followups[0].Flags)
	assert.Empty(t, api.edits)
}

func TestAnswerInteraction_EmbedReply(t *testing.T) {
	api := &fakeInteractionAPI{}

	(&Bot{}).answerInteraction(api, slashInteraction("leaderboard"), func(models.Command) models.Reply {
		return models.Reply{Embed: &models.Embed{Title: "🏆 MXaura Leaderboard", Color: models.ColorLeaderboard}, Public: true}
	})

	require.Len(t, api.edits, 1)
	require.NotNil(t, api.edits[0].Embeds)
	require.Len(t, *api.edits[0].Embeds, 1)
	assert.Equal(t, "🏆 MXaura Leaderboard", (*api.edits[0].Embeds)[0].Title)
}

func TestAnswerInteraction_DeferFailureSkipsDispatch(t *testing.T) {
	api := &fakeInteractionAPI{deferErr: errors.New("unknown interaction")}
	dispatched := false

	(&Bot{}).answerInteraction(api, slashInteraction("accept"), func(models.Command) models.Reply {
		dispatched = true
		return models.Reply{}
	})

	assert.False(t, dispatched, "nothing may change when the command cannot be answered")
	assert.Equal(t, []string{"respond"}, api.calls)
}

func TestAnswerInteraction_PanicStillAnswers(t *testing.T) {
	api := &fakeInteractionAPI{}

	(&Bot{}).answerInteraction(api, slashInteraction("view"), func(models.Command) models.Reply {
		panic("boom")
	})

	assert.Equal(t, []string{"respond", "delete", "followup"}, api.calls)
	require.Len(t, api.followups, 1)
	assert.Equal(t, genericReply().Content, api.followups[0].Content)
}

func TestAnswerInteraction_IgnoresOtherInteractionTypes(t *testing.T) {
	api := &fakeInteractionAPI{}
	i := slashInteraction("view")
	i.Type = discordgo.InteractionMessageComponent

	(&Bot{}).answerInteraction(api, i, func(models.Command) models.Reply {
		t.Fatal("dispatch must not run")
		return models.Reply{}
	})

	assert.Empty(t, api.calls)
}
