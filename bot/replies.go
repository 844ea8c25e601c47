package bot

import (
	"fmt"

	"aurabot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func genericReply() models.Reply {
	return models.Reply{Content: "⚠️ An error occurred. Please try again.", Ephemeral: true}
}

func toMessageEmbeds(embed *models.Embed) []*discordgo.MessageEmbed {
	if embed == nil {
		return nil
	}
	return []*discordgo.MessageEmbed{{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
	}}
}

// messageSend builds the outgoing channel message. Public replies are posted plainly,
// everything else answers the triggering message.
func messageSend(reply models.Reply, source *discordgo.Message) *discordgo.MessageSend {
	send := &discordgo.MessageSend{
		Content: reply.Content,
		Embeds:  toMessageEmbeds(reply.Embed),
	}
	if !reply.Public && source != nil {
		send.Reference = source.Reference()
	}
	return send
}

// interactionAPI is the slice of the discordgo session used to answer slash commands
type interactionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseDelete(interaction *discordgo.Interaction, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// deferInteraction acknowledges a slash command before it is dispatched
func deferInteraction(api interactionAPI, i *discordgo.Interaction) error {
	return api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func interactionEdit(reply models.Reply) *discordgo.WebhookEdit {
	content := reply.Content
	embeds := toMessageEmbeds(reply.Embed)
	return &discordgo.WebhookEdit{
		Content: &content,
		Embeds:  &embeds,
	}
}

func interactionFollowup(reply models.Reply) *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content: reply.Content,
		Embeds:  toMessageEmbeds(reply.Embed),
		Flags:   discordgo.MessageFlagsEphemeral,
	}
}

// deliverInteractionReply fills in a deferred response. The deferred message is
// visible to the channel, so ephemeral replies replace it with an ephemeral followup.
func deliverInteractionReply(api interactionAPI, i *discordgo.Interaction, reply models.Reply) error {
	if !reply.Ephemeral {
		if _, err := api.InteractionResponseEdit(i, interactionEdit(reply)); err != nil {
			return fmt.Errorf("failed to edit deferred response: %w", err)
		}
		return nil
	}

	if err := api.InteractionResponseDelete(i); err != nil {
		log.Warnf("Failed to delete deferred response for interaction %s: %v", i.ID, err)
	}
	if _, err := api.FollowupMessageCreate(i, false, interactionFollowup(reply)); err != nil {
		return fmt.Errorf("failed to send ephemeral followup: %w", err)
	}
	return nil
}

func (b *Bot) sendMessageReply(s *discordgo.Session, source *discordgo.Message, reply models.Reply) {
	if _, err := s.ChannelMessageSendComplex(source.ChannelID, messageSend(reply, source)); err != nil {
		log.Errorf("Error sending reply in channel %s: %v", source.ChannelID, err)
	}
}

func (b *Bot) respondToInteraction(api interactionAPI, i *discordgo.InteractionCreate, reply models.Reply) {
	if err := deliverInteractionReply(api, i.Interaction, reply); err != nil {
		log.Errorf("Error responding to interaction %s: %v", i.ID, err)
	}
}
