package bot

import (
	"context"

	"aurabot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Option names shared by registration and parsing
const (
	optionAmount = "amount"
	optionUser   = "user"
	optionPrefix = "new"
)

// FromInteraction normalizes slash command data into a command
func FromInteraction(data discordgo.ApplicationCommandInteractionData, actorID string) models.Command {
	cmd := models.Command{
		Name:    data.Name,
		ActorID: actorID,
		Source:  models.SourceSlash,
	}

	options := data.Options
	if cmd.Name == models.CommandAura && len(options) > 0 && options[0].Type == discordgo.ApplicationCommandOptionSubCommand {
		cmd.Subcommand = options[0].Name
		options = options[0].Options
	}

	for _, opt := range options {
		switch {
		case opt.Name == optionAmount && opt.Type == discordgo.ApplicationCommandOptionInteger:
			if _, ok := opt.Value.(float64); ok {
				cmd.Amount = models.Int64(opt.IntValue())
			}
		case opt.Name == optionUser && opt.Type == discordgo.ApplicationCommandOptionUser:
			if user := opt.UserValue(nil); user != nil {
				cmd.TargetID = user.ID
				if data.Resolved != nil {
					if resolved, ok := data.Resolved.Users[user.ID]; ok {
						cmd.TargetIsBot = resolved.Bot
					}
				}
			}
		case opt.Name == optionPrefix && opt.Type == discordgo.ApplicationCommandOptionString:
			cmd.Argument = opt.StringValue()
		}
	}
	return cmd
}

// interactionActor returns the invoking user in guilds and DMs alike
func interactionActor(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.answerInteraction(s, i, func(cmd models.Command) models.Reply {
		return b.router.Dispatch(context.Background(), cmd)
	})
}

// answerInteraction acknowledges the command first, so lookups made while dispatching
// cannot run past the interaction deadline, then fills in the reply.
func (b *Bot) answerInteraction(api interactionAPI, i *discordgo.InteractionCreate, dispatch func(models.Command) models.Reply) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	actor := interactionActor(i)
	if actor == nil {
		return
	}

	if err := deferInteraction(api, i.Interaction); err != nil {
		log.Errorf("Error deferring interaction %s: %v", i.ID, err)
		return
	}

	defer func() {
		if p := recover(); p != nil {
			log.Errorf("Panic handling interaction %s: %v", i.ID, p)
			b.respondToInteraction(api, i, genericReply())
		}
	}()

	cmd := FromInteraction(i.ApplicationCommandData(), actor.ID)
	b.respondToInteraction(api, i, dispatch(cmd))
}
