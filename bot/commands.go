package bot

import (
	"fmt"

	"aurabot/models"

	"github.com/bwmarrin/discordgo"
)

func amountOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        optionAmount,
		Description: description,
		Required:    required,
	}
}

func userOption(description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        optionUser,
		Description: description,
		Required:    required,
	}
}

// slashCommands describes every application command the bot exposes
func slashCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        models.CommandAura,
			Description: "Check and wager your aura",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        models.SubcommandView,
					Description: "Show your aura",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        models.SubcommandGamble,
					Description: "Flip a coin for aura",
					Options: []*discordgo.ApplicationCommandOption{
						amountOption("Aura to gamble", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        models.SubcommandBattle,
					Description: "Challenge someone to a roll-off",
					Options: []*discordgo.ApplicationCommandOption{
						amountOption("Aura to wager", true),
						userOption("User to challenge", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        models.SubcommandAccept,
					Description: "Accept the battle waiting on you",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        models.SubcommandLeaderboard,
					Description: "Show the top aura",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        models.SubcommandGive,
					Description: "Give aura to a user (admins only)",
					Options: []*discordgo.ApplicationCommandOption{
						amountOption("Aura to give", true),
						userOption("User to give aura to", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        models.SubcommandTake,
					Description: "Take aura from a user (admins only)",
					Options: []*discordgo.ApplicationCommandOption{
						amountOption("Aura to take", true),
						userOption("User to take aura from", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        models.SubcommandReset,
					Description: "Reset a user's aura to 0 (owner only)",
					Options: []*discordgo.ApplicationCommandOption{
						userOption("User to reset", true),
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        models.SubcommandSet,
					Description: "Set a user's aura (owner only)",
					Options: []*discordgo.ApplicationCommandOption{
						amountOption("New aura balance", true),
						userOption("User to update (defaults to you)", false),
					},
				},
			},
		},
		{
			Name:        models.CommandHelp,
			Description: "Show the aura commands",
		},
		{
			Name:        models.CommandPrefix,
			Description: "Change the text command prefix (owner only)",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionPrefix,
					Description: "A single character",
					Required:    true,
					MaxLength:   1,
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range slashCommands() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}
