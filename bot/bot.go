package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"aurabot/events"
	"aurabot/router"
	"aurabot/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token             string
	GuildID           string
	LeaderRoleID      string
	AnnounceChannelID string
}

// LeaderRoleEnabled reports whether the aura leader role should be synced
func (c Config) LeaderRoleEnabled() bool {
	return c.GuildID != "" && c.LeaderRoleID != ""
}

type Bot struct {
	config     Config
	session    *discordgo.Session
	router     *router.Router
	eventBus   *events.Bus
	leaderRole *leaderRoleSyncer
}

// New creates the Discord session and wires handlers. Nothing connects until Run.
// Attach a router with SetRouter before running.
func New(config Config, ledger service.LedgerStore, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildMembers

	bot := &Bot{
		config:   config,
		session:  dg,
		eventBus: eventBus,
	}

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleInteraction)

	if config.LeaderRoleEnabled() {
		bot.leaderRole = newLeaderRoleSyncer(dg, ledger, config.GuildID, config.LeaderRoleID)
		bot.leaderRole.Subscribe(eventBus)
		log.Info("Aura leader role management enabled")
	}
	if config.AnnounceChannelID != "" {
		newResetAnnouncer(dg, config.AnnounceChannelID).Subscribe(eventBus)
		log.WithField("channel", config.AnnounceChannelID).Info("Daily reset announcements enabled")
	}

	return bot, nil
}

// Identities returns a resolver backed by this bot's session
func (b *Bot) Identities() router.IdentityResolver {
	return NewIdentityResolver(b.session, b.config.GuildID)
}

// SetRouter attaches the command router. It must be called before Run.
func (b *Bot) SetRouter(r *router.Router) {
	b.router = r
}

// Run opens the gateway connection, registers slash commands and blocks until ctx is done
func (b *Bot) Run(ctx context.Context) error {
	if b.router == nil {
		return fmt.Errorf("bot has no command router")
	}
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if err := b.registerCommands(); err != nil {
		b.session.Close()
		return fmt.Errorf("error registering commands: %w", err)
	}

	if b.leaderRole != nil {
		if err := b.leaderRole.Sync(ctx); err != nil {
			log.Errorf("Failed to sync aura leader role on startup: %v", err)
		} else {
			log.Info("Aura leader role synced on startup")
		}
	}

	<-ctx.Done()
	log.Info("Shutting down Discord bot...")
	return b.Close()
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Infof("Logged in as %s#%s", r.User.Username, r.User.Discriminator)
}
