package cmd

import (
	"context"
	"fmt"

	"aurabot/bot"
	"aurabot/config"
	"aurabot/events"
	"aurabot/health"
	"aurabot/router"
	"aurabot/service"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Run initializes and starts the application
func Run(ctx context.Context, cfg *config.Config) error {
	log.Info("Starting aura bot...")

	if err := cfg.RequireToken(); err != nil {
		return err
	}

	// Initialize event bus
	eventBus := events.NewBus()

	// Load ledger
	rng := service.NewRandom()
	ledger, err := loadLedger(ctx, cfg, rng, eventBus)
	if err != nil {
		return err
	}
	log.WithField("data_file", cfg.DataFile).Info("Ledger ready")

	// Initialize services
	permissions := service.DefaultPermissions()
	wagerService := service.NewWagerService(ledger, rng)
	adminService := service.NewAdminService(ledger, permissions)

	// Initialize Discord bot
	discordBot, err := bot.New(bot.Config{
		Token:             cfg.DiscordToken,
		GuildID:           cfg.GuildID,
		LeaderRoleID:      cfg.LeaderRoleID,
		AnnounceChannelID: cfg.AnnounceChannelID,
	}, ledger, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}

	discordBot.SetRouter(router.New(router.Config{
		Ledger:      ledger,
		Wagers:      wagerService,
		Admin:       adminService,
		Permissions: permissions,
		Identities:  discordBot.Identities(),
		Prefix:      router.NewPrefix(cfg.CommandPrefix),
	}))

	scheduler := service.NewResetScheduler(ledger)
	healthServer := health.NewServer(cfg.HealthAddr())

	log.Infof("Bot is running in %s mode...", cfg.Environment)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return discordBot.Run(gctx)
	})
	g.Go(func() error {
		return scheduler.Run(gctx)
	})
	g.Go(func() error {
		return healthServer.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Shutdown completed")
	return nil
}
