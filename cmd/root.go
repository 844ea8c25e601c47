package cmd

import (
	"context"
	"fmt"
	"os"

	"aurabot/config"
	"aurabot/events"
	"aurabot/repository"
	"aurabot/service"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	envFile  string
	dataFile string
	cfg      *config.Config
}

// NewRootCommand builds the aurabot command tree. Running the root command starts the bot.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "aurabot",
		Short:         "Discord bot that tracks and wagers aura",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return err
			}
			if opts.dataFile != "" {
				cfg.DataFile = opts.dataFile
			}
			opts.cfg = cfg
			setupLogging(cfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), opts.cfg)
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file read before the process environment")
	root.PersistentFlags().StringVar(&opts.dataFile, "data-file", "", "ledger file, overrides AURA_DATA_FILE")

	root.AddCommand(newLedgerCommand(opts))
	return root
}

// Execute runs the command line with ctx governing the bot's lifetime
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// newStorage picks the ledger backend named by the configuration
func newStorage(cfg *config.Config) service.LedgerStorage {
	if cfg.InMemory() {
		log.Warn("Using an in-memory ledger, balances are lost on restart")
		return repository.NewMemoryStorage()
	}
	return repository.NewFileStorage(cfg.DataFile)
}

// loadLedger opens the configured storage and reads it into a ledger
func loadLedger(ctx context.Context, cfg *config.Config, rng service.Random, eventBus *events.Bus) (service.LedgerStore, error) {
	ledger := service.NewLedger(newStorage(cfg), rng, eventBus)
	if err := ledger.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to load ledger from %s: %w", cfg.DataFile, err)
	}
	return ledger, nil
}
