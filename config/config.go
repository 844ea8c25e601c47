package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// MemoryDataFile selects an in-memory ledger instead of a file
const MemoryDataFile = ":memory:"

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string `env:"DISCORD_TOKEN"`
	// LegacyToken is read from TOKEN when DISCORD_TOKEN is unset
	LegacyToken       string `env:"TOKEN"`
	GuildID           string `env:"GUILD_ID"`
	AnnounceChannelID string `env:"ANNOUNCE_CHANNEL_ID"`

	// Aura leader role, synced only when GuildID is also set
	LeaderRoleID string `env:"LEADER_ROLE_ID"`

	// Ledger file, or MemoryDataFile
	DataFile      string `env:"AURA_DATA_FILE" envDefault:"auraData.json"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"*"`

	// Health endpoint port
	Port int `env:"PORT" envDefault:"3000"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // "development", "production" or "test"
}

// Load reads the dotenv file at path, if it exists, underneath the process environment
// and parses the result. Process variables win over the file.
func Load(path string) (*Config, error) {
	environ := map[string]string{}
	if path != "" {
		fileEnv, err := godotenv.Read(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		default:
			log.WithField("path", path).Debug("Loaded dotenv file")
			environ = fileEnv
		}
	}
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			environ[key] = value
		}
	}
	return parse(environ)
}

func parse(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.DiscordToken == "" {
		cfg.DiscordToken = cfg.LegacyToken
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks everything except the token, which only the bot needs
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("AURA_DATA_FILE must not be empty")
	}
	if utf8.RuneCountInString(c.CommandPrefix) != 1 || strings.TrimSpace(c.CommandPrefix) == "" {
		return fmt.Errorf("COMMAND_PREFIX must be a single character, got %q", c.CommandPrefix)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	switch c.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, production or test, got %q", c.Environment)
	}
	return nil
}

// RequireToken fails when the bot has no token to log in with. Tests run without one.
func (c *Config) RequireToken() error {
	if c.DiscordToken == "" && c.Environment != "test" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HealthAddr is the listen address of the health endpoint
func (c *Config) HealthAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// InMemory reports whether the ledger should not be written to disk
func (c *Config) InMemory() bool {
	return c.DataFile == MemoryDataFile
}
