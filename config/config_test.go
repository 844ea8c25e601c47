package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(map[string]string{"DISCORD_TOKEN": "abc"})
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.DiscordToken)
	assert.Equal(t, "auraData.json", cfg.DataFile)
	assert.Equal(t, "*", cfg.CommandPrefix)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":3000", cfg.HealthAddr())
	assert.False(t, cfg.InMemory())
	assert.False(t, cfg.IsProduction())
	assert.NoError(t, cfg.RequireToken())
}

func TestParse_LegacyTokenAlias(t *testing.T) {
	cfg, err := parse(map[string]string{"TOKEN": "legacy"})
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.DiscordToken)

	cfg, err = parse(map[string]string{"TOKEN": "legacy", "DISCORD_TOKEN": "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", cfg.DiscordToken)
}

func TestParse_Overrides(t *testing.T) {
	cfg, err := parse(map[string]string{
		"AURA_DATA_FILE":      MemoryDataFile,
		"COMMAND_PREFIX":      "!",
		"PORT":                "8080",
		"GUILD_ID":            "g",
		"LEADER_ROLE_ID":      "r",
		"ANNOUNCE_CHANNEL_ID": "c",
		"LOG_LEVEL":           "debug",
		"ENVIRONMENT":         "production",
	})
	require.NoError(t, err)

	assert.True(t, cfg.InMemory())
	assert.Equal(t, "!", cfg.CommandPrefix)
	assert.Equal(t, ":8080", cfg.HealthAddr())
	assert.Equal(t, "g", cfg.GuildID)
	assert.Equal(t, "r", cfg.LeaderRoleID)
	assert.Equal(t, "c", cfg.AnnounceChannelID)
	assert.True(t, cfg.IsProduction())
	assert.Error(t, cfg.RequireToken())
}

func TestParse_TestEnvironmentNeedsNoToken(t *testing.T) {
	cfg, err := parse(map[string]string{"ENVIRONMENT": "test"})
	require.NoError(t, err)
	assert.NoError(t, cfg.RequireToken())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
	}{
		{name: "long prefix", environ: map[string]string{"COMMAND_PREFIX": "!!"}},
		{name: "blank prefix", environ: map[string]string{"COMMAND_PREFIX": " "}},
		{name: "port not a number", environ: map[string]string{"PORT": "http"}},
		{name: "port out of range", environ: map[string]string{"PORT": "70000"}},
		{name: "log level", environ: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "environment", environ: map[string]string{"ENVIRONMENT": "staging"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parse(tt.environ)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("AURA_DATA_FILE=from-file.json\nCOMMAND_PREFIX=%\n"), 0o644))
	t.Setenv("COMMAND_PREFIX", "!")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-file.json", cfg.DataFile)
	assert.Equal(t, "!", cfg.CommandPrefix, "process environment wins over the file")
}

func TestLoad_MissingDotEnvFile(t *testing.T) {
	t.Setenv("AURA_DATA_FILE", "env.json")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "env.json", cfg.DataFile)
}
