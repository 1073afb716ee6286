// Package config loads and validates the bot configuration from a YAML file,
// with credentials resolved from the environment (.env supported) and the OS
// keyring. Missing required settings abort startup: running a summary bot
// with half a configuration only fails later and less clearly.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nkoski/briefbot/pkg/briefbot/schedule"
)

// Config holds all bot configuration.
type Config struct {
	// Discord configures the chat platform connection.
	Discord DiscordConfig `yaml:"discord"`

	// Bot configures the summary pipeline.
	Bot BotConfig `yaml:"bot"`

	// Whitelist restricts whose messages are ingested.
	Whitelist WhitelistConfig `yaml:"whitelist"`

	// API configures the text-generation endpoint.
	API APIConfig `yaml:"api"`

	// Database configures the message store.
	Database DatabaseConfig `yaml:"database"`
}

// DiscordConfig configures the Discord connection.
type DiscordConfig struct {
	// Token is the bot token. Resolved from the BOT_TOKEN environment
	// variable or the OS keyring when not set here.
	Token string `yaml:"token"`
}

// BotConfig configures the summary pipeline.
type BotConfig struct {
	// MonitorChannel is the channel ID whose messages are ingested.
	MonitorChannel string `yaml:"monitor_channel"`

	// SubscriberChannels receive the daily summary.
	SubscriberChannels []string `yaml:"subscriber_channels"`

	// SummaryTime is the daily fire time as "HH:MM" local to Timezone.
	SummaryTime string `yaml:"summary_time"`

	// Timezone is the IANA zone name for SummaryTime (e.g. "Europe/Helsinki").
	Timezone string `yaml:"timezone"`
}

// WhitelistConfig restricts ingestion to listed author IDs.
type WhitelistConfig struct {
	// Users are the author IDs whose messages are stored.
	Users []string `yaml:"users"`
}

// APIConfig configures the text-generation endpoint.
type APIConfig struct {
	// Key is the API key. Resolved from LLM_API_KEY or the OS keyring when
	// not set here.
	Key string `yaml:"key"`

	// BaseURL is the OpenAI-compatible endpoint, e.g. "http://localhost:1234/v1".
	// Resolved from LLM_API_URL when not set here.
	BaseURL string `yaml:"base_url"`

	// Model is the model name to request.
	Model string `yaml:"model"`

	// MaxTokens caps the response length server-side. Zero lets the server
	// decide.
	MaxTokens int `yaml:"max_tokens"`
}

// DatabaseConfig configures the message store.
type DatabaseConfig struct {
	// Path is the SQLite database file location.
	Path string `yaml:"path"`
}

// Default returns a Config with defaults applied.
func Default() *Config {
	return &Config{
		Bot: BotConfig{
			SummaryTime: "09:00",
			Timezone:    "UTC",
		},
		Database: DatabaseConfig{
			Path: "./data/messages.db",
		},
	}
}

// Load reads the configuration file at path. A .env file next to the working
// directory is loaded first; ${VAR} references inside the YAML are expanded;
// credential environment variables override file values; empty secrets fall
// back to the OS keyring.
func Load(path string) (*Config, error) {
	// Missing .env is fine; env vars may come from the environment proper.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %q: %w", path, err)
	}

	expanded := os.Expand(string(data), func(name string) string {
		return os.Getenv(name)
	})

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %q: %w", path, err)
	}

	resolveSecrets(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveSecrets fills credentials from the environment, then the OS
// keyring, leaving file values in place when already set.
func resolveSecrets(cfg *Config) {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.API.Key = v
	}
	if v := os.Getenv("LLM_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}

	if cfg.Discord.Token == "" {
		cfg.Discord.Token = keyringGet(keyringBotToken)
	}
	if cfg.API.Key == "" {
		cfg.API.Key = keyringGet(keyringAPIKey)
	}
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	var missing []string

	if c.Discord.Token == "" {
		missing = append(missing, "discord.token (or BOT_TOKEN)")
	}
	if c.Bot.MonitorChannel == "" {
		missing = append(missing, "bot.monitor_channel")
	}
	if len(c.Bot.SubscriberChannels) == 0 {
		missing = append(missing, "bot.subscriber_channels")
	}
	if c.Bot.SummaryTime == "" {
		missing = append(missing, "bot.summary_time")
	}
	if c.Bot.Timezone == "" {
		missing = append(missing, "bot.timezone")
	}
	if len(c.Whitelist.Users) == 0 {
		missing = append(missing, "whitelist.users")
	}
	if c.API.Key == "" {
		missing = append(missing, "api.key (or LLM_API_KEY)")
	}
	if c.API.BaseURL == "" {
		missing = append(missing, "api.base_url (or LLM_API_URL)")
	}
	if c.API.Model == "" {
		missing = append(missing, "api.model")
	}

	if len(missing) > 0 {
		return fmt.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}

	if _, err := c.Schedule(); err != nil {
		return err
	}
	return nil
}

// Schedule parses the configured summary time and timezone.
func (c *Config) Schedule() (schedule.Spec, error) {
	return schedule.Parse(c.Bot.SummaryTime, c.Bot.Timezone)
}
