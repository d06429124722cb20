package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// XP accrual configuration
	XPPerMessageMin   int64 // Lower bound of the random XP rolled per accepted message
	XPPerMessageMax   int64 // Upper bound of the random XP rolled per accepted message
	XPCooldownSeconds int   // Minimum interval between XP grants for the same user

	// Top Wrangler role configuration
	TopWranglerRoleID  string
	TopWranglerEnabled bool

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from the environment, after reading an
// optional .env file in the working directory
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// XP settings with defaults
		XPPerMessageMin:   15,
		XPPerMessageMax:   25,
		XPCooldownSeconds: 60,

		// Top Wrangler role
		TopWranglerRoleID:  os.Getenv("TOP_WRANGLER_ROLE_ID"),
		TopWranglerEnabled: os.Getenv("TOP_WRANGLER_ENABLED") == "true",

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if min := os.Getenv("XP_PER_MESSAGE_MIN"); min != "" {
		if parsed, err := strconv.ParseInt(min, 10, 64); err == nil {
			config.XPPerMessageMin = parsed
		}
	}
	if max := os.Getenv("XP_PER_MESSAGE_MAX"); max != "" {
		if parsed, err := strconv.ParseInt(max, 10, 64); err == nil {
			config.XPPerMessageMax = parsed
		}
	}
	if cooldown := os.Getenv("XP_COOLDOWN_SECONDS"); cooldown != "" {
		if parsed, err := strconv.Atoi(cooldown); err == nil {
			config.XPCooldownSeconds = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	if config.XPPerMessageMin <= 0 || config.XPPerMessageMax < config.XPPerMessageMin {
		return nil, fmt.Errorf("invalid XP per-message range [%d, %d]", config.XPPerMessageMin, config.XPPerMessageMax)
	}

	return config, nil
}
