package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	TokenSecret string

	// Optional out-of-process delivery endpoint. When set, the reconciler
	// first delegates the whole delivery there.
	DeliveryEndpoint string

	DiscordBotToken        string
	DiscordGuildID         string
	DiscordOrdersChannelID string
	DiscordAPIBase         string

	AdminCacheTTL   time.Duration
	NotifyWorkers   int
	NotifyQueueSize int
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultTokenSecret     = "change-me-in-production"
	defaultDiscordAPIBase  = "https://discord.com/api/v10"
	defaultAdminCacheTTL   = 5 * time.Minute
	defaultNotifyWorkers   = 2
	defaultNotifyQueueSize = 64
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from flags and environment variables. A local
// .env file, when present, is merged into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:             getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:            getString(lookup, "DATABASE_URI", ""),
		TokenSecret:            getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		DeliveryEndpoint:       getString(lookup, "DELIVERY_ENDPOINT", ""),
		DiscordBotToken:        getString(lookup, "DISCORD_BOT_TOKEN", ""),
		DiscordGuildID:         getString(lookup, "DISCORD_GUILD_ID", ""),
		DiscordOrdersChannelID: getString(lookup, "DISCORD_ORDERS_CHANNEL_ID", ""),
		DiscordAPIBase:         getString(lookup, "DISCORD_API_BASE", defaultDiscordAPIBase),
		AdminCacheTTL:          getDuration(lookup, "ADMIN_CACHE_TTL", defaultAdminCacheTTL),
		NotifyWorkers:          getInt(lookup, "NOTIFY_WORKERS", defaultNotifyWorkers),
		NotifyQueueSize:        getInt(lookup, "NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize),
		ShutdownTimeout:        getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		cacheTTLStr        = cfg.AdminCacheTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.DeliveryEndpoint, "delivery-endpoint", cfg.DeliveryEndpoint, "Remote delivery function base URL")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.DiscordGuildID, "discord-guild", cfg.DiscordGuildID, "Discord guild identifier")
	fs.StringVar(&cfg.DiscordOrdersChannelID, "discord-orders-channel", cfg.DiscordOrdersChannelID, "Discord channel for order threads")
	fs.IntVar(&cfg.NotifyWorkers, "notify-workers", cfg.NotifyWorkers, "Number of concurrent notification workers")
	fs.IntVar(&cfg.NotifyQueueSize, "notify-queue", cfg.NotifyQueueSize, "Notification queue capacity")
	fs.StringVar(&cacheTTLStr, "admin-cache-ttl", cacheTTLStr, "TTL for cached admin-check results")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.AdminCacheTTL, err = time.ParseDuration(cacheTTLStr); err != nil {
		return nil, fmt.Errorf("invalid admin cache ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if tokenFile, ok := lookup("DISCORD_BOT_TOKEN_FILE"); ok && tokenFile != "" {
		content, err := os.ReadFile(tokenFile)
		if err != nil {
			return nil, fmt.Errorf("read discord token file: %w", err)
		}
		cfg.DiscordBotToken = string(content)
	}

	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = defaultNotifyWorkers
	}

	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = defaultNotifyQueueSize
	}

	if cfg.AdminCacheTTL <= 0 {
		cfg.AdminCacheTTL = defaultAdminCacheTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
