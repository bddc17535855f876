package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the bot.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	BotToken       string
	TelegramMode   string
	AllowedUserIDs []int64
	ProtectedBot   bool
	Language       string

	BrainMode     string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	ModelTimeout  time.Duration

	DatabaseURL string
	TablePrefix string

	WindowSize    int
	NaturalPacing bool
	PaceDelay     time.Duration
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:         envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace: envOrDefault("APP_METRICS_NAMESPACE", "riko"),
		ShutdownTimeout:  15 * time.Second,
		BotToken:         stringsTrimSpace("BOT_TOKEN"),
		TelegramMode:     envOrDefault("TELEGRAM_MODE", "webhook"),
		ProtectedBot:     true,
		Language:         envOrDefault("BOT_LANGUAGE", "th"),
		BrainMode:        envOrDefault("BRAIN_MODE", "auto"),
		OpenAIAPIKey:     stringsTrimSpace("OPENAI_API_KEY"),
		OpenAIBaseURL:    stringsTrimSpace("OPENAI_BASE_URL"),
		OpenAIModel:      envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		ModelTimeout:     20 * time.Second,
		DatabaseURL:      stringsTrimSpace("DATABASE_URL"),
		TablePrefix:      envOrDefault("TABLE_PREFIX", "riko"),
		WindowSize:       10,
		NaturalPacing:    true,
		PaceDelay:        800 * time.Millisecond,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.ModelTimeout, err = durationFromEnv("MODEL_TIMEOUT", cfg.ModelTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.PaceDelay, err = durationFromEnv("PACE_DELAY", cfg.PaceDelay)
	if err != nil {
		return Config{}, err
	}
	cfg.WindowSize, err = intFromEnv("CONTEXT_WINDOW_SIZE", cfg.WindowSize)
	if err != nil {
		return Config{}, err
	}
	cfg.ProtectedBot, err = boolFromEnv("PROTECTED_BOT", cfg.ProtectedBot)
	if err != nil {
		return Config{}, err
	}
	cfg.NaturalPacing, err = boolFromEnv("NATURAL_PACING", cfg.NaturalPacing)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowedUserIDs, err = int64ListFromEnv("ALLOWED_USER_IDS")
	if err != nil {
		return Config{}, err
	}

	if cfg.WindowSize < 0 {
		return Config{}, fmt.Errorf("CONTEXT_WINDOW_SIZE must be >= 0")
	}
	if cfg.PaceDelay < 0 {
		return Config{}, fmt.Errorf("PACE_DELAY must be >= 0")
	}
	if cfg.ModelTimeout <= 0 {
		return Config{}, fmt.Errorf("MODEL_TIMEOUT must be positive")
	}
	switch cfg.TelegramMode {
	case "webhook", "poll":
	default:
		return Config{}, fmt.Errorf("invalid TELEGRAM_MODE: %q (expected webhook|poll)", cfg.TelegramMode)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}

// int64ListFromEnv parses a comma separated list of user IDs, e.g.
// "1234567890,0987654321".
func int64ListFromEnv(key string) ([]int64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return nil, nil
	}
	parts := strings.Split(v, ",")
	out := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s parse error: %w", key, err)
		}
		out = append(out, n)
	}
	return out, nil
}
