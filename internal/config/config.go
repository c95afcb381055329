package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type Config struct {
	BotToken       string
	TelegramAPIURL string

	CallAPIURL     string
	CallCreatePath string
	AnonymousRooms bool

	// Mode selects how updates arrive: long polling or a webhook server.
	Mode          string
	WebhookSecret string

	Port        string
	MetricsPort string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LogLevel string
}

// Load reads configuration from the environment (an optional .env file is
// merged in first) and validates it. A missing bot credential or an
// unknown mode is a startup failure; nothing is re-read later.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	cfg := &Config{
		BotToken:       getEnv("BOT_TOKEN", ""),
		TelegramAPIURL: getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
		CallAPIURL:     getEnv("CALL_API_URL", "http://localhost:3000"),
		CallCreatePath: getEnv("CALL_CREATE_PATH", "/api/call/create"),
		AnonymousRooms: getEnv("ANONYMOUS_ROOMS", "false") == "true",
		Mode:           getEnv("MODE", ModePolling),
		WebhookSecret:  getEnv("WEBHOOK_SECRET", ""),
		Port:           getEnv("PORT", "8080"),
		MetricsPort:    getEnv("METRICS_PORT", "9090"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        redisDB,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable is required")
	}
	if cfg.CallAPIURL == "" {
		return nil, fmt.Errorf("CALL_API_URL must not be empty")
	}
	if cfg.Mode != ModePolling && cfg.Mode != ModeWebhook {
		return nil, fmt.Errorf("MODE must be %q or %q, got %q", ModePolling, ModeWebhook, cfg.Mode)
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
