package config

import (
	"strings"
	"testing"
)

func TestLoadRequiresBotToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "BOT_TOKEN") {
		t.Errorf("Load() error = %v, want missing BOT_TOKEN error", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TelegramAPIURL != "https://api.telegram.org" {
		t.Errorf("TelegramAPIURL = %q", cfg.TelegramAPIURL)
	}
	if cfg.CallAPIURL != "http://localhost:3000" {
		t.Errorf("CallAPIURL = %q", cfg.CallAPIURL)
	}
	if cfg.CallCreatePath != "/api/call/create" {
		t.Errorf("CallCreatePath = %q", cfg.CallCreatePath)
	}
	if cfg.Mode != ModePolling {
		t.Errorf("Mode = %q, want polling", cfg.Mode)
	}
	if cfg.AnonymousRooms {
		t.Error("AnonymousRooms should default to false")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("MODE", "carrier-pigeon")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "MODE") {
		t.Errorf("Load() error = %v, want mode validation error", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("MODE", "webhook")
	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("CALL_API_URL", "https://api.call.example")
	t.Setenv("CALL_CREATE_PATH", "/api/rooms")
	t.Setenv("ANONYMOUS_ROOMS", "true")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeWebhook || cfg.WebhookSecret != "s3cret" {
		t.Errorf("webhook settings not applied: %+v", cfg)
	}
	if cfg.CallAPIURL != "https://api.call.example" || cfg.CallCreatePath != "/api/rooms" || !cfg.AnonymousRooms {
		t.Errorf("call api settings not applied: %+v", cfg)
	}
	if cfg.RedisDB != 3 {
		t.Errorf("RedisDB = %d, want 3", cfg.RedisDB)
	}
}
