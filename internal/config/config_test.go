package config_test

import (
	"testing"
	"time"

	"territoryd/internal/config"
)

func TestLoadConfigAppliesDefaultsWithoutEnvFile(t *testing.T) {
	cfg, err := config.LoadConfig("/nonexistent/path/.env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Game.LobbyCount != 4 {
		t.Errorf("LobbyCount = %d, want default 4", cfg.Game.LobbyCount)
	}
	if cfg.Game.TickInterval != 500*time.Millisecond {
		t.Errorf("TickInterval = %v, want 500ms default", cfg.Game.TickInterval)
	}
	if cfg.Listen.Port != 8080 {
		t.Errorf("Listen.Port = %d, want default 8080", cfg.Listen.Port)
	}
}

func TestLoadConfigReadsEnvOverrides(t *testing.T) {
	t.Setenv("GAME_LOBBY_COUNT", "8")
	t.Setenv("JWT_SECRET", "s3cr3t")

	cfg, err := config.LoadConfig("/nonexistent/path/.env")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Game.LobbyCount != 8 {
		t.Errorf("LobbyCount = %d, want 8 from env override", cfg.Game.LobbyCount)
	}
	if string(cfg.JWTSecret) != "s3cr3t" {
		t.Errorf("JWTSecret = %q, want s3cr3t", cfg.JWTSecret)
	}
}
