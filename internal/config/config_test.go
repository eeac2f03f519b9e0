package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != "4000" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.BackendTimeout != 30*time.Second {
		t.Errorf("BackendTimeout = %s", cfg.BackendTimeout)
	}
	if cfg.SessionDriver != SessionMemory {
		t.Errorf("SessionDriver = %q", cfg.SessionDriver)
	}
	if cfg.SessionTTL != 7*24*time.Hour {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
	if cfg.RateLimitPerMin != 60 {
		t.Errorf("RateLimitPerMin = %d", cfg.RateLimitPerMin)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEBUG", "true")
	t.Setenv("BACKEND_BASE_URL", "https://api.autoprime.in/")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("SESSION_DRIVER", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerPort != "9000" || !cfg.Debug {
		t.Errorf("ServerPort = %q, Debug = %v", cfg.ServerPort, cfg.Debug)
	}
	if cfg.BackendBaseURL != "https://api.autoprime.in" {
		t.Errorf("BackendBaseURL = %q", cfg.BackendBaseURL)
	}
	if cfg.BackendTimeout != 5*time.Second {
		t.Errorf("BackendTimeout = %s", cfg.BackendTimeout)
	}
	if cfg.SessionDriver != SessionRedis || cfg.RedisDB != 3 {
		t.Errorf("SessionDriver = %q, RedisDB = %d", cfg.SessionDriver, cfg.RedisDB)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"SESSION_DRIVER", "mongo"},
		{"BACKEND_TIMEOUT", "0s"},
		{"SESSION_TTL", "-1h"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := load(viper.New()); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
