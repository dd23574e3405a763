package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PHARMACONNECT_API_URL", "")
	t.Setenv("PHARMACONNECT_REALTIME_URL", "")
	t.Setenv("PHARMACONNECT_HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("PHARMACONNECT_TYPING_IDLE_MS", "")

	cfg := Load()
	if cfg.APIBaseURL != "http://localhost:8082" {
		t.Fatalf("api url=%q", cfg.APIBaseURL)
	}
	if cfg.RealtimeURL != "http://localhost:8082/realtime" {
		t.Fatalf("realtime url=%q", cfg.RealtimeURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("timeout=%v", cfg.HTTPTimeout)
	}
	if cfg.TypingIdle != time.Second {
		t.Fatalf("typing idle=%v", cfg.TypingIdle)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PHARMACONNECT_API_URL", "https://api.pharmaconnect.example")
	t.Setenv("PHARMACONNECT_REALTIME_URL", "wss://rt.pharmaconnect.example")
	t.Setenv("PHARMACONNECT_HTTP_TIMEOUT_SECONDS", "30")
	t.Setenv("PHARMACONNECT_TYPING_IDLE_MS", "250")

	cfg := Load()
	if cfg.APIBaseURL != "https://api.pharmaconnect.example" {
		t.Fatalf("api url=%q", cfg.APIBaseURL)
	}
	if cfg.RealtimeURL != "wss://rt.pharmaconnect.example" {
		t.Fatalf("realtime url=%q", cfg.RealtimeURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("timeout=%v", cfg.HTTPTimeout)
	}
	if cfg.TypingIdle != 250*time.Millisecond {
		t.Fatalf("typing idle=%v", cfg.TypingIdle)
	}
}

func TestLoadIgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("PHARMACONNECT_HTTP_TIMEOUT_SECONDS", "soon")
	cfg := Load()
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("timeout=%v, want fallback", cfg.HTTPTimeout)
	}
}
