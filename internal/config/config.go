package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	RealtimeURL string
	SessionPath string
	HTTPTimeout time.Duration
	TypingIdle  time.Duration
}

func Load() Config {
	_ = godotenv.Load()

	apiURL := os.Getenv("PHARMACONNECT_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8082"
	}
	realtimeURL := os.Getenv("PHARMACONNECT_REALTIME_URL")
	if realtimeURL == "" {
		realtimeURL = apiURL + "/realtime"
	}

	return Config{
		APIBaseURL:  apiURL,
		RealtimeURL: realtimeURL,
		SessionPath: os.Getenv("PHARMACONNECT_SESSION_PATH"),
		HTTPTimeout: readDurationSeconds("PHARMACONNECT_HTTP_TIMEOUT_SECONDS", 15),
		TypingIdle:  readDurationMillis("PHARMACONNECT_TYPING_IDLE_MS", 1000),
	}
}

func readDurationSeconds(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func readDurationMillis(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Millisecond
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
