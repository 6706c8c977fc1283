package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr         string
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	TokenTTL     time.Duration
	ShareBaseURL string
}

// Load reads configuration from the environment, with .env as a fallback
// for local development. Settings without a safe default are required and
// reported together in one error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:         ":" + getenv("PORT", "8080"),
		MongoURI:     os.Getenv("MONGO_URI"),
		MongoDB:      getenv("MONGO_DB", "eventhub"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		ShareBaseURL: getenv("SHARE_BASE_URL", "http://localhost:8080"),
		TokenTTL:     24 * time.Hour,
	}

	if h := os.Getenv("TOKEN_TTL_HOURS"); h != "" {
		n, err := strconv.Atoi(h)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("config: invalid TOKEN_TTL_HOURS %q", h)
		}
		cfg.TokenTTL = time.Duration(n) * time.Hour
	}

	var missing []string
	if cfg.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: missing required env vars: %v", missing)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
