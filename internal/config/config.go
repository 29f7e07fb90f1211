package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// Cfg holds runtime configuration loaded from environment variables.
type Cfg struct {
	ListenAddr string // LISTEN_ADDR, or :PORT (default :8080)

	// Rules store
	RulesDB        string // RULES_DB=./grocery.db (":memory:" for a throwaway store)
	VocabularyFile string // VOCABULARY_FILE=vocab.yaml seeds an empty store
	CatchAll       string // CATCH_ALL_CATEGORY; empty defers to the vocabulary

	CORSOrigins []string // CORS_ORIGINS=https://a.example,https://b.example

	LogLevel zapcore.Level // LOG_LEVEL=info
	LogDev   bool          // LOG_DEV=true switches to the console encoder
}

// Load reads .env (if present) then environment variables and returns Cfg.
func Load() (*Cfg, error) {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()
	return fromEnv()
}

func fromEnv() (*Cfg, error) {
	cfg := &Cfg{
		RulesDB:        env("RULES_DB", "./grocery.db"),
		VocabularyFile: env("VOCABULARY_FILE", ""),
		CatchAll:       env("CATCH_ALL_CATEGORY", ""),
		LogDev:         boolEnv("LOG_DEV"),
	}

	cfg.ListenAddr = env("LISTEN_ADDR", "")
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":" + env("PORT", "8080")
	}

	for _, o := range strings.Split(env("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	level, err := zapcore.ParseLevel(env("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	if cfg.VocabularyFile != "" {
		if _, err := os.Stat(cfg.VocabularyFile); err != nil {
			return nil, fmt.Errorf("VOCABULARY_FILE: %w", err)
		}
	}

	return cfg, nil
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func boolEnv(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	return v == "1" || strings.EqualFold(v, "true")
}
