package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	defaultBaseURL      = "https://ggst-game.guiltygear.com"
	defaultUtilsBaseURL = "https://ggst-utils-default-rtdb.europe-west1.firebasedatabase.app"
)

type Config struct {
	BaseURL      string
	UtilsBaseURL string
	DBPath       string
	ServerPort   string
	LogLevel     string
	UserCacheTTL time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		BaseURL:      getEnv("GGST_BASE_URL", defaultBaseURL),
		UtilsBaseURL: getEnv("GGST_UTILS_BASE_URL", defaultUtilsBaseURL),
		DBPath:       getEnv("DB_PATH", "strive.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		UserCacheTTL: 5 * time.Minute,
	}

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("user_cache_ttl", cfg.UserCacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
