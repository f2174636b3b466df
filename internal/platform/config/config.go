package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultUser     = "local"
	defaultAddr     = ":8787"
	defaultLogLevel = "warn"
)

type Config struct {
	HomePath string
	DBPath   string
	UserID   string
	Addr     string
	LogLevel string
}

func New(homePath string) (Config, error) {
	if strings.TrimSpace(homePath) == "" {
		return Config{}, fmt.Errorf("home path is required")
	}
	return Config{
		HomePath: homePath,
		DBPath:   filepath.Join(homePath, ".cuplog", "cuplog.db"),
		UserID:   defaultUser,
		Addr:     defaultAddr,
		LogLevel: defaultLogLevel,
	}, nil
}

// Load resolves configuration with precedence flag > environment > .env file > default.
// Empty flag values mean "not set".
func Load(homeFlag, userFlag string) (Config, error) {
	_ = godotenv.Load()

	home := firstNonEmpty(homeFlag, os.Getenv("CUPLOG_HOME"), ".")
	cfg, err := New(home)
	if err != nil {
		return Config{}, err
	}
	cfg.UserID = firstNonEmpty(userFlag, os.Getenv("CUPLOG_USER"), defaultUser)
	cfg.Addr = firstNonEmpty(os.Getenv("CUPLOG_ADDR"), defaultAddr)
	cfg.LogLevel = firstNonEmpty(os.Getenv("CUPLOG_LOG_LEVEL"), defaultLogLevel)
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
