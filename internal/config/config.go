// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultDirName      = ".syllabus"
	defaultHistoryLimit = 100
)

// Config holds all application configuration.
type Config struct {
	Dir          string
	Store        string // sqlite|postgres|memory
	DatabaseURL  string
	User         string
	Format       string // json|edn|outline
	Pretty       bool
	AdminUsers   []string
	HistoryLimit int
	LogMode      string // dev|prod|off
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	limit := getEnvInt("SYLLABUS_HISTORY_LIMIT", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	cfg := &Config{
		Dir:          getEnv("SYLLABUS_DIR", defaultDir()),
		Store:        strings.ToLower(strings.TrimSpace(getEnv("SYLLABUS_STORE", "sqlite"))),
		DatabaseURL:  getEnv("SYLLABUS_DATABASE_URL", ""),
		User:         strings.TrimSpace(getEnv("SYLLABUS_USER", defaultUser())),
		Format:       strings.ToLower(strings.TrimSpace(getEnv("SYLLABUS_FORMAT", "json"))),
		Pretty:       getEnvBool("SYLLABUS_PRETTY", false),
		AdminUsers:   splitList(getEnv("SYLLABUS_ADMIN_USERS", "")),
		HistoryLimit: limit,
		LogMode:      strings.ToLower(strings.TrimSpace(getEnv("SYLLABUS_LOG_MODE", "off"))),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	switch c.Store {
	case "sqlite":
		if strings.TrimSpace(c.Dir) == "" {
			return fmt.Errorf("SYLLABUS_DIR cannot be empty")
		}
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("SYLLABUS_DATABASE_URL is required when SYLLABUS_STORE=postgres")
		}
	case "memory":
	default:
		return fmt.Errorf("SYLLABUS_STORE must be sqlite|postgres|memory (got %q)", c.Store)
	}
	switch c.Format {
	case "json", "edn", "outline":
	default:
		return fmt.Errorf("SYLLABUS_FORMAT must be json|edn|outline (got %q)", c.Format)
	}
	switch c.LogMode {
	case "dev", "prod", "off":
	default:
		return fmt.Errorf("SYLLABUS_LOG_MODE must be dev|prod|off (got %q)", c.LogMode)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("SYLLABUS_HISTORY_LIMIT must be > 0")
	}
	return nil
}

func defaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}

func defaultUser() string {
	return os.Getenv("USER")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
