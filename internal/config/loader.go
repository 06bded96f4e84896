package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the server.
type Config struct {
	HTTPPort       int
	SQLiteDSN      string
	SessionTTL     time.Duration
	DefaultHost    string
	TenantDefaults string
	PurgeSchedule  string
	EventBuffer    int
}

// Load parses configuration values from the current process environment.
//
// Optional values fall back to defaults; values that are present but
// unparseable are collected and reported together.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		SQLiteDSN:     "file:cocoso.db?_foreign_keys=on",
		SessionTTL:    time.Hour,
		DefaultHost:   "localhost",
		PurgeSchedule: "@hourly",
		EventBuffer:   8,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("COCOSO_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "COCOSO_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("COCOSO_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if ttlValue := strings.TrimSpace(os.Getenv("COCOSO_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "COCOSO_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if host := strings.TrimSpace(os.Getenv("COCOSO_DEFAULT_HOST")); host != "" {
		cfg.DefaultHost = host
	}

	cfg.TenantDefaults = strings.TrimSpace(os.Getenv("COCOSO_TENANT_DEFAULTS"))

	if schedule := strings.TrimSpace(os.Getenv("COCOSO_SESSION_PURGE_SCHEDULE")); schedule != "" {
		cfg.PurgeSchedule = schedule
	}

	if bufferValue := strings.TrimSpace(os.Getenv("COCOSO_EVENT_BUFFER")); bufferValue != "" {
		buffer, err := strconv.Atoi(bufferValue)
		if err != nil || buffer <= 0 {
			invalid = append(invalid, "COCOSO_EVENT_BUFFER")
		} else {
			cfg.EventBuffer = buffer
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
