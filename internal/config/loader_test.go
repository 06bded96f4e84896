package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {
	unsetAll := func(t *testing.T) {
		t.Helper()
		for _, key := range []string{
			"COCOSO_HTTP_PORT",
			"COCOSO_SQLITE_DSN",
			"COCOSO_SESSION_TTL",
			"COCOSO_DEFAULT_HOST",
			"COCOSO_TENANT_DEFAULTS",
			"COCOSO_SESSION_PURGE_SCHEDULE",
			"COCOSO_EVENT_BUFFER",
		} {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}
	}

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unsetAll(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Errorf("HTTPPort = %d, want 8080", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:cocoso.db?_foreign_keys=on" {
			t.Errorf("SQLiteDSN = %q", cfg.SQLiteDSN)
		}
		if cfg.SessionTTL != time.Hour {
			t.Errorf("SessionTTL = %v, want 1h", cfg.SessionTTL)
		}
		if cfg.DefaultHost != "localhost" {
			t.Errorf("DefaultHost = %q", cfg.DefaultHost)
		}
		if cfg.PurgeSchedule != "@hourly" {
			t.Errorf("PurgeSchedule = %q", cfg.PurgeSchedule)
		}
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		unsetAll(t)
		t.Setenv("COCOSO_HTTP_PORT", "9090")
		t.Setenv("COCOSO_SESSION_TTL", "30m")
		t.Setenv("COCOSO_DEFAULT_HOST", "community.example.org")
		t.Setenv("COCOSO_SESSION_PURGE_SCHEDULE", "@every 10m")
		t.Setenv("COCOSO_EVENT_BUFFER", "32")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Errorf("HTTPPort = %d", cfg.HTTPPort)
		}
		if cfg.SessionTTL != 30*time.Minute {
			t.Errorf("SessionTTL = %v", cfg.SessionTTL)
		}
		if cfg.DefaultHost != "community.example.org" {
			t.Errorf("DefaultHost = %q", cfg.DefaultHost)
		}
		if cfg.EventBuffer != 32 {
			t.Errorf("EventBuffer = %d", cfg.EventBuffer)
		}
	})

	t.Run("collects every invalid value in one error", func(t *testing.T) {
		unsetAll(t)
		t.Setenv("COCOSO_HTTP_PORT", "not-a-port")
		t.Setenv("COCOSO_SESSION_TTL", "-5m")

		_, err := Load()
		if err == nil {
			t.Fatalf("expected an error for invalid values")
		}
	})
}

func TestLoadTenantDefaults(t *testing.T) {
	t.Run("empty path yields an empty set", func(t *testing.T) {
		defaults, err := LoadTenantDefaults("")
		if err != nil {
			t.Fatalf("LoadTenantDefaults: %v", err)
		}
		if len(defaults.Hosts) != 0 {
			t.Errorf("hosts = %+v", defaults.Hosts)
		}
	})

	t.Run("parses the seed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tenants.yaml")
		seed := `hosts:
  - host: community.example.org
    name: Example Community
    email: hello@example.org
    city: Helsinki
    country: Finland
    menu:
      - name: activities
        label: Program
        visible: true
      - name: works
        label: Works
        visible: false
`
		if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
			t.Fatalf("write seed file: %v", err)
		}

		defaults, err := LoadTenantDefaults(path)
		if err != nil {
			t.Fatalf("LoadTenantDefaults: %v", err)
		}

		if len(defaults.Hosts) != 1 {
			t.Fatalf("hosts = %+v", defaults.Hosts)
		}
		host := defaults.Hosts[0]
		if host.Host != "community.example.org" || host.Name != "Example Community" {
			t.Errorf("host = %+v", host)
		}
		if len(host.Menu) != 2 || !host.Menu[0].IsVisible || host.Menu[1].IsVisible {
			t.Errorf("menu = %+v", host.Menu)
		}
	})

	t.Run("rejects a host entry without a host", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tenants.yaml")
		if err := os.WriteFile(path, []byte("hosts:\n  - name: Nameless\n"), 0o600); err != nil {
			t.Fatalf("write seed file: %v", err)
		}

		if _, err := LoadTenantDefaults(path); err == nil {
			t.Fatalf("expected an error for a missing host")
		}
	})
}
