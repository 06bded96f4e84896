package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TenantDefaults describes the hosts seeded into the database at startup so a
// fresh deployment serves branded pages before any admin has signed in.
type TenantDefaults struct {
	Hosts []TenantHost `yaml:"hosts"`
}

// TenantHost is one seeded tenant.
type TenantHost struct {
	Host    string       `yaml:"host"`
	Name    string       `yaml:"name"`
	Email   string       `yaml:"email"`
	City    string       `yaml:"city"`
	Country string       `yaml:"country"`
	Menu    []TenantMenu `yaml:"menu"`
}

// TenantMenu is one seeded navigation entry.
type TenantMenu struct {
	Name      string `yaml:"name"`
	Label     string `yaml:"label"`
	IsVisible bool   `yaml:"visible"`
}

// LoadTenantDefaults reads the tenant seed file. An empty path yields an
// empty set, not an error, since seeding is optional.
func LoadTenantDefaults(path string) (TenantDefaults, error) {
	if path == "" {
		return TenantDefaults{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return TenantDefaults{}, fmt.Errorf("read tenant defaults: %w", err)
	}

	var defaults TenantDefaults
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return TenantDefaults{}, fmt.Errorf("parse tenant defaults: %w", err)
	}

	for i, host := range defaults.Hosts {
		if host.Host == "" {
			return TenantDefaults{}, fmt.Errorf("tenant defaults: hosts[%d] is missing a host", i)
		}
	}
	return defaults, nil
}
