// Package config loads the staffpricing settings from an optional YAML file
// overlaid with STAFFPRICING_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STAFFPRICING_"

// Config is the top-level configuration, corresponding to staffpricing.yml.
type Config struct {
	Calendar CalendarConfig `yaml:"calendar" koanf:"calendar"`
	Pricing  PricingConfig  `yaml:"pricing" koanf:"pricing"`
	Auth     AuthConfig     `yaml:"auth" koanf:"auth"`
	Seed     SeedConfig     `yaml:"seed" koanf:"seed"`
}

// CalendarConfig controls how available hours are derived for each week.
type CalendarConfig struct {
	Country     string `yaml:"country" koanf:"country"`
	HoursPerDay int    `yaml:"hours_per_day" koanf:"hours_per_day"`
}

// PricingConfig holds the values pre-filled on new projects.
type PricingConfig struct {
	DefaultTaxRate    float64 `yaml:"default_tax_rate" koanf:"default_tax_rate"`
	DefaultMarginRate float64 `yaml:"default_margin_rate" koanf:"default_margin_rate"`
}

// AuthConfig holds session settings.
type AuthConfig struct {
	Enabled    bool            `yaml:"enabled" koanf:"enabled"`
	LoginPath  string          `yaml:"login_path" koanf:"login_path"`
	CookieName string          `yaml:"cookie_name" koanf:"cookie_name"`
	Microsoft  MicrosoftConfig `yaml:"microsoft" koanf:"microsoft"`
}

// MicrosoftConfig turns on Microsoft (Entra ID) sign-in for staff accounts
// when ClientID is set.
type MicrosoftConfig struct {
	ClientID     string `yaml:"client_id" koanf:"client_id"`
	ClientSecret string `yaml:"client_secret" koanf:"client_secret"`
	Tenant       string `yaml:"tenant" koanf:"tenant"`
}

// Enabled reports whether Microsoft sign-in is configured.
func (m MicrosoftConfig) Enabled() bool { return m.ClientID != "" }

// SeedConfig toggles demo data on startup.
type SeedConfig struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`
}

// DefaultConfig returns the configuration used when no file or env override is present.
func DefaultConfig() *Config {
	return &Config{
		Calendar: CalendarConfig{
			Country:     "BR",
			HoursPerDay: 8,
		},
		Pricing: PricingConfig{
			DefaultTaxRate:    11,
			DefaultMarginRate: 40,
		},
		Auth: AuthConfig{
			Enabled:    true,
			LoginPath:  "/login",
			CookieName: "sp_session",
			Microsoft:  MicrosoftConfig{Tenant: "common"},
		},
	}
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. Nested keys use a double underscore:
// STAFFPRICING_CALENDAR__HOURS_PER_DAY -> calendar.hours_per_day.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if !strings.EqualFold(c.Calendar.Country, "BR") {
		return fmt.Errorf("invalid calendar.country %q: only BR is supported", c.Calendar.Country)
	}
	if c.Calendar.HoursPerDay <= 0 || c.Calendar.HoursPerDay > 24 {
		return fmt.Errorf("calendar.hours_per_day must be between 1 and 24, got %d", c.Calendar.HoursPerDay)
	}
	if c.Pricing.DefaultTaxRate < 0 {
		return fmt.Errorf("pricing.default_tax_rate must be non-negative")
	}
	if c.Pricing.DefaultMarginRate < 0 || c.Pricing.DefaultMarginRate >= 100 {
		return fmt.Errorf("pricing.default_margin_rate must be in [0, 100)")
	}
	if c.Auth.Enabled {
		if !strings.HasPrefix(c.Auth.LoginPath, "/") {
			return fmt.Errorf("auth.login_path must start with /")
		}
		if c.Auth.CookieName == "" {
			return fmt.Errorf("auth.cookie_name is required when auth is enabled")
		}
		if ms := c.Auth.Microsoft; ms.Enabled() && (ms.ClientSecret == "" || ms.Tenant == "") {
			return fmt.Errorf("auth.microsoft needs client_secret and tenant when client_id is set")
		}
	}
	return nil
}
