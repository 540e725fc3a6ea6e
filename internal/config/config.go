// Package config builds the suite configuration once from the process
// environment. Everything downstream receives a Config value instead of
// reading environment variables itself.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by Load.
const (
	EnvBaseURL          = "BASE_URL"
	EnvHeadless         = "HEADLESS"
	EnvSlowMo           = "SLOW_MO"
	EnvTimeout          = "E2E_TIMEOUT"
	EnvScreenshotDir    = "SCREENSHOT_DIR"
	EnvLoginEmail       = "LOGIN_EMAIL"
	EnvLoginPassword    = "LOGIN_PASSWORD"
	EnvPickupCity       = "PICKUP_CITY"
	EnvPickupCountry    = "PICKUP_COUNTRY"
	EnvDeliveryCity     = "DELIVERY_CITY"
	EnvDeliveryCountry  = "DELIVERY_COUNTRY"
	EnvCarrierID        = "CARRIER_ID"
	EnvPostgresUser     = "POSTGRES_USER"
	EnvPostgresPassword = "POSTGRES_PASSWORD"
	EnvPostgresDB       = "POSTGRES_DB"
	EnvPostgresHostname = "POSTGRES_HOSTNAME"
	EnvHost             = "HOST"
	EnvPort             = "PORT"
)

// Defaults used when the matching variable is unset.
const (
	DefaultPickupCity      = "Košice"
	DefaultPickupCountry   = "Slovakia"
	DefaultDeliveryCity    = "Brno"
	DefaultDeliveryCountry = "Czechia"
	DefaultCarrierID       = "6746"
	DefaultTimeout         = 10 * time.Second
	DefaultScreenshotDir   = "test-results/screenshots"
)

// Location is a city and the country it belongs to.
type Location struct {
	City    string
	Country string
}

// Locations are the waypoints of a transport request.
type Locations struct {
	Pickup   Location
	Delivery Location
}

// Credentials log a user into the application under test.
type Credentials struct {
	Email    string
	Password string
}

// Config is the suite configuration.
type Config struct {
	// BaseURL of the application under test. Empty means the in-process fixture app.
	BaseURL       string
	Headless      bool
	SlowMo        time.Duration
	Timeout       time.Duration
	ScreenshotDir string
	Credentials   Credentials
	Locations     Locations
	CarrierID     string
	Server        ServerConfig
	// Postgres is nil when no ledger database is configured.
	Postgres *PostgresConfig
}

// Load reads the configuration through getenv, usually os.Getenv.
// Credentials and the ledger are optional here; see RequireCredentials and RequirePostgres.
func Load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		BaseURL:       strings.TrimRight(getenv(EnvBaseURL), "/"),
		Headless:      true,
		Timeout:       DefaultTimeout,
		ScreenshotDir: valueOr(getenv(EnvScreenshotDir), DefaultScreenshotDir),
		Credentials: Credentials{
			Email:    getenv(EnvLoginEmail),
			Password: getenv(EnvLoginPassword),
		},
		Locations: Locations{
			Pickup: Location{
				City:    valueOr(getenv(EnvPickupCity), DefaultPickupCity),
				Country: valueOr(getenv(EnvPickupCountry), DefaultPickupCountry),
			},
			Delivery: Location{
				City:    valueOr(getenv(EnvDeliveryCity), DefaultDeliveryCity),
				Country: valueOr(getenv(EnvDeliveryCountry), DefaultDeliveryCountry),
			},
		},
		CarrierID: valueOr(getenv(EnvCarrierID), DefaultCarrierID),
		Server:    LoadServerConfig(getenv),
	}

	if v := getenv(EnvHeadless); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvHeadless, v, err)
		}
		cfg.Headless = headless
	}

	if v := getenv(EnvSlowMo); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms < 0 {
			return nil, fmt.Errorf("invalid %s %q: want a non-negative number of milliseconds", EnvSlowMo, v)
		}
		cfg.SlowMo = time.Duration(ms) * time.Millisecond
	}

	if v := getenv(EnvTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("invalid %s %q: want a positive duration such as 15s", EnvTimeout, v)
		}
		cfg.Timeout = timeout
	}

	if postgresConfigured(getenv) {
		pg, err := LoadPostgresConfig(getenv)
		if err != nil {
			return nil, fmt.Errorf("incomplete ledger database configuration: %w", err)
		}
		cfg.Postgres = pg
	}

	return cfg, nil
}

// RequireCredentials returns the login credentials or a MissingError naming
// every unset variable. Scenarios call it before touching the browser.
func (c *Config) RequireCredentials() (Credentials, error) {
	if err := missing(
		EnvLoginEmail, c.Credentials.Email,
		EnvLoginPassword, c.Credentials.Password,
	); err != nil {
		return Credentials{}, err
	}
	return c.Credentials, nil
}

// RequirePostgres returns the ledger database settings or a MissingError.
func (c *Config) RequirePostgres() (*PostgresConfig, error) {
	if c.Postgres == nil {
		return nil, &MissingError{Vars: []string{EnvPostgresUser, EnvPostgresPassword, EnvPostgresDB, EnvPostgresHostname}}
	}
	return c.Postgres, nil
}

// UsesFixtureApp reports whether scenarios run against the in-process fixture application.
func (c *Config) UsesFixtureApp() bool {
	return c.BaseURL == ""
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
