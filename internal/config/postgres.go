package config

import (
	"fmt"
)

// PostgresConfig holds the connection settings of the run ledger database
type PostgresConfig struct {
	User     string
	Password string
	Database string
	Host     string
}

// LoadPostgresConfig loads PostgreSQL configuration from environment variables.
// All four variables are required.
func LoadPostgresConfig(getenv func(string) string) (*PostgresConfig, error) {
	config := &PostgresConfig{
		User:     getenv(EnvPostgresUser),
		Password: getenv(EnvPostgresPassword),
		Database: getenv(EnvPostgresDB),
		Host:     getenv(EnvPostgresHostname),
	}

	if err := missing(
		EnvPostgresUser, config.User,
		EnvPostgresPassword, config.Password,
		EnvPostgresDB, config.Database,
		EnvPostgresHostname, config.Host,
	); err != nil {
		return nil, err
	}

	return config, nil
}

// ConnectionString returns a PostgreSQL connection string
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.User, c.Password, c.Database)
}

// postgresConfigured reports whether any ledger variable is set.
func postgresConfigured(getenv func(string) string) bool {
	for _, key := range []string{EnvPostgresUser, EnvPostgresPassword, EnvPostgresDB, EnvPostgresHostname} {
		if getenv(key) != "" {
			return true
		}
	}
	return false
}
