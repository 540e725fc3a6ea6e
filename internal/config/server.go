package config

// ServerConfig holds settings of the local fixture application server
type ServerConfig struct {
	// Host to bind. Empty binds every interface.
	Host string
	Port string
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) ServerConfig {
	return ServerConfig{
		Host: getenv(EnvHost),
		Port: valueOr(getenv(EnvPort), "8080"),
	}
}
