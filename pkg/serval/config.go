package serval

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config locates and authenticates against one daemon.
type Config struct {
	Host     string `envconfig:"HOST" default:"localhost"`
	Port     int    `envconfig:"PORT" default:"4110"`
	User     string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
}

// ConfigFromEnv reads the configuration from SERVAL_API_* environment
// variables: SERVAL_API_HOST, SERVAL_API_PORT, SERVAL_API_USER and
// SERVAL_API_PASSWORD.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := envconfig.Process("SERVAL_API", &cfg); err != nil {
		return Config{}, fmt.Errorf("serval: read config from environment: %w", err)
	}
	return cfg, nil
}

// BaseURL renders the REST endpoint of the daemon.
func (c Config) BaseURL() string {
	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = 4110
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}
