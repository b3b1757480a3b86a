package remote

import (
	"time"

	"github.com/kbukum/audioscript/validation"
)

const (
	// DefaultEndpoint is used when no endpoint is configured.
	DefaultEndpoint = "http://localhost:3001"

	defaultTimeout = 30 * time.Second
)

// Config configures the remote client.
type Config struct {
	// Endpoint is the base URL of the transcription API.
	Endpoint string `mapstructure:"endpoint" validate:"required,url"`
	// Timeout bounds each request.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	// Token is sent as a bearer token when set.
	Token string `mapstructure:"token"`
	// CircuitBreaker guards the API with a circuit breaker.
	CircuitBreaker bool `mapstructure:"circuit_breaker"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
