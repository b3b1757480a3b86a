package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/audioscript/logger"
	"github.com/kbukum/audioscript/resilience"
)

const (
	defaultTimeout = 30 * time.Second

	// HeaderRequestID carries the per-request id when RequestID is enabled.
	HeaderRequestID = "X-Request-ID"
)

// Config configures the HTTP adapter.
type Config struct {
	// Name identifies the adapter in logs and circuit breaker callbacks.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the base URL prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the default request timeout. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth configures default authentication applied to all requests.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// RequestID stamps every request with a fresh X-Request-ID header.
	RequestID bool `yaml:"request_id" mapstructure:"request_id"`

	// CircuitBreaker configures circuit breaker behavior. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" {
		c.Name = "http"
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	return nil
}

// DefaultCircuitBreakerConfig returns a circuit breaker config that only
// counts transport failures and 5xx responses against the circuit and logs
// every state change.
func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	cfg.IsFailure = func(err error) bool {
		return IsTimeout(err) || IsConnection(err) || IsServerError(err)
	}
	cfg.OnStateChange = func(name string, from, to resilience.State) {
		logger.WithComponent("httpclient").Warn("circuit breaker state changed", logger.Fields(
			"breaker", name,
			"from", from.String(),
			"to", to.String(),
		))
	}
	return &cfg
}
