package main

import (
	"fmt"
	"time"

	"github.com/kbukum/audioscript/config"
	"github.com/kbukum/audioscript/observability"
	"github.com/kbukum/audioscript/poller"
	"github.com/kbukum/audioscript/transcription/remote"
)

const serviceName = "audioscript"

// Config is the binary's configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	API       remote.Config        `yaml:"api" mapstructure:"api"`
	Poll      PollConfig           `yaml:"poll" mapstructure:"poll"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// PollConfig tunes status polling.
type PollConfig struct {
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
	// CancelTimeout bounds the remote cancel sent on interrupt.
	CancelTimeout time.Duration `yaml:"cancel_timeout" mapstructure:"cancel_timeout"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.API.ApplyDefaults()
	if c.Poll.Interval <= 0 {
		c.Poll.Interval = poller.DefaultInterval
	}
	if c.Poll.CancelTimeout <= 0 {
		c.Poll.CancelTimeout = 5 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.API.Validate(); err != nil {
		return fmt.Errorf("config.api: %w", err)
	}
	return nil
}
