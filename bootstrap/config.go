package bootstrap

import (
	"github.com/kbukum/audioscript/config"
)

// Config is the constraint for application config types. Any struct that
// embeds config.ServiceConfig satisfies it through promoted methods.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
