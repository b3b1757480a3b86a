// Package config loads service configuration with Viper.
//
// Values come, from lowest to highest priority, from defaults registered
// with WithDefaults, a YAML config file, a .env file, environment variables
// and command-line flags bound with WithFlag. Environment variables map onto
// nested keys by splitting on underscores, so API_ENDPOINT sets api.endpoint.
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    API remote.Config    `yaml:"api" mapstructure:"api"`
//	}
//
//	var cfg Config
//	err := config.LoadConfig("audioscript", &cfg, config.WithConfigFile(path))
package config
