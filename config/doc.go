// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment.
//
// Files are searched in the usual places (./cmd/<service>/config.yml,
// ./config/config.yml, ./config.yml) unless given explicitly. Environment
// variables are mapped onto nested keys, so SERVER_PORT sets server.port and
// LOGGING_LEVEL sets logging.level.
//
// # Usage
//
//	var cfg relay.Config
//	err := config.LoadConfig("chat-relay", &cfg,
//	    config.WithConfigFile(path),
//	    config.WithEnvAlias("PORT", "server.port"),
//	)
//
// Service configs embed ServiceConfig with `mapstructure:",squash"` to pick
// up the common name/environment/logging fields.
package config
