// Package config loads configuration structs from environment variables
// using struct tags, with optional .env file support for local development.
//
// # Usage
//
//	type AppConfig struct {
//		Namespace string        `env:"AGENT_NAMESPACE,required"`
//		Duration  time.Duration `env:"AGENT_SESSION_DURATION" envDefault:"24h"`
//	}
//
//	var cfg AppConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
//
// The default .env file is loaded once per process, before the first parse;
// a missing .env file is not an error.
package config
