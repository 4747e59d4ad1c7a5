package config

import (
	dc "github.com/ncobase/esdsl/data/config"
	lc "github.com/ncobase/esdsl/logging/logger/config"

	"github.com/google/wire"
)

// ProviderSet is the wire provider set for the config package.
// It provides the main *Config and extracts the sections the
// server needs.
var ProviderSet = wire.NewSet(
	GetConfig,
	ProvideLoggerConfig,
	ProvideSearchConfig,
	ProvideServerConfig,
	ProvideTracerConfig,
)

// ProvideLoggerConfig provides the logger configuration.
func ProvideLoggerConfig(cfg *Config) *lc.Config {
	if cfg == nil {
		return nil
	}
	return cfg.Logger
}

// ProvideSearchConfig provides the search engine configuration.
func ProvideSearchConfig(cfg *Config) *dc.Search {
	if cfg == nil {
		return nil
	}
	return cfg.Search
}

// ProvideServerConfig provides the http server configuration.
func ProvideServerConfig(cfg *Config) *Server {
	if cfg == nil {
		return nil
	}
	return cfg.Server
}

// ProvideTracerConfig provides the OpenTelemetry tracer configuration.
func ProvideTracerConfig(cfg *Config) *Tracer {
	if cfg == nil || cfg.Observes == nil {
		return nil
	}
	return cfg.Observes.Tracer
}
