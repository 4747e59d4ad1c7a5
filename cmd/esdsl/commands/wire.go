//go:build wireinject

package commands

import (
	"github.com/google/wire"
	"github.com/ncobase/esdsl/config"
	"github.com/ncobase/esdsl/data/search"
	"github.com/ncobase/esdsl/logging/logger"
	"github.com/ncobase/esdsl/server"
)

// InitializeServer wires the HTTP server from the loaded configuration.
// The cleanup function releases the logger output.
func InitializeServer() (*server.Server, func(), error) {
	panic(wire.Build(
		config.ProviderSet,
		logger.ProviderSet,
		search.ProviderSet,
		server.ProviderSet,
	))
}
