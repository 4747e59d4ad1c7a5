package server

import "github.com/google/wire"

// ProviderSet is the wire provider set for the HTTP server
var ProviderSet = wire.NewSet(New)
