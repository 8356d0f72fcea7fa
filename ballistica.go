// Package ballistica exposes the console logging runtime: interception of
// the process output streams, coalescing of fragmented prints into single
// log records, and the event loop those pieces hang off of.
package ballistica

import (
	"github.com/Benefit-Zebra/ballistica/pkg/bootstrap"
	"github.com/Benefit-Zebra/ballistica/pkg/config"
	"github.com/Benefit-Zebra/ballistica/pkg/ds"
)

// Config re-exported so callers can use ballistica.Config directly.
type Config = ds.Config

type App = bootstrap.App

// DefaultConfig returns the standard configuration (both channels wrapped,
// persistence under the app home, env overrides honored).
func DefaultConfig() Config {
	return config.DefaultConfig()
}

// Bootstrap performs ordered startup and returns the constructed App. The
// caller owns driving App.Run and calling App.Shutdown.
func Bootstrap(cfg Config) (*App, error) {
	return bootstrap.Bootstrap(cfg)
}
