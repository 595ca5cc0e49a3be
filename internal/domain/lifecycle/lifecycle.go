// Package lifecycle holds shared timing constants for process startup and shutdown.
package lifecycle

import "time"

// DefaultTimeout bounds every OnStart/OnStop hook and graceful HTTP shutdown.
const DefaultTimeout = 15 * time.Second
