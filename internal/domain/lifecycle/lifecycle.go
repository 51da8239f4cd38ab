// Package lifecycle holds shared timing values for component start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds every OnStart/OnStop hook that talks to an external dependency.
const DefaultTimeout = 10 * time.Second
