// Package plugin executes an ordered list of site plugins against a working
// configuration. Plugins run strictly sequentially; each setup receives a
// SetupContext through which every mutation flows, so the runner can validate
// after each change, enforce the reserved-key rule, and keep an audit trail of
// who changed what.
package plugin

import (
	"context"
	"fmt"
	"strings"
)

// SetupFunc is a plugin's setup callback. The runner awaits each call before
// starting the next plugin; implementations must not retain the SetupContext
// past their return.
type SetupFunc func(ctx context.Context, sc *SetupContext) error

// Plugin is a named unit of setup logic.
type Plugin struct {
	// Name uniquely identifies the plugin in logs, errors, and the audit trail.
	Name string

	// Setup is invoked once per run.
	Setup SetupFunc
}

// Validate checks the descriptor shape: a non-blank name and a setup callback.
func (p Plugin) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("plugin name is required")
	}
	if p.Setup == nil {
		return fmt.Errorf("plugin %q has no setup callback", p.Name)
	}
	return nil
}

// String returns a human-readable representation of the plugin.
func (p Plugin) String() string {
	return fmt.Sprintf("plugin %q", p.Name)
}
