// Package host holds the build-context and integration types exchanged with
// the surrounding build system. The plugin runtime consumes a BuildContext and
// produces Integrations; the virtual-module registry consumes the same context
// when generating module source.
package host

import (
	"context"
	"fmt"
	"strings"
)

// OutputFormat is the host build's output mode.
type OutputFormat string

const (
	// OutputStatic prerenders every page to static files.
	OutputStatic OutputFormat = "static"
	// OutputHybrid prerenders by default with opt-out per page.
	OutputHybrid OutputFormat = "hybrid"
	// OutputServer renders on demand.
	OutputServer OutputFormat = "server"
)

// NormalizeOutputFormat canonicalizes user input returning empty string if unknown.
func NormalizeOutputFormat(raw string) OutputFormat {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(OutputStatic):
		return OutputStatic
	case string(OutputHybrid):
		return OutputHybrid
	case string(OutputServer):
		return OutputServer
	default:
		return ""
	}
}

// TrailingSlash is the host's URL trailing-slash policy.
type TrailingSlash string

const (
	TrailingAlways TrailingSlash = "always"
	TrailingNever  TrailingSlash = "never"
	TrailingIgnore TrailingSlash = "ignore"
)

// NormalizeTrailingSlash canonicalizes user input returning empty string if unknown.
func NormalizeTrailingSlash(raw string) TrailingSlash {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(TrailingAlways):
		return TrailingAlways
	case string(TrailingNever):
		return TrailingNever
	case string(TrailingIgnore):
		return TrailingIgnore
	default:
		return ""
	}
}

// Hook names an integration can attach behavior to.
const (
	HookSetup      = "config:setup"
	HookBuildStart = "build:start"
	HookBuildDone  = "build:done"
)

// Hook is one lifecycle callback contributed by an integration.
type Hook func(ctx context.Context) error

// Integration is a build extension descriptor handed back to the host. The
// runtime checks only the minimal shape (a name and a hook map); hook
// execution belongs to the host build, not to this layer.
type Integration struct {
	Name  string
	Hooks map[string]Hook
}

// Validate checks the minimal integration shape.
func (i Integration) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("integration name is required")
	}
	if i.Hooks == nil {
		return fmt.Errorf("integration %q has no hook map", i.Name)
	}
	return nil
}

// BuildContext describes the host build invoking the plugin layer. Plugins see
// a snapshot; the canonical value stays with the caller.
type BuildContext struct {
	// Root is the project root directory.
	Root string
	// SrcDir is the source directory, usually <root>/src.
	SrcDir string
	// Output is the host's output mode.
	Output OutputFormat
	// TrailingSlash is the host's URL policy.
	TrailingSlash TrailingSlash
	// Command is the host invocation ("dev", "build", "preview", "sync").
	Command string
	// Restart reports whether this is a dev-server restart pass.
	Restart bool
	// Integrations already registered with the host before this run.
	Integrations []Integration
}

// Snapshot returns a copy whose integrations slice extends the host's list
// with extra entries. Mutating the copy never reaches the original.
func (b BuildContext) Snapshot(extra []Integration) BuildContext {
	out := b
	out.Integrations = make([]Integration, 0, len(b.Integrations)+len(extra))
	out.Integrations = append(out.Integrations, b.Integrations...)
	out.Integrations = append(out.Integrations, extra...)
	return out
}
