package plugin

import "fmt"

// MutationKind identifies the category of a recorded mutation.
type MutationKind string

const (
	// MutationConfig is an UpdateConfig call.
	MutationConfig MutationKind = "config"

	// MutationIntegration is an AddIntegration call.
	MutationIntegration MutationKind = "integration"

	// MutationTranslations is an InjectTranslations call.
	MutationTranslations MutationKind = "translations"
)

// Mutation is one audited plugin action. The runner records mutations in call
// order, so the trail answers who changed what and when in the run.
type Mutation struct {
	// Plugin is the acting plugin's name.
	Plugin string

	// Kind is the mutation category.
	Kind MutationKind

	// Detail is a human-readable summary (changed keys, integration name,
	// touched locales).
	Detail string

	// Rejected marks a mutation that was refused and contributed nothing.
	Rejected bool
}

// String returns a single-line representation for logs and the CLI.
func (m Mutation) String() string {
	status := ""
	if m.Rejected {
		status = " (rejected)"
	}
	return fmt.Sprintf("[%s] %s: %s%s", m.Kind, m.Plugin, m.Detail, status)
}
