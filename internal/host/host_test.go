package host

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOutputFormat(t *testing.T) {
	assert.Equal(t, OutputStatic, NormalizeOutputFormat(" STATIC "))
	assert.Equal(t, OutputHybrid, NormalizeOutputFormat("hybrid"))
	assert.Equal(t, OutputServer, NormalizeOutputFormat("Server"))
	assert.Equal(t, OutputFormat(""), NormalizeOutputFormat("edge"))
}

func TestNormalizeTrailingSlash(t *testing.T) {
	assert.Equal(t, TrailingAlways, NormalizeTrailingSlash("Always"))
	assert.Equal(t, TrailingNever, NormalizeTrailingSlash("never "))
	assert.Equal(t, TrailingIgnore, NormalizeTrailingSlash("IGNORE"))
	assert.Equal(t, TrailingSlash(""), NormalizeTrailingSlash("sometimes"))
}

func TestIntegrationValidate(t *testing.T) {
	valid := Integration{Name: "sitemap", Hooks: map[string]Hook{
		HookSetup: func(context.Context) error { return nil },
	}}
	require.NoError(t, valid.Validate())

	assert.Error(t, Integration{Name: "  ", Hooks: map[string]Hook{}}.Validate())
	assert.Error(t, Integration{Name: "no-hooks"}.Validate())
}

func TestBuildContextSnapshot(t *testing.T) {
	base := BuildContext{
		Root:   "/proj",
		Output: OutputHybrid,
		Integrations: []Integration{
			{Name: "existing", Hooks: map[string]Hook{}},
		},
	}

	snap := base.Snapshot([]Integration{{Name: "added", Hooks: map[string]Hook{}}})
	require.Len(t, snap.Integrations, 2)
	assert.Equal(t, "existing", snap.Integrations[0].Name)
	assert.Equal(t, "added", snap.Integrations[1].Name)

	snap.Integrations[0].Name = "mutated"
	assert.Equal(t, "existing", base.Integrations[0].Name, "snapshot mutation must not reach the original")
	require.Len(t, base.Integrations, 1)
}
