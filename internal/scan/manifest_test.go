package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest_WorkspaceForms(t *testing.T) {
	m, err := ParseManifest([]byte(`{"workspaces": ["apps/*"]}`))
	require.NoError(t, err)
	assert.Equal(t, Workspaces{"apps/*"}, m.Workspaces)

	m, err = ParseManifest([]byte(`{"workspaces": {"packages": ["packages/*"], "nohoist": ["x"]}}`))
	require.NoError(t, err)
	assert.Equal(t, Workspaces{"packages/*"}, m.Workspaces)
}

func TestParseManifest_Malformed(t *testing.T) {
	_, err := ParseManifest([]byte(`{"dependencies": `))
	assert.Error(t, err)
}

func TestManifestHas(t *testing.T) {
	m := &Manifest{
		PeerDependencies:     map[string]string{"react": "*"},
		OptionalDependencies: map[string]string{"fsevents": "*"},
	}
	assert.True(t, m.Has("react"))
	assert.True(t, m.Has("fsevents"))
	assert.False(t, m.Has("vue"))

	var missing *Manifest
	assert.False(t, missing.Has("react"))
	assert.Empty(t, missing.packageManagerName())
}
