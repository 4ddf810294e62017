package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 100, cfg.Instancing.MinInstances)
	assert.Equal(t, 1024, cfg.Instancing.MaxInstances)
	assert.True(t, cfg.Features.VertexArrayObjects)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renderer.toml")
	content := `
[instancing]
min_instances = 10
max_instances = 256

[features]
vertex_array_objects = false
sampler_objects = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Instancing.MinInstances)
	assert.Equal(t, 256, cfg.Instancing.MaxInstances)
	assert.False(t, cfg.Features.VertexArrayObjects)
	// Untouched section keeps its default.
	assert.Equal(t, 32, cfg.Limits.MaxTextureUnits)
}

func TestLoadClampsInstancing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "renderer.toml")
	content := `
[instancing]
min_instances = 0
max_instances = 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Instancing.MinInstances)
	assert.Equal(t, 1, cfg.Instancing.MaxInstances)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
