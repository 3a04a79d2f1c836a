package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, root, name, content string) {
	t.Helper()
	dir := filepath.Join(root, "configurations")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config_"+name), []byte(content), 0o644))
}

func TestActiveConfiguration_DefaultsWhenMissing(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	name, err := reg.ActiveConfiguration(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "default", name)
}

func TestCurrentProject_ReadsActiveConfiguration(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "active_config"), []byte("staging\n"), 0o644))
	writeConfig(t, root, "staging", "[core]\nproject = acme-staging\n")

	reg := NewRegistry(root)
	project, err := reg.CurrentProject(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "acme-staging", project)
}

func TestCurrentProject_NoProjectSet(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "default", "[core]\naccount = user@example.com\n")

	reg := NewRegistry(root)
	_, err := reg.CurrentProject(context.Background())
	assert.Error(t, err)
}

func TestCurrentProject_MissingConfigurationFile(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	_, err := reg.CurrentProject(context.Background())
	assert.Error(t, err)
}
