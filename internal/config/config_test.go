package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOverridesNoFileConfiguredIsNoop(t *testing.T) {
	ConfigFile = ""
	originalOutputDir := OutputDir

	require.NoError(t, LoadOverrides())
	assert.Equal(t, originalOutputDir, OutputDir)
}

func TestLoadOverridesMissingFileIsNoop(t *testing.T) {
	ConfigFile = filepath.Join(t.TempDir(), "does-not-exist.yml")
	t.Cleanup(func() { ConfigFile = "" })

	require.NoError(t, LoadOverrides())
}

func TestLoadOverridesAppliesPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agent.yml")
	content := "output_dir: /var/agent_jobs\nport: 9090\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	originalOutputDir, originalPort := OutputDir, Port
	t.Cleanup(func() {
		ConfigFile = ""
		OutputDir = originalOutputDir
		Port = originalPort
	})
	ConfigFile = path

	require.NoError(t, LoadOverrides())
	assert.Equal(t, "/var/agent_jobs", OutputDir)
	assert.Equal(t, 9090, Port)
}
