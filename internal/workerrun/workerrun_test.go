package workerrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/haroon0x/agent-orchestrator/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	response string
	err      error
}

func (s stubClient) Complete(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	return s.response, s.err
}

func TestDetectOutputDirExplicitOverride(t *testing.T) {
	got := DetectOutputDir("job-1", "/tmp/custom")
	assert.Equal(t, filepath.Join("/tmp/custom", "job-1"), got)
}

func TestDetectOutputDirContainerEnvVar(t *testing.T) {
	t.Setenv("CONTAINER_ENV", "true")
	got := DetectOutputDir("job-2", "")
	assert.Equal(t, filepath.Join("/workspace/output", "job-2"), got)
}

func TestDetectOutputDirDefaultsToLocal(t *testing.T) {
	t.Setenv("CONTAINER_ENV", "")
	got := DetectOutputDir("job-3", "")
	assert.Equal(t, filepath.Join("output", "job-3"), got)
}

func TestRunWritesManifestAndRestoresWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	outputDir := filepath.Join(dir, "job-1")

	originalWD, err := os.Getwd()
	require.NoError(t, err)

	raw := `{"actions":[{"type":"shell_command","command":"echo hi"}],"estimated_time":"1 minute","requirements":[]}`
	manifest := Run(context.Background(), stubClient{response: raw}, "job-1", "say hi", outputDir, "bash on Ubuntu")

	assert.Equal(t, model.ManifestStatusCompleted, manifest.Status)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, originalWD, wd)

	_, err = os.Stat(filepath.Join(outputDir, "result.json"))
	require.NoError(t, err)
}

func TestRunFallsBackOnAnalyzerFailureButStillCompletes(t *testing.T) {
	dir := t.TempDir()
	outputDir := filepath.Join(dir, "job-2")

	manifest := Run(context.Background(), stubClient{response: "not json"}, "job-2", "do something", outputDir, "bash on Ubuntu")

	assert.Equal(t, model.ManifestStatusCompleted, manifest.Status)
	require.Len(t, manifest.ShellResults, 1)
}
