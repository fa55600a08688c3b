package verifier

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArtifactConfig(dir string) ArtifactConfig {
	return ArtifactConfig{
		OutputDir:   dir,
		SuccessFile: "running.png",
		ErrorFile:   "error.png",
		JSON:        true,
		Markdown:    true,
	}
}

func TestArtifactWriter_ScreenshotPath(t *testing.T) {
	writer := NewArtifactWriter(testArtifactConfig("verification"))

	assert.Equal(t, filepath.Join("verification", "running.png"), writer.ScreenshotPath(true))
	assert.Equal(t, filepath.Join("verification", "error.png"), writer.ScreenshotPath(false))
}

func TestArtifactWriter_EnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "verification")
	writer := NewArtifactWriter(testArtifactConfig(dir))

	require.NoError(t, writer.EnsureDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestArtifactWriter_WriteAll(t *testing.T) {
	dir := t.TempDir()
	writer := NewArtifactWriter(testArtifactConfig(dir))

	summary := &Summary{
		RunID:     "run-1",
		TargetURL: "http://localhost:3002/",
		Status:    StatusSuccess,
		StartTime: time.Now(),
		EndTime:   time.Now(),
		Steps: []StepResult{
			{Name: "navigate", State: StateNavigating, Status: StepPassed},
			{Name: "title", State: StateAssertingTitle, Status: StepPassed},
		},
		Screenshot: filepath.Join(dir, "running.png"),
	}

	require.NoError(t, writer.WriteAll(summary))

	// JSON report round-trips the summary
	data, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)

	var decoded Summary
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, StatusSuccess, decoded.Status)
	assert.Len(t, decoded.Steps, 2)

	// Markdown summary names the outcome
	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "Success")
	assert.Contains(t, string(md), "http://localhost:3002/")
}

func TestArtifactWriter_WriteAllFailure(t *testing.T) {
	dir := t.TempDir()
	writer := NewArtifactWriter(testArtifactConfig(dir))

	summary := &Summary{
		RunID:       "run-2",
		TargetURL:   "http://localhost:3002/",
		Status:      StatusFailed,
		FailedState: StateWaitingForVideo,
		Error:       "wait for \"video\" failed: timeout",
		Steps: []StepResult{
			{Name: "video-element", State: StateWaitingForVideo, Status: StepFailed, Error: "timeout"},
		},
	}

	require.NoError(t, writer.WriteAll(summary))

	md, err := os.ReadFile(filepath.Join(dir, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(md), "Failed at waiting-for-video")
	assert.Contains(t, string(md), "timeout")
}

func TestArtifactWriter_FormatsDisabled(t *testing.T) {
	dir := t.TempDir()
	config := testArtifactConfig(dir)
	config.JSON = false
	config.Markdown = false
	writer := NewArtifactWriter(config)

	require.NoError(t, writer.WriteAll(&Summary{Status: StatusSuccess}))

	_, err := os.Stat(filepath.Join(dir, "report.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "summary.md"))
	assert.True(t, os.IsNotExist(err))
}
