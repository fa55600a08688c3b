package verifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "default config is valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing url",
			mutate:  func(c *Config) { c.Target.URL = "" },
			wantErr: true,
		},
		{
			name:    "missing title",
			mutate:  func(c *Config) { c.Target.Title = "" },
			wantErr: true,
		},
		{
			name:    "missing video selector",
			mutate:  func(c *Config) { c.Target.VideoSelector = "" },
			wantErr: true,
		},
		{
			name:    "negative selector timeout",
			mutate:  func(c *Config) { c.Checks.SelectorTimeout = -1 },
			wantErr: true,
		},
		{
			name:    "negative stabilize delay",
			mutate:  func(c *Config) { c.Checks.StabilizeDelay = -100 },
			wantErr: true,
		},
		{
			name:    "negative navigation timeout",
			mutate:  func(c *Config) { c.Session.NavigationTimeout = -5 },
			wantErr: true,
		},
		{
			name:    "missing output dir",
			mutate:  func(c *Config) { c.Artifacts.OutputDir = "" },
			wantErr: true,
		},
		{
			name:    "missing screenshot names",
			mutate:  func(c *Config) { c.Artifacts.SuccessFile = "" },
			wantErr: true,
		},
		{
			name:    "invalid verbosity",
			mutate:  func(c *Config) { c.Logging.Verbosity = "loud" },
			wantErr: true,
		},
		{
			name:    "malformed skip pattern",
			mutate:  func(c *Config) { c.Checks.Skip = []string{"[render"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateDefaultsVerbosity(t *testing.T) {
	config := DefaultConfig()
	config.Logging.Verbosity = ""

	require.NoError(t, config.Validate())
	assert.Equal(t, "normal", config.Logging.Verbosity)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "http://localhost:3002/", config.Target.URL)
	assert.Equal(t, "ChromeCam Studio", config.Target.Title)
	assert.Equal(t, "video", config.Target.VideoSelector)
	assert.Equal(t, 10000.0, config.Checks.SelectorTimeout)
	assert.Equal(t, 3000.0, config.Checks.StabilizeDelay)
	assert.Equal(t, "verification", config.Artifacts.OutputDir)
	assert.Equal(t, "running.png", config.Artifacts.SuccessFile)
	assert.Equal(t, "error.png", config.Artifacts.ErrorFile)
	assert.True(t, config.Session.Headless)
	assert.True(t, config.Session.FakeMedia)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verify.yaml")

	content := []byte(`
target:
  url: http://localhost:4000/
checks:
  selector_timeout: 20000
  skip:
    - "render-*"
`)
	require.NoError(t, os.WriteFile(path, content, 0600))

	config, err := LoadConfig(path)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "http://localhost:4000/", config.Target.URL)
	assert.Equal(t, 20000.0, config.Checks.SelectorTimeout)
	assert.Equal(t, []string{"render-*"}, config.Checks.Skip)

	// Defaults survive a partial file
	assert.Equal(t, "ChromeCam Studio", config.Target.Title)
	assert.Equal(t, "verification", config.Artifacts.OutputDir)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verify.yaml")
	require.NoError(t, os.WriteFile(path, []byte("target: [not a map"), 0600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv("CHROMECAM_URL", "http://localhost:9000/")
	t.Setenv("CHROMECAM_TITLE", "Other App")
	t.Setenv("CHROMECAM_OUTPUT_DIR", "artifacts")
	t.Setenv("CHROMECAM_HEADLESS", "false")

	config := DefaultConfig()
	config.ApplyEnv()

	assert.Equal(t, "http://localhost:9000/", config.Target.URL)
	assert.Equal(t, "Other App", config.Target.Title)
	assert.Equal(t, "artifacts", config.Artifacts.OutputDir)
	assert.False(t, config.Session.Headless)
}

func TestConfig_ApplyEnvIgnoresBadBool(t *testing.T) {
	t.Setenv("CHROMECAM_HEADLESS", "banana")

	config := DefaultConfig()
	config.ApplyEnv()

	assert.True(t, config.Session.Headless)
}
