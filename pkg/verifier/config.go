package verifier

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the configuration for a verification run.
type Config struct {
	// Target application under verification
	Target TargetConfig `yaml:"target" json:"target"`

	// Browser session settings
	Session SessionConfig `yaml:"session" json:"session"`

	// Verification check settings
	Checks ChecksConfig `yaml:"checks" json:"checks"`

	// Artifacts configuration
	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TargetConfig describes the application the verifier runs against.
type TargetConfig struct {
	// URL is the address of the running application
	URL string `yaml:"url" json:"url"`

	// Title is the exact document title the page must report
	Title string `yaml:"title" json:"title"`

	// VideoSelector is the CSS selector for the camera stream element
	VideoSelector string `yaml:"video_selector" json:"video_selector"`
}

// SessionConfig controls how the browser session is launched.
type SessionConfig struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool `yaml:"headless" json:"headless"`

	// FakeMedia enables synthetic camera/microphone streams
	FakeMedia bool `yaml:"fake_media" json:"fake_media"`

	// ViewportWidth and ViewportHeight set the page viewport (0 means default)
	ViewportWidth  int `yaml:"viewport_width" json:"viewport_width"`
	ViewportHeight int `yaml:"viewport_height" json:"viewport_height"`

	// NavigationTimeout bounds page navigation, in milliseconds (0 means default)
	NavigationTimeout float64 `yaml:"navigation_timeout" json:"navigation_timeout"`
}

// ChecksConfig controls the verification checks that run after navigation.
type ChecksConfig struct {
	// TitleTimeout bounds the title assertion poll, in milliseconds
	TitleTimeout float64 `yaml:"title_timeout" json:"title_timeout"`

	// SelectorTimeout bounds the video element wait, in milliseconds
	SelectorTimeout float64 `yaml:"selector_timeout" json:"selector_timeout"`

	// StabilizeDelay is the unconditional settle time granted to the render
	// loop before sampling, in milliseconds
	StabilizeDelay float64 `yaml:"stabilize_delay" json:"stabilize_delay"`

	// StabilizeTimeout bounds the render activity poll, in milliseconds
	StabilizeTimeout float64 `yaml:"stabilize_timeout" json:"stabilize_timeout"`

	// PollRender enables canvas-checksum polling as the render readiness
	// signal; when false only StabilizeDelay applies
	PollRender bool `yaml:"poll_render" json:"poll_render"`

	// Skip lists glob patterns of check names to skip (e.g. "render-*")
	Skip []string `yaml:"skip" json:"skip"`
}

// ArtifactConfig defines artifact generation configuration.
type ArtifactConfig struct {
	// OutputDir receives all run artifacts
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// SuccessFile and ErrorFile name the screenshot written for each outcome
	SuccessFile string `yaml:"success_file" json:"success_file"`
	ErrorFile   string `yaml:"error_file" json:"error_file"`

	// Individual report format flags
	JSON     bool `yaml:"json" json:"json"`
	Markdown bool `yaml:"markdown" json:"markdown"`
}

// LoggingConfig defines logging configuration.
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Target.URL == "" {
		return fmt.Errorf("target url is required")
	}

	if c.Target.Title == "" {
		return fmt.Errorf("target title is required")
	}

	if c.Target.VideoSelector == "" {
		return fmt.Errorf("video selector is required")
	}

	if c.Checks.TitleTimeout < 0 {
		return fmt.Errorf("title_timeout cannot be negative")
	}

	if c.Checks.SelectorTimeout < 0 {
		return fmt.Errorf("selector_timeout cannot be negative")
	}

	if c.Checks.StabilizeDelay < 0 {
		return fmt.Errorf("stabilize_delay cannot be negative")
	}

	if c.Checks.StabilizeTimeout < 0 {
		return fmt.Errorf("stabilize_timeout cannot be negative")
	}

	if c.Session.NavigationTimeout < 0 {
		return fmt.Errorf("navigation_timeout cannot be negative")
	}

	if c.Artifacts.OutputDir == "" {
		return fmt.Errorf("artifact output directory is required")
	}

	if c.Artifacts.SuccessFile == "" || c.Artifacts.ErrorFile == "" {
		return fmt.Errorf("artifact screenshot file names are required")
	}

	// Skip patterns must compile
	if _, err := NewCheckFilter(c.Checks.Skip); err != nil {
		return err
	}

	// Set default verbosity if not specified
	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}

	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

// DefaultConfig returns the standard smoke-run configuration: the local
// ChromeCam Studio instance, a 10 second video wait, and a 3 second render
// settle.
func DefaultConfig() *Config {
	return &Config{
		Target: TargetConfig{
			URL:           "http://localhost:3002/",
			Title:         "ChromeCam Studio",
			VideoSelector: "video",
		},
		Session: SessionConfig{
			Headless:  true,
			FakeMedia: true,
		},
		Checks: ChecksConfig{
			TitleTimeout:     5000,
			SelectorTimeout:  10000,
			StabilizeDelay:   3000,
			StabilizeTimeout: 10000,
			PollRender:       true,
		},
		Artifacts: ArtifactConfig{
			OutputDir:   "verification",
			SuccessFile: "running.png",
			ErrorFile:   "error.png",
			JSON:        true,
			Markdown:    true,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// LoadConfig reads a YAML configuration file and merges it over the
// defaults, so a partial file only overrides what it names.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// ApplyEnv overrides configuration values from environment variables.
// Variables: CHROMECAM_URL, CHROMECAM_TITLE, CHROMECAM_VIDEO_SELECTOR,
// CHROMECAM_OUTPUT_DIR, CHROMECAM_HEADLESS, CHROMECAM_VERBOSITY.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("CHROMECAM_URL"); v != "" {
		c.Target.URL = v
	}
	if v := os.Getenv("CHROMECAM_TITLE"); v != "" {
		c.Target.Title = v
	}
	if v := os.Getenv("CHROMECAM_VIDEO_SELECTOR"); v != "" {
		c.Target.VideoSelector = v
	}
	if v := os.Getenv("CHROMECAM_OUTPUT_DIR"); v != "" {
		c.Artifacts.OutputDir = v
	}
	if v := os.Getenv("CHROMECAM_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Session.Headless = b
		}
	}
	if v := os.Getenv("CHROMECAM_VERBOSITY"); v != "" {
		c.Logging.Verbosity = v
	}
}
