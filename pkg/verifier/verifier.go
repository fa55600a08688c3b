package verifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chromecam/verify/pkg/browser"
	"github.com/chromecam/verify/pkg/logging"
)

// State identifies where in the verification sequence a run currently is.
type State string

const (
	StateIdle              State = "idle"
	StateLaunching         State = "launching"
	StateNavigating        State = "navigating"
	StateAssertingTitle    State = "asserting-title"
	StateWaitingForVideo   State = "waiting-for-video"
	StateWaitingRenderLoop State = "waiting-render-loop"
	StateCapturing         State = "capturing"
	StateSuccess           State = "success"
	StateFailure           State = "failure"
	StateClosed            State = "closed"
)

// Run outcome statuses
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// StepStatus is the outcome of a single verification step.
type StepStatus string

const (
	StepPassed  StepStatus = "passed"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// StepResult records the outcome of one verification step.
type StepResult struct {
	Name     string        `json:"name"`
	State    State         `json:"state"`
	Status   StepStatus    `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Summary contains the complete outcome of a verification run. It is the
// explicit success/failure result a pipeline can branch on, instead of
// probing the filesystem for which screenshot appeared.
type Summary struct {
	RunID       string                `json:"run_id"`
	TargetURL   string                `json:"target_url"`
	Status      string                `json:"status"`
	State       State                 `json:"state"`
	FailedState State                 `json:"failed_state,omitempty"`
	Error       string                `json:"error,omitempty"`
	StartTime   time.Time             `json:"start_time"`
	EndTime     time.Time             `json:"end_time"`
	Duration    time.Duration         `json:"duration"`
	Steps       []StepResult          `json:"steps"`
	Screenshot  string                `json:"screenshot,omitempty"`
	Analysis    *browser.PageAnalysis `json:"page_analysis,omitempty"`
}

// OK reports whether the run passed.
func (s *Summary) OK() bool {
	return s.Status == StatusSuccess
}

// Launcher abstracts the browser layer so the verifier can be exercised in
// tests without Chromium.
type Launcher interface {
	// Initialize prepares the automation driver
	Initialize() error

	// Start launches a browser session and returns its page driver
	Start(opts browser.SessionOptions) (Driver, error)

	// ActiveSessions returns the number of sessions still open
	ActiveSessions() int

	// Shutdown closes all sessions and stops the driver
	Shutdown() error
}

// managerLauncher adapts *browser.Manager to the Launcher interface.
type managerLauncher struct {
	manager *browser.Manager
}

// NewManagerLauncher wraps a browser manager as a Launcher.
func NewManagerLauncher(manager *browser.Manager) Launcher {
	return &managerLauncher{manager: manager}
}

func (l *managerLauncher) Initialize() error {
	return l.manager.Initialize()
}

func (l *managerLauncher) Start(opts browser.SessionOptions) (Driver, error) {
	return l.manager.StartSession("verify", opts)
}

func (l *managerLauncher) ActiveSessions() int {
	return l.manager.ActiveSessions()
}

func (l *managerLauncher) Shutdown() error {
	return l.manager.Shutdown()
}

// Verifier runs one end-to-end verification pass against a ChromeCam Studio
// instance: launch, navigate, check, screenshot, shut down.
type Verifier struct {
	config    *Config
	launcher  Launcher
	logger    *Logger
	artifacts *ArtifactWriter
	debug     *logging.Logger
	checks    []Check
	filter    *CheckFilter
}

// New creates a verifier for the given configuration, backed by a real
// Playwright browser manager.
func New(config *Config) (*Verifier, error) {
	return newWithLauncher(config, NewManagerLauncher(browser.NewManager()))
}

// newWithLauncher wires a verifier to an arbitrary launcher, used by tests.
func newWithLauncher(config *Config, launcher Launcher) (*Verifier, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	filter, err := NewCheckFilter(config.Checks.Skip)
	if err != nil {
		return nil, err
	}

	debug, _ := logging.NewLogger("verifier")

	return &Verifier{
		config:    config,
		launcher:  launcher,
		logger:    NewLogger(ParseLogLevel(config.Logging.Verbosity)),
		artifacts: NewArtifactWriter(config.Artifacts),
		debug:     debug,
		checks:    BuildChecks(config),
		filter:    filter,
	}, nil
}

// SetLogger replaces the progress logger, used by tests to capture output.
func (v *Verifier) SetLogger(logger *Logger) {
	v.logger = logger
}

// Run executes one verification pass. Verification failures are captured in
// the returned Summary, not returned as an error; the error return covers
// setup problems only (artifact directory, report writing). The browser is
// released on every exit path.
func (v *Verifier) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		RunID:     uuid.New().String(),
		TargetURL: v.config.Target.URL,
		State:     StateIdle,
		StartTime: time.Now(),
	}

	v.logger.Header("ChromeCam Studio Verification")
	v.logger.Verbosef("run %s against %s", summary.RunID, summary.TargetURL)
	v.debug.Infof("run %s started, target=%s", summary.RunID, summary.TargetURL)

	// Screenshot capture fails on a missing directory, so create it before
	// anything can go wrong
	if err := v.artifacts.EnsureDir(); err != nil {
		return nil, err
	}

	// Session release is the one structural guarantee: both outcomes
	// converge through shutdown
	defer func() {
		if err := v.launcher.Shutdown(); err != nil {
			v.logger.Warningf("browser shutdown: %v", err)
		}
		summary.State = StateClosed
		v.debug.Infof("run %s closed, active sessions: %d", summary.RunID, v.launcher.ActiveSessions())
		v.debug.Close()
	}()

	page := v.execute(ctx, summary)

	// One attempt at a failure screenshot, showing the state the page was in
	if !summary.OK() && page != nil {
		path := v.artifacts.ScreenshotPath(false)
		if err := page.Screenshot(browser.ScreenshotOptions{Path: path, FullPage: true}); err != nil {
			v.logger.Warningf("error screenshot failed: %v", err)
		} else {
			summary.Screenshot = path
			v.logger.Successf("Error screenshot taken: %s", path)
		}
	}

	summary.EndTime = time.Now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)

	if err := v.artifacts.WriteAll(summary); err != nil {
		return summary, err
	}

	v.logger.Summary(summary)
	return summary, nil
}

// execute walks the verification state machine, recording every step in the
// summary. It returns the page driver when one was opened so the caller can
// capture a failure screenshot.
func (v *Verifier) execute(ctx context.Context, summary *Summary) Driver {
	// Launch
	v.logger.Step("Launching browser...")
	summary.State = StateLaunching
	if err := v.launcher.Initialize(); err != nil {
		v.fail(summary, err)
		return nil
	}

	page, err := v.launcher.Start(browser.SessionOptions{
		Headless:  v.config.Session.Headless,
		FakeMedia: v.config.Session.FakeMedia,
		Viewport:  v.viewport(),
	})
	if err != nil {
		v.fail(summary, err)
		return nil
	}
	v.logger.Verbosef("browser session started (headless=%t)", v.config.Session.Headless)

	// Navigate
	v.logger.Step("Navigating to app...")
	summary.State = StateNavigating
	start := time.Now()
	err = page.Navigate(v.config.Target.URL, browser.NavigateOptions{
		Timeout: v.config.Session.NavigationTimeout,
	})
	summary.Steps = append(summary.Steps, stepResult("navigate", StateNavigating, start, err))
	if err != nil {
		v.fail(summary, err)
		return page
	}

	// Checks
	for _, check := range v.checks {
		name := check.Name()
		state := checkState(name)

		if v.filter.Skipped(name) {
			v.logger.Verbosef("skipping check %q", name)
			summary.Steps = append(summary.Steps, StepResult{Name: name, State: state, Status: StepSkipped})
			continue
		}

		v.logger.Step(checkMessage(name))
		summary.State = state
		start = time.Now()
		err = check.Execute(ctx, page)
		summary.Steps = append(summary.Steps, stepResult(name, state, start, err))

		if err != nil {
			if check.Required() {
				v.fail(summary, err)
				return page
			}
			v.logger.Warningf("optional check %q failed: %v", name, err)
			continue
		}
		v.logger.CheckResult(name, true, "")
	}

	// Screenshot; success is declared only once the capture is on disk, so a
	// capture failure reports under its own state
	v.logger.Step("Capturing screenshot...")
	summary.State = StateCapturing
	path := v.artifacts.ScreenshotPath(true)
	if err := page.Screenshot(browser.ScreenshotOptions{Path: path, FullPage: true}); err != nil {
		v.fail(summary, err)
		return page
	}
	summary.Screenshot = path
	summary.State = StateSuccess
	summary.Status = StatusSuccess
	v.logger.Successf("Running screenshot taken: %s", path)

	return page
}

// fail records a verification failure on the summary. The failure is
// captured, not propagated: the run continues into screenshot capture and
// report writing.
func (v *Verifier) fail(summary *Summary, err error) {
	summary.FailedState = summary.State
	summary.State = StateFailure
	summary.Status = StatusFailed
	summary.Error = err.Error()

	// Surface the page analysis a check captured at the moment of failure
	var checkErr *CheckError
	if errors.As(err, &checkErr) && checkErr.Analysis != nil {
		summary.Analysis = checkErr.Analysis
	}

	v.logger.Errorf("%v", err)
	v.debug.Errorf("run failed at %s: %v", summary.FailedState, err)
}

// viewport returns the configured viewport, or nil for the browser default.
func (v *Verifier) viewport() *browser.Viewport {
	if v.config.Session.ViewportWidth <= 0 || v.config.Session.ViewportHeight <= 0 {
		return nil
	}
	return &browser.Viewport{
		Width:  v.config.Session.ViewportWidth,
		Height: v.config.Session.ViewportHeight,
	}
}

// stepResult builds a StepResult from a step execution.
func stepResult(name string, state State, start time.Time, err error) StepResult {
	result := StepResult{
		Name:     name,
		State:    state,
		Status:   StepPassed,
		Duration: time.Since(start),
	}
	if err != nil {
		result.Status = StepFailed
		result.Error = err.Error()
	}
	return result
}

// checkState maps built-in check names to the states of the verification
// sequence. Unknown checks report under their own name.
func checkState(name string) State {
	switch name {
	case "title":
		return StateAssertingTitle
	case "video-element":
		return StateWaitingForVideo
	case "render-loop":
		return StateWaitingRenderLoop
	default:
		return State(name)
	}
}

// checkMessage returns the progress line printed before a check runs.
func checkMessage(name string) string {
	switch name {
	case "title":
		return "Waiting for title..."
	case "video-element":
		return "Waiting for video element..."
	case "render-loop":
		return "Waiting for render loop..."
	default:
		return fmt.Sprintf("Running check %q...", name)
	}
}
