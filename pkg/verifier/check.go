package verifier

import (
	"context"
	"fmt"
	"time"

	"github.com/chromecam/verify/pkg/browser"
)

// Driver is the page surface the verification checks run against. It is the
// subset of *browser.Session the checks need, kept narrow so tests can run
// without a live browser.
type Driver interface {
	Navigate(url string, opts browser.NavigateOptions) error
	WaitForTitle(expected string, opts browser.TitleOptions) error
	WaitForSelector(opts browser.WaitOptions) error
	Evaluate(expression string) (interface{}, error)
	Content() (string, error)
	Screenshot(opts browser.ScreenshotOptions) error
}

// Check represents one verification step that runs against a loaded page.
type Check interface {
	// Name returns the name of the check
	Name() string

	// Required returns true if failure should fail the whole run
	Required() bool

	// Execute runs the check and returns an error if it fails
	Execute(ctx context.Context, page Driver) error
}

// CheckError represents a verification check failure, carrying the page
// analysis captured at the moment of failure.
type CheckError struct {
	CheckName string
	Analysis  *browser.PageAnalysis
	Err       error
}

func (e *CheckError) Error() string {
	if e.Analysis != nil {
		return fmt.Sprintf("check %q failed: %v (page: %s)", e.CheckName, e.Err, e.Analysis)
	}
	return fmt.Sprintf("check %q failed: %v", e.CheckName, e.Err)
}

func (e *CheckError) Unwrap() error {
	return e.Err
}

// newCheckError wraps a check failure together with a best-effort snapshot
// of the page structure. Analysis failures are ignored; the original error
// is what matters.
func newCheckError(name string, page Driver, err error) *CheckError {
	checkErr := &CheckError{CheckName: name, Err: err}
	if html, contentErr := page.Content(); contentErr == nil {
		if analysis, analyzeErr := browser.AnalyzePage(html); analyzeErr == nil {
			checkErr.Analysis = analysis
		}
	}
	return checkErr
}

// TitleCheck asserts that the page title equals an exact expected value.
type TitleCheck struct {
	Expected string
	Timeout  float64
}

// Name returns the name of the check.
func (c *TitleCheck) Name() string { return "title" }

// Required returns true; a wrong title means the wrong (or broken) app is
// answering on the target port.
func (c *TitleCheck) Required() bool { return true }

// Execute polls the page title until it matches or the timeout elapses.
func (c *TitleCheck) Execute(ctx context.Context, page Driver) error {
	if err := page.WaitForTitle(c.Expected, browser.TitleOptions{Timeout: c.Timeout}); err != nil {
		return newCheckError(c.Name(), page, err)
	}
	return nil
}

// SelectorCheck waits for an element matching a CSS selector to appear,
// indicating the camera stream was attached to the DOM.
type SelectorCheck struct {
	CheckName string
	Selector  string
	State     string
	Timeout   float64
}

// Name returns the name of the check.
func (c *SelectorCheck) Name() string {
	if c.CheckName != "" {
		return c.CheckName
	}
	return "selector"
}

// Required returns true.
func (c *SelectorCheck) Required() bool { return true }

// Execute waits for the selector.
func (c *SelectorCheck) Execute(ctx context.Context, page Driver) error {
	state := c.State
	if state == "" {
		state = "attached"
	}

	err := page.WaitForSelector(browser.WaitOptions{
		Selector: c.Selector,
		State:    state,
		Timeout:  c.Timeout,
	})
	if err != nil {
		return newCheckError(c.Name(), page, err)
	}
	return nil
}

// renderProbeScript samples the first canvas on the page. It returns null
// when no canvas exists, otherwise a cheap content checksum of the current
// frame. Two samples with different checksums mean the render loop is
// actively drawing.
const renderProbeScript = `(() => {
	const canvas = document.querySelector('canvas');
	if (!canvas) {
		return null;
	}
	try {
		const data = canvas.toDataURL('image/png');
		let hash = 0;
		for (let i = 0; i < data.length; i += 127) {
			hash = (hash * 31 + data.charCodeAt(i)) | 0;
		}
		return data.length + ':' + hash;
	} catch (err) {
		return 'unreadable:' + err;
	}
})()`

// RenderLoopCheck verifies the application's render loop has settled and is
// producing output. It always grants the configured settle delay first, then
// (when polling is enabled) samples a canvas content checksum until two
// samples differ, which proves frames are being drawn. Pages without a
// canvas pass on the delay alone.
type RenderLoopCheck struct {
	// Delay is the unconditional settle time before sampling
	Delay time.Duration

	// Timeout bounds the sampling phase
	Timeout time.Duration

	// PollInterval between samples (0 means default)
	PollInterval time.Duration

	// Poll enables checksum sampling; when false the check is the settle
	// delay only, a plain fixed sleep
	Poll bool
}

// Name returns the name of the check.
func (c *RenderLoopCheck) Name() string { return "render-loop" }

// Required returns true.
func (c *RenderLoopCheck) Required() bool { return true }

// Execute waits for the render loop to stabilize.
func (c *RenderLoopCheck) Execute(ctx context.Context, page Driver) error {
	if err := sleepCtx(ctx, c.Delay); err != nil {
		return err
	}

	if !c.Poll {
		return nil
	}

	interval := c.PollInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}

	deadline := time.Now().Add(c.Timeout)
	var previous string
	for {
		result, err := page.Evaluate(renderProbeScript)
		if err != nil {
			return newCheckError(c.Name(), page, err)
		}

		// No canvas on the page: the settle delay is all we can verify
		if result == nil {
			return nil
		}

		sample := fmt.Sprintf("%v", result)
		if previous != "" && sample != previous {
			return nil
		}
		previous = sample

		if time.Now().After(deadline) {
			return newCheckError(c.Name(), page,
				fmt.Errorf("canvas output did not change within %s, render loop appears stalled", c.Timeout))
		}

		if err := sleepCtx(ctx, interval); err != nil {
			return err
		}
	}
}

// sleepCtx blocks for the given duration or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// BuildChecks assembles the check sequence for a configuration, in the
// order the verification contract runs them.
func BuildChecks(config *Config) []Check {
	return []Check{
		&TitleCheck{
			Expected: config.Target.Title,
			Timeout:  config.Checks.TitleTimeout,
		},
		&SelectorCheck{
			CheckName: "video-element",
			Selector:  config.Target.VideoSelector,
			State:     "attached",
			Timeout:   config.Checks.SelectorTimeout,
		},
		&RenderLoopCheck{
			Delay:   time.Duration(config.Checks.StabilizeDelay) * time.Millisecond,
			Timeout: time.Duration(config.Checks.StabilizeTimeout) * time.Millisecond,
			Poll:    config.Checks.PollRender,
		},
	}
}
