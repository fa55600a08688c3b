package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session represents an active browser session with its associated resources.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated session)
	Context playwright.BrowserContext

	// Page is the current active page
	Page playwright.Page

	// Headless indicates if the browser is running without a visible window
	Headless bool

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time

	// LastUsedAt is the timestamp of the last operation on this session
	LastUsedAt time.Time

	// CurrentURL is the URL of the current page
	CurrentURL string
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// FakeMedia launches the browser with synthetic camera/microphone
	// streams and grants media permissions on the context, so pages that
	// request camera access render without real hardware
	FakeMedia bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for page operations (in milliseconds)
	Timeout float64

	// ExtraArgs appends additional Chromium command-line flags
	ExtraArgs []string
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

// WaitOptions configures selector waiting behavior.
type WaitOptions struct {
	// Selector to wait for
	Selector string

	// State to wait for: "attached", "detached", "visible", "hidden"
	State string

	// Timeout in milliseconds
	Timeout float64
}

// TitleOptions configures title assertion behavior.
type TitleOptions struct {
	// Timeout in milliseconds bounding the title poll
	Timeout float64

	// PollInterval between title reads (0 means default)
	PollInterval time.Duration
}

// ScreenshotOptions configures screenshot capture.
type ScreenshotOptions struct {
	// Path is the file the PNG is written to
	Path string

	// FullPage captures the whole scrollable page instead of the viewport
	FullPage bool
}

// Fake media-stream flags for Chromium. The UI flag suppresses the
// permission prompt, the device flag substitutes a synthetic capture device.
const (
	FlagFakeUIForMediaStream     = "--use-fake-ui-for-media-stream"
	FlagFakeDeviceForMediaStream = "--use-fake-device-for-media-stream"
)

// Default values for various operations
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 5
	DefaultTitlePoll      = 100 * time.Millisecond
)

// launchArgs builds the Chromium command-line flags for the session options.
func launchArgs(opts SessionOptions) []string {
	var args []string
	if opts.FakeMedia {
		args = append(args, FlagFakeUIForMediaStream, FlagFakeDeviceForMediaStream)
	}
	args = append(args, opts.ExtraArgs...)
	return args
}

// contextPermissions returns the permissions granted on a new browser context.
func contextPermissions(opts SessionOptions) []string {
	if !opts.FakeMedia {
		return nil
	}
	return []string{"camera", "microphone"}
}
