// Package browser provides headless browser automation through Playwright
// for verifying a running ChromeCam Studio instance.
//
// The package is built around two core concepts:
//
// 1. Session: Encapsulates a Playwright browser instance with its context and page
// 2. Manager: Registry that owns the Playwright driver and all active sessions
//
// # Session Lifecycle
//
// Browser sessions follow this lifecycle:
//
//  1. Create: Manager.StartSession launches a browser and opens a page
//  2. Use: Navigation, waiting, and screenshot operations run against the session
//  3. Close: Manager.CloseSession (or CloseAll) releases all browser resources
//
// The manager guarantees that Shutdown closes every session that is still
// open, so a caller that defers Shutdown never leaks a browser process.
//
// # Fake Media Streams
//
// ChromeCam Studio requests camera access on load. Sessions started with
// SessionOptions.FakeMedia launch Chromium with the fake media-stream flags
// and grant camera/microphone permissions on the browser context, so the
// camera-dependent UI renders without real hardware or a permission prompt.
//
// # Example Usage
//
//	manager := browser.NewManager()
//	if err := manager.Initialize(); err != nil {
//	    return err
//	}
//	defer manager.Shutdown()
//
//	session, err := manager.StartSession("verify", browser.SessionOptions{
//	    Headless:  true,
//	    FakeMedia: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	err = session.Navigate("http://localhost:3002/", browser.NavigateOptions{})
package browser
