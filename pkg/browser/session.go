package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// UpdateLastUsed updates the LastUsedAt timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.LastUsedAt = time.Now()
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	s.UpdateLastUsed()

	// Build Playwright navigation options
	playwrightOpts := playwright.PageGotoOptions{}

	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	_, err := s.Page.Goto(url, playwrightOpts)
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.CurrentURL = s.Page.URL()
	return nil
}

// WaitForTitle polls the page title until it equals expected or the timeout
// elapses. A page may set its title from script after load, so a single read
// is not enough.
func (s *Session) WaitForTitle(expected string, opts TitleOptions) error {
	s.UpdateLastUsed()

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultTitlePoll
	}

	deadline := time.Now().Add(time.Duration(timeout) * time.Millisecond)
	var last string
	for {
		title, err := s.Page.Title()
		if err == nil && title == expected {
			return nil
		}
		if err == nil {
			last = title
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("title assertion failed: expected %q, got %q after %.0fms", expected, last, timeout)
		}
		time.Sleep(interval)
	}
}

// WaitForSelector blocks until an element matching the selector reaches the
// requested state, or the timeout elapses.
func (s *Session) WaitForSelector(opts WaitOptions) error {
	s.UpdateLastUsed()

	if opts.Selector == "" {
		return fmt.Errorf("selector is required for wait")
	}

	playwrightOpts := playwright.PageWaitForSelectorOptions{}

	if opts.State != "" {
		state := playwright.WaitForSelectorState(opts.State)
		playwrightOpts.State = &state
	}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	_, err := s.Page.WaitForSelector(opts.Selector, playwrightOpts)
	if err != nil {
		return fmt.Errorf("wait for %q failed: %w", opts.Selector, err)
	}

	return nil
}

// Evaluate runs a JavaScript expression in the page and returns its result.
func (s *Session) Evaluate(expression string) (interface{}, error) {
	s.UpdateLastUsed()

	result, err := s.Page.Evaluate(expression)
	if err != nil {
		return nil, fmt.Errorf("evaluate failed: %w", err)
	}

	return result, nil
}

// Screenshot captures the page as a PNG and writes it to opts.Path.
func (s *Session) Screenshot(opts ScreenshotOptions) error {
	s.UpdateLastUsed()

	if opts.Path == "" {
		return fmt.Errorf("screenshot path is required")
	}

	playwrightOpts := playwright.PageScreenshotOptions{
		Path:     &opts.Path,
		FullPage: &opts.FullPage,
	}

	if _, err := s.Page.Screenshot(playwrightOpts); err != nil {
		return fmt.Errorf("screenshot failed: %w", err)
	}

	return nil
}

// Content returns the full HTML of the current page.
func (s *Session) Content() (string, error) {
	s.UpdateLastUsed()

	content, err := s.Page.Content()
	if err != nil {
		return "", fmt.Errorf("content extraction failed: %w", err)
	}

	return content, nil
}

// GetMetadata returns current page metadata.
func (s *Session) GetMetadata() (map[string]string, error) {
	s.UpdateLastUsed()

	title, err := s.Page.Title()
	if err != nil {
		title = ""
	}

	return map[string]string{
		"title": title,
		"url":   s.Page.URL(),
	}, nil
}
