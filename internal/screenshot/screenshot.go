// Package screenshot captures the companion web application with a headless
// Chromium driven over the DevTools protocol.
package screenshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	// PagePrefix names full-page captures
	PagePrefix = "app"
	// ElementPrefix names element captures
	ElementPrefix = "command-card"

	navigationTimeout = 30 * time.Second
	idleTimeout       = 10 * time.Second
	elementTimeout    = 5 * time.Second
)

// Options configures one capture run
type Options struct {
	URL      string
	Dir      string
	Width    int
	Height   int
	Settle   time.Duration
	Selector string
	Headless bool
	// Bin is an explicit browser binary; empty lets the launcher find or fetch one
	Bin string
}

// Result lists the files written by Capture
type Result struct {
	Page    string
	Element string
}

// Validate checks the options before a browser is launched
func (o Options) Validate() error {
	var errs []error
	if o.URL == "" {
		errs = append(errs, errors.New("url must not be empty"))
	}
	if o.Dir == "" {
		errs = append(errs, errors.New("dir must not be empty"))
	}
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, fmt.Errorf("viewport must be positive, got %dx%d", o.Width, o.Height))
	}
	if o.Settle < 0 {
		errs = append(errs, fmt.Errorf("settle must not be negative, got %s", o.Settle))
	}
	return errors.Join(errs...)
}

// Timestamp formats t as an ISO-8601 UTC timestamp safe for file names.
// Example: 2025-01-02T03:04:05.678Z -> 2025-01-02T03-04-05-678Z
func Timestamp(t time.Time) string {
	iso := t.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(iso)
}

// Filename returns the capture file name for a prefix and time
func Filename(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s.png", prefix, Timestamp(t))
}

// Capture loads opts.URL and writes a full-page PNG into opts.Dir. When an
// element matches opts.Selector it is captured as well; a failed element
// capture is logged and does not fail the run.
func Capture(ctx context.Context, opts Options, logger *log.Logger) (Result, error) {
	var result Result
	if logger == nil {
		logger = log.Default()
	}
	if err := opts.Validate(); err != nil {
		return result, fmt.Errorf("invalid screenshot options: %w", err)
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return result, fmt.Errorf("failed to create screenshot directory: %w", err)
	}

	l := launcher.New().Headless(opts.Headless)
	if opts.Bin != "" {
		l = l.Bin(opts.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return result, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return result, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return result, fmt.Errorf("failed to open page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		return result, fmt.Errorf("failed to set viewport: %w", err)
	}

	if err := page.Timeout(navigationTimeout).Navigate(opts.URL); err != nil {
		return result, fmt.Errorf("failed to navigate to %s: %w", opts.URL, err)
	}
	if err := page.Timeout(navigationTimeout).WaitLoad(); err != nil {
		return result, fmt.Errorf("failed waiting for %s to load: %w", opts.URL, err)
	}
	if err := page.WaitIdle(idleTimeout); err != nil {
		logger.Warn("Page did not become idle", "url", opts.URL, "err", err)
	}

	// Client-side rendering settles after the load event
	select {
	case <-ctx.Done():
		return result, ctx.Err()
	case <-time.After(opts.Settle):
	}

	now := time.Now()

	data, err := page.Screenshot(true, nil)
	if err != nil {
		return result, fmt.Errorf("failed to capture page: %w", err)
	}
	result.Page = filepath.Join(opts.Dir, Filename(PagePrefix, now))
	if err := os.WriteFile(result.Page, data, 0o644); err != nil {
		return result, fmt.Errorf("failed to write %s: %w", result.Page, err)
	}
	logger.Infof("✓ Screenshot saved: %s", result.Page)

	if opts.Selector == "" {
		return result, nil
	}
	path, err := captureElement(page, opts.Selector, filepath.Join(opts.Dir, Filename(ElementPrefix, now)))
	switch {
	case err != nil:
		logger.Warn("Could not capture command card component", "selector", opts.Selector, "err", err)
	case path != "":
		result.Element = path
		logger.Infof("✓ Command card screenshot saved: %s", path)
	}

	return result, nil
}

// captureElement writes the first element matching selector to path. It
// returns an empty path when nothing matches.
func captureElement(page *rod.Page, selector, path string) (string, error) {
	found, el, err := page.Timeout(elementTimeout).Has(selector)
	if err != nil {
		return "", err
	}
	if !found {
		return "", nil
	}

	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
