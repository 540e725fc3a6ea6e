// Package browser starts Playwright and hands out one isolated browser
// context per test, anchored at the application's base URL.
package browser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/transportqa/suite/internal/config"
)

// Driver owns the Playwright driver process and the launched browser.
type Driver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     *config.Config
}

// Launch starts Playwright and a Chromium browser configured by cfg.
// Set PLAYWRIGHT_INSTALL=1 to download the driver and browser first.
func Launch(cfg *config.Config) (*Driver, error) {
	if os.Getenv("PLAYWRIGHT_INSTALL") == "1" {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(float64(cfg.SlowMo.Milliseconds())),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}

	log.Printf("[browser] Launched Chromium %s (headless=%t)", b.Version(), cfg.Headless)
	return &Driver{pw: pw, browser: b, cfg: cfg}, nil
}

// Close closes the browser and stops the driver.
func (d *Driver) Close() error {
	if err := d.browser.Close(); err != nil {
		_ = d.pw.Stop()
		return fmt.Errorf("could not close browser: %w", err)
	}
	if err := d.pw.Stop(); err != nil {
		return fmt.Errorf("could not stop playwright: %w", err)
	}
	return nil
}

// Session is one test's browser context and page.
type Session struct {
	Context playwright.BrowserContext
	Page    playwright.Page
	Expect  playwright.PlaywrightAssertions
}

// NewSession opens a fresh context for t. Relative navigation resolves against
// the configured base URL. The context is closed when t finishes; failed tests
// leave a screenshot in the configured directory first.
func (d *Driver) NewSession(t testing.TB) *Session {
	t.Helper()

	ctx, err := d.browser.NewContext(playwright.BrowserNewContextOptions{
		BaseURL: playwright.String(d.cfg.BaseURL),
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
	})
	if err != nil {
		t.Fatalf("could not create browser context: %v", err)
	}
	timeoutMS := float64(d.cfg.Timeout.Milliseconds())
	ctx.SetDefaultTimeout(timeoutMS)
	ctx.SetDefaultNavigationTimeout(timeoutMS)

	page, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close()
		t.Fatalf("could not create page: %v", err)
	}

	s := &Session{
		Context: ctx,
		Page:    page,
		Expect:  playwright.NewPlaywrightAssertions(timeoutMS),
	}
	t.Cleanup(func() {
		if t.Failed() {
			s.screenshot(t, d.cfg.ScreenshotDir)
		}
		if err := ctx.Close(); err != nil {
			t.Logf("could not close browser context: %v", err)
		}
	})
	return s
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ScreenshotPath returns where the failure screenshot of testName taken at ts goes.
func ScreenshotPath(dir, testName string, ts time.Time) string {
	name := unsafeFileChars.ReplaceAllString(testName, "_")
	return filepath.Join(dir, fmt.Sprintf("%s_%d.png", name, ts.Unix()))
}

func (s *Session) screenshot(t testing.TB, dir string) {
	if dir == "" {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Logf("could not create screenshot dir: %v", err)
		return
	}
	path := ScreenshotPath(dir, t.Name(), time.Now())
	if _, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		t.Logf("could not take screenshot: %v", err)
		return
	}
	t.Logf("screenshot saved to %s (url %s)", path, s.Page.URL())
}
