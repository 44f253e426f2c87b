package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"tripadvisor-scraper/config"
	"tripadvisor-scraper/utils"
)

var (
	// ErrBrowserNotFound means no Chrome binary could be located.
	ErrBrowserNotFound = errors.New("chrome binary not found")
	// ErrNoSession is returned by operations that need a live session.
	ErrNoSession = errors.New("no browser session")
)

// execCandidates are looked up on PATH when no exec path is configured.
var execCandidates = []string{
	"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome", "headless_shell",
}

// Manager owns the single browser session of the process. It is not safe
// for concurrent use; the crawl drives it from one goroutine.
type Manager struct {
	cfg    config.Config
	parent context.Context

	cancelAlloc context.CancelFunc
	cancelTab   context.CancelFunc
	tab         *Tab

	// killStrays terminates leftover browser processes.
	killStrays func(ctx context.Context) int
}

// NewManager binds a manager to parent; every session it starts is torn
// down when parent is cancelled.
func NewManager(parent context.Context, cfg config.Config) *Manager {
	return &Manager{cfg: cfg, parent: parent, killStrays: KillStrays}
}

// Page returns the live tab as a Page, or ErrNoSession.
func (m *Manager) Page() (Page, error) {
	if m.tab == nil {
		return nil, ErrNoSession
	}
	return m.tab, nil
}

// Start launches Chrome. A manager that already holds a session keeps it.
func (m *Manager) Start(ctx context.Context) error {
	if m.tab != nil {
		return nil
	}

	if err := m.checkBinary(); err != nil {
		return err
	}

	m.killStrays(ctx)

	dataDir, err := resetDir(m.cfg.UserDataDir)
	if err != nil {
		return err
	}

	allocCtx, cancelAlloc := utils.NewAllocator(m.parent, m.cfg, dataDir)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logrus.Debugf),
		chromedp.WithErrorf(logrus.Debugf),
	)

	// The first Run launches the process.
	if err := chromedp.Run(tabCtx); err != nil {
		cancelTab()
		cancelAlloc()
		return fmt.Errorf("launch browser: %w", err)
	}

	m.cancelAlloc, m.cancelTab = cancelAlloc, cancelTab
	m.tab = newTab(tabCtx, time.Duration(m.cfg.ActionTimeout))
	logrus.Info("--- Browser started ---")
	return nil
}

func (m *Manager) checkBinary() error {
	if m.cfg.ExecPath != "" {
		if _, err := os.Stat(m.cfg.ExecPath); err != nil {
			return fmt.Errorf("%w: %s", ErrBrowserNotFound, m.cfg.ExecPath)
		}
		return nil
	}
	for _, name := range execCandidates {
		if _, err := exec.LookPath(name); err == nil {
			return nil
		}
	}
	return ErrBrowserNotFound
}

func resetDir(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("user data dir: %w", err)
	}
	logrus.Debugf("removing %s", abs)
	if err := os.RemoveAll(abs); err != nil {
		return "", fmt.Errorf("clear user data dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create user data dir: %w", err)
	}
	return abs, nil
}

// Navigate loads url, retrying until the reported location equals url or
// maxRetries attempts were made. With ignoreErrors it stops after the first
// attempt. Failures are logged; only cancellation of ctx is returned.
func (m *Manager) Navigate(ctx context.Context, url string, maxRetries int, ignoreErrors bool) error {
	if m.tab == nil {
		return ErrNoSession
	}
	return navigate(ctx, m.tab, url, maxRetries, ignoreErrors, m.readyOptions())
}

func navigate(ctx context.Context, page Page, url string, maxRetries int, ignoreErrors bool, ready ReadyOptions) error {
	current, _ := page.Location(ctx)
	logrus.Debugf("getting url %s (current %s)", url, current)

	for attempt := 0; current != url && attempt < maxRetries; {
		if err := page.Navigate(ctx, url); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logrus.Warnf("navigate %s: %v", url, err)
		}
		if _, err := WaitReady(ctx, page, ready); err != nil {
			logrus.Warnf("navigate %s: %v", url, err)
		}
		if ignoreErrors {
			break
		}
		attempt++
		current, _ = page.Location(ctx)
		if current != url {
			logrus.Debugf("current url: %s (%d)", current, attempt)
		}
	}
	return ctx.Err()
}

func (m *Manager) readyOptions() ReadyOptions {
	return ReadyOptions{Poll: time.Duration(m.cfg.ReadyPoll), Timeout: time.Duration(m.cfg.ReadyTimeout)}
}

// ReadyOptions exposes the configured readiness polling settings.
func (m *Manager) ReadyOptions() ReadyOptions {
	return m.readyOptions()
}

// IsAlive probes the session by reading the page title. Any failure means
// the session is gone.
func (m *Manager) IsAlive(ctx context.Context) bool {
	if m.tab == nil {
		return false
	}
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := m.tab.Title(probeCtx)
	return err == nil
}

// Restart replaces the session with a fresh process using the same
// configuration.
func (m *Manager) Restart(ctx context.Context) error {
	m.Close()
	m.Kill(ctx)
	logrus.Info("Restarting browser...")
	return m.Start(ctx)
}

// Close closes the window and releases the browser. Safe to call without a
// session.
func (m *Manager) Close() {
	if m.cancelTab != nil {
		m.cancelTab()
	}
	if m.cancelAlloc != nil {
		m.cancelAlloc()
	}
	m.cancelTab, m.cancelAlloc, m.tab = nil, nil, nil
}

// Kill terminates the browser. When the session is unresponsive or already
// closed it falls back to killing matching OS processes. Killing twice is
// safe.
func (m *Manager) Kill(ctx context.Context) {
	if m.IsAlive(ctx) {
		m.Close()
		logrus.Info("Driver and browser closed...")
		return
	}
	m.Close()
	m.killStrays(ctx)
}
