package browser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripadvisor-scraper/browser"
	"tripadvisor-scraper/browser/browsertest"
	"tripadvisor-scraper/config"
)

const target = "https://www.tripadvisor.com/Attractions-g1-Activities-c47-North_Holland.html"

func TestNavigateStopsWhenLocationMatches(t *testing.T) {
	page := browsertest.New(nil)

	err := browser.NavigatePage(context.Background(), page, target, 10, false, browser.ReadyOptions{})

	require.NoError(t, err)
	assert.Equal(t, []string{target}, page.Navigations)
}

func TestNavigateRetriesUntilExhausted(t *testing.T) {
	page := browsertest.New(nil)
	page.Redirect = "https://www.tripadvisor.com/consent"

	err := browser.NavigatePage(context.Background(), page, target, 3, false, browser.ReadyOptions{})

	require.NoError(t, err)
	assert.Len(t, page.Navigations, 3)
}

func TestNavigateIgnoreErrorsTriesOnce(t *testing.T) {
	page := browsertest.New(nil)
	page.Redirect = "https://www.tripadvisor.com/consent"

	err := browser.NavigatePage(context.Background(), page, target, 10, true, browser.ReadyOptions{})

	require.NoError(t, err)
	assert.Len(t, page.Navigations, 1)
}

func TestNavigateSkipsWhenAlreadyThere(t *testing.T) {
	page := browsertest.New(nil)
	page.URL = target

	require.NoError(t, browser.NavigatePage(context.Background(), page, target, 10, false, browser.ReadyOptions{}))
	assert.Empty(t, page.Navigations)
}

func TestIsBrowserProcess(t *testing.T) {
	for name, want := range map[string]bool{
		"chromedriver":     true,
		"chromedriver.exe": true,
		"chrome":           true,
		"chrome.exe":       true,
		"chromium":         true,
		"chrome_crashpad":  false,
		"go":               false,
	} {
		assert.Equal(t, want, browser.IsBrowserProcess(name), name)
	}
}

func TestManagerWithoutSession(t *testing.T) {
	m := browser.NewManager(context.Background(), config.Default())

	_, err := m.Page()
	assert.ErrorIs(t, err, browser.ErrNoSession)
	assert.ErrorIs(t, m.Navigate(context.Background(), target, 1, false), browser.ErrNoSession)
	assert.False(t, m.IsAlive(context.Background()))

	m.Close()
	m.Close()
	assert.Nil(t, m.Tab())
}

func TestStartFailsWithoutBinary(t *testing.T) {
	cfg := config.Default()
	cfg.ExecPath = "/nonexistent/chrome"
	cfg.UserDataDir = t.TempDir()

	err := browser.NewManager(context.Background(), cfg).Start(context.Background())
	assert.ErrorIs(t, err, browser.ErrBrowserNotFound)
}

func TestKillTwiceFallsBackToProcessKill(t *testing.T) {
	m := browser.NewManager(context.Background(), config.Default())
	kills := m.SetKillStrays()

	m.Kill(context.Background())
	m.Kill(context.Background())

	assert.Equal(t, 2, *kills)
	assert.Nil(t, m.Tab())
}

func TestKillDeadSessionDropsHandle(t *testing.T) {
	m := browser.NewManager(context.Background(), config.Default())
	kills := m.SetKillStrays()
	m.AttachDeadTab()
	require.False(t, m.IsAlive(context.Background()))

	m.Kill(context.Background())

	assert.Equal(t, 1, *kills)
	assert.Nil(t, m.Tab())
	_, err := m.Page()
	assert.ErrorIs(t, err, browser.ErrNoSession)
}

func TestRestartAfterCloseLeavesNoHandleOnFailure(t *testing.T) {
	cfg := config.Default()
	cfg.ExecPath = "/nonexistent/chrome"
	cfg.UserDataDir = t.TempDir()
	m := browser.NewManager(context.Background(), cfg)
	kills := m.SetKillStrays()
	m.AttachDeadTab()

	m.Close()
	err := m.Restart(context.Background())

	assert.ErrorIs(t, err, browser.ErrBrowserNotFound)
	assert.Equal(t, 1, *kills)
	assert.Nil(t, m.Tab())
}
