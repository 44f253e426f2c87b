package browser_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripadvisor-scraper/browser"
	"tripadvisor-scraper/browser/browsertest"
)

func countingSleep(n *int) func(context.Context, time.Duration) error {
	return func(context.Context, time.Duration) error {
		*n++
		return nil
	}
}

func TestWaitReadyPollsUntilComplete(t *testing.T) {
	page := browsertest.New(nil)
	page.ReadyStates = []string{"loading", "loading", "complete"}

	sleeps := 0
	state, err := browser.WaitReady(context.Background(), page, browser.ReadyOptions{
		Poll:  time.Millisecond,
		Sleep: countingSleep(&sleeps),
	})

	require.NoError(t, err)
	assert.Equal(t, "complete", state)
	assert.Equal(t, 3, page.ReadyPolls)
	assert.Equal(t, 2, sleeps)
}

func TestWaitReadyStopsAtTarget(t *testing.T) {
	page := browsertest.New(nil)
	page.ReadyStates = []string{"loading", "interactive", "complete"}

	sleeps := 0
	state, err := browser.WaitReady(context.Background(), page, browser.ReadyOptions{
		Target: "interactive",
		Sleep:  countingSleep(&sleeps),
	})

	require.NoError(t, err)
	assert.Equal(t, "interactive", state)
	assert.Equal(t, 2, page.ReadyPolls)
	assert.Equal(t, 1, sleeps)
}

func TestWaitReadyReturnsImmediatelyOnEvalFailure(t *testing.T) {
	page := browsertest.New(nil)
	boom := errors.New("execution context was destroyed")
	page.EvalErr = map[string]error{"document.readyState": boom}

	sleeps := 0
	_, err := browser.WaitReady(context.Background(), page, browser.ReadyOptions{Sleep: countingSleep(&sleeps)})

	var rerr *browser.ReadinessError
	require.ErrorAs(t, err, &rerr)
	assert.ErrorIs(t, err, boom)
	assert.False(t, rerr.Timeout)
	assert.Zero(t, sleeps)
}

func TestWaitReadyTimesOut(t *testing.T) {
	page := browsertest.New(nil)
	for i := 0; i < 1000; i++ {
		page.ReadyStates = append(page.ReadyStates, "loading")
	}

	_, err := browser.WaitReady(context.Background(), page, browser.ReadyOptions{
		Poll:    time.Millisecond,
		Timeout: 5 * time.Millisecond,
	})

	var rerr *browser.ReadinessError
	require.ErrorAs(t, err, &rerr)
	assert.True(t, rerr.Timeout)
	assert.Equal(t, "loading", rerr.State)
}

func TestWaitReadyHonoursCancellation(t *testing.T) {
	page := browsertest.New(nil)
	page.ReadyStates = []string{"loading", "loading"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := browser.WaitReady(ctx, page, browser.ReadyOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
