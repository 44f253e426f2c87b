package browser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"tripadvisor-scraper/browser"
	"tripadvisor-scraper/browser/browsertest"
)

func TestScrollToBottomStopsAfterHeightChange(t *testing.T) {
	page := browsertest.New(nil)
	page.Heights = []int{1000, 1800, 1800}

	rounds := browser.ScrollToBottom(context.Background(), page, browser.ReadyOptions{})

	assert.Equal(t, 1, rounds)
}

func TestScrollToBottomGivesUpAfterStagnantRounds(t *testing.T) {
	page := browsertest.New(nil)
	page.Heights = []int{1000}

	rounds := browser.ScrollToBottom(context.Background(), page, browser.ReadyOptions{})

	assert.Equal(t, 4, rounds)
}

func TestScrollToBottomSurvivesScriptErrors(t *testing.T) {
	page := browsertest.New(nil)
	page.EvalErr = map[string]error{"document.body.scrollHeight": errors.New("no body")}

	rounds := browser.ScrollToBottom(context.Background(), page, browser.ReadyOptions{})

	assert.Equal(t, 4, rounds)
}

func TestScrollIntoViewSkipsMissingElements(t *testing.T) {
	page := browsertest.New(map[string][]browsertest.Document{
		"u": {{Present: []string{"//b"}}},
	})
	page.URL = "u"

	browser.ScrollIntoView(context.Background(), page, browser.ReadyOptions{}, "//a", "//b")

	assert.Equal(t, []string{"//b"}, page.Scrolled)
}

func TestHideElementsInjectsClasses(t *testing.T) {
	page := browsertest.New(nil)

	browser.HideElements(context.Background(), page, "evidon-banner")
	browser.HideElements(context.Background(), page)

	if assert.Len(t, page.Evaluated, 1) {
		assert.Contains(t, page.Evaluated[0], `["evidon-banner"]`)
	}
}
