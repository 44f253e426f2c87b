package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"tripadvisor-scraper/browser"
)

func TestUnrecoverable(t *testing.T) {
	assert.True(t, unrecoverable(fmt.Errorf("start browser: %w", browser.ErrBrowserNotFound)))
	assert.False(t, unrecoverable(context.Canceled))
	assert.False(t, unrecoverable(nil))
}
