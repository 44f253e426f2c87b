package utils

import (
	"context"

	"github.com/chromedp/chromedp"

	"tripadvisor-scraper/config"
)

// AllocatorOptions builds the Chrome flags for a scraping session.
func AllocatorOptions(cfg config.Config, userDataDir string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("disable-logging", true),
		chromedp.Flag("log-level", "2"),
		chromedp.Flag("disable-remote-fonts", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	if userDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(userDataDir))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return opts
}

// NewAllocator creates a Chrome exec allocator context from the given Config.
func NewAllocator(parent context.Context, cfg config.Config, userDataDir string) (context.Context, context.CancelFunc) {
	return chromedp.NewExecAllocator(parent, AllocatorOptions(cfg, userDataDir)...)
}
