// Package browser owns the controlled Chrome session and the small set of
// page operations the crawl needs: navigation, readiness polling, element
// probing, scrolling and clicking.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// ErrNotFound is returned when a locator matches no element.
var ErrNotFound = errors.New("element not found")

// Page is the narrow capability surface the scraper drives. Locators are
// XPath expressions.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Location(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	Evaluate(ctx context.Context, expr string, res any) error
	HTML(ctx context.Context) (string, error)
	Find(ctx context.Context, locator string) (bool, error)
	ComputedStyle(ctx context.Context, locator string) (map[string]string, error)
	ScrollIntoView(ctx context.Context, locator string) error
	WaitClickable(ctx context.Context, locator string, timeout time.Duration) error
	Click(ctx context.Context, locator string) error
}

// Tab is the chromedp implementation of Page. Every call runs against the
// tab context and is bounded by timeout; cancelling the caller's context
// aborts the call as well.
type Tab struct {
	ctx     context.Context
	timeout time.Duration
}

func newTab(ctx context.Context, timeout time.Duration) *Tab {
	return &Tab{ctx: ctx, timeout: timeout}
}

func (t *Tab) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(t.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (t *Tab) Navigate(ctx context.Context, url string) error {
	if err := t.run(ctx, t.timeout*3, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (t *Tab) Location(ctx context.Context) (string, error) {
	var loc string
	err := t.run(ctx, t.timeout, chromedp.Location(&loc))
	return loc, err
}

func (t *Tab) Title(ctx context.Context) (string, error) {
	var title string
	err := t.run(ctx, t.timeout, chromedp.Title(&title))
	return title, err
}

func (t *Tab) Evaluate(ctx context.Context, expr string, res any) error {
	return t.run(ctx, t.timeout, chromedp.Evaluate(expr, res))
}

func (t *Tab) HTML(ctx context.Context) (string, error) {
	var html string
	err := t.run(ctx, t.timeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// Find reports whether locator matches at least one element. It does not
// wait for the element to appear.
func (t *Tab) Find(ctx context.Context, locator string) (bool, error) {
	var nodes []*cdp.Node
	if err := t.run(ctx, t.timeout,
		chromedp.Nodes(locator, &nodes, chromedp.BySearch, chromedp.AtLeast(0)),
	); err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

func (t *Tab) ComputedStyle(ctx context.Context, locator string) (map[string]string, error) {
	var style map[string]string
	if err := t.Evaluate(ctx, fmt.Sprintf(computedStyleJS, locator), &style); err != nil {
		return nil, err
	}
	if style == nil {
		return nil, ErrNotFound
	}
	return style, nil
}

func (t *Tab) ScrollIntoView(ctx context.Context, locator string) error {
	var found bool
	if err := t.Evaluate(ctx, fmt.Sprintf(scrollIntoViewJS, locator), &found); err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (t *Tab) WaitClickable(ctx context.Context, locator string, timeout time.Duration) error {
	return t.run(ctx, timeout,
		chromedp.WaitVisible(locator, chromedp.BySearch),
		chromedp.WaitEnabled(locator, chromedp.BySearch),
	)
}

func (t *Tab) Click(ctx context.Context, locator string) error {
	return t.run(ctx, t.timeout, chromedp.Click(locator, chromedp.BySearch, chromedp.NodeVisible))
}

const firstByXPath = `document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`

var (
	computedStyleJS = `(() => {
	const el = ` + firstByXPath + `;
	if (!el) return null;
	const cs = getComputedStyle(el);
	const out = {};
	for (let i = 0; i < cs.length; i++) out[cs[i]] = cs.getPropertyValue(cs[i]);
	return out;
})()`

	scrollIntoViewJS = `(() => {
	const el = ` + firstByXPath + `;
	if (!el) return false;
	el.scrollIntoView();
	return true;
})()`
)
