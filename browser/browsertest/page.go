// Package browsertest provides an in-memory browser.Page for tests.
package browsertest

import (
	"context"
	"encoding/json"
	"time"

	"tripadvisor-scraper/browser"
)

// Document is one rendered page.
type Document struct {
	HTML string
	// Present lists the locators that match an element on this page.
	Present []string
	// Styles overrides the computed style returned for a locator.
	Styles map[string]map[string]string
}

func (d Document) has(locator string) bool {
	for _, p := range d.Present {
		if p == locator {
			return true
		}
	}
	return false
}

// Page serves Documents by URL. Navigating to a URL shows the first
// document registered for it; clicking any present locator advances to the
// next document of the same URL, the way in-place pagination does.
type Page struct {
	Sites map[string][]Document

	// ReadyStates are returned in order for document.readyState; once
	// exhausted "complete" is returned.
	ReadyStates []string
	// Heights are returned in order for document.body.scrollHeight; once
	// exhausted the last value repeats.
	Heights []int

	NavigateErr error
	TitleErr    error
	EvalErr     map[string]error
	ClickErr    error
	// Redirect keeps Location on this URL regardless of navigation.
	Redirect string

	URL         string
	Index       int
	Navigations []string
	Clicks      []string
	Scrolled    []string
	Evaluated   []string
	ReadyPolls  int
}

var _ browser.Page = (*Page)(nil)

func New(sites map[string][]Document) *Page {
	return &Page{Sites: sites}
}

func (p *Page) current() (Document, bool) {
	docs := p.Sites[p.URL]
	if p.Index < 0 || p.Index >= len(docs) {
		return Document{}, false
	}
	return docs[p.Index], true
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.Navigations = append(p.Navigations, url)
	if p.NavigateErr != nil {
		return p.NavigateErr
	}
	p.URL, p.Index = url, 0
	return nil
}

func (p *Page) Location(ctx context.Context) (string, error) {
	if p.Redirect != "" {
		return p.Redirect, nil
	}
	return p.URL, nil
}

func (p *Page) Title(ctx context.Context) (string, error) {
	if p.TitleErr != nil {
		return "", p.TitleErr
	}
	return "TripAdvisor", nil
}

func (p *Page) Evaluate(ctx context.Context, expr string, res any) error {
	p.Evaluated = append(p.Evaluated, expr)
	if err, ok := p.EvalErr[expr]; ok {
		return err
	}

	var v any
	switch expr {
	case "document.readyState":
		p.ReadyPolls++
		v = browser.StateComplete
		if len(p.ReadyStates) > 0 {
			v, p.ReadyStates = p.ReadyStates[0], p.ReadyStates[1:]
		}
	case "document.body.scrollHeight":
		h := 0
		if len(p.Heights) > 0 {
			h = p.Heights[0]
			if len(p.Heights) > 1 {
				p.Heights = p.Heights[1:]
			}
		}
		v = h
	}
	if res == nil || v == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, res)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	doc, ok := p.current()
	if !ok {
		return "<html><body></body></html>", nil
	}
	return doc.HTML, nil
}

func (p *Page) Find(ctx context.Context, locator string) (bool, error) {
	doc, ok := p.current()
	return ok && doc.has(locator), nil
}

func (p *Page) ComputedStyle(ctx context.Context, locator string) (map[string]string, error) {
	doc, ok := p.current()
	if !ok || !doc.has(locator) {
		return nil, browser.ErrNotFound
	}
	if s, ok := doc.Styles[locator]; ok {
		return s, nil
	}
	return map[string]string{"display": "block", "visibility": "visible"}, nil
}

func (p *Page) ScrollIntoView(ctx context.Context, locator string) error {
	doc, ok := p.current()
	if !ok || !doc.has(locator) {
		return browser.ErrNotFound
	}
	p.Scrolled = append(p.Scrolled, locator)
	return nil
}

func (p *Page) WaitClickable(ctx context.Context, locator string, timeout time.Duration) error {
	doc, ok := p.current()
	if !ok || !doc.has(locator) {
		return context.DeadlineExceeded
	}
	return nil
}

func (p *Page) Click(ctx context.Context, locator string) error {
	if p.ClickErr != nil {
		return p.ClickErr
	}
	doc, ok := p.current()
	if !ok || !doc.has(locator) {
		return browser.ErrNotFound
	}
	p.Clicks = append(p.Clicks, locator)
	p.Index++
	return nil
}
