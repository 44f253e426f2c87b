package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"tripadvisor-scraper/browser"
)

// State is a step of the pagination state machine.
type State int

const (
	LoadingPage State = iota
	Extracting
	DecidingNext
	Advancing
	Done
)

func (s State) String() string {
	switch s {
	case LoadingPage:
		return "loading"
	case Extracting:
		return "extracting"
	case DecidingNext:
		return "deciding"
	case Advancing:
		return "advancing"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Navigator loads the first page of a listing.
type Navigator interface {
	Navigate(ctx context.Context, url string, maxRetries int, ignoreErrors bool) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, url string, maxRetries int, ignoreErrors bool) error

func (f NavigatorFunc) Navigate(ctx context.Context, url string, maxRetries int, ignoreErrors bool) error {
	return f(ctx, url, maxRetries, ignoreErrors)
}

// PaginatorOptions configures a Paginator. Zero durations fall back to one
// second.
type PaginatorOptions struct {
	Retries     int
	ClickWait   time.Duration
	ClickPause  time.Duration
	MaxPages    int
	HideClasses []string
	Ready       browser.ReadyOptions
	Sleep       func(ctx context.Context, d time.Duration) error
}

// Paginator walks a listing page by page, one rendered page per call to
// Next. It is finite and cannot be restarted.
type Paginator[T any] struct {
	page    browser.Page
	nav     Navigator
	url     string
	extract func(*goquery.Document) []T
	opts    PaginatorOptions
	log     *logrus.Entry

	state   State
	pageNum int
	next    string
	records []T
	err     error
}

// NewPaginator prepares a walk of the listing at url. extract turns one
// rendered page into records.
func NewPaginator[T any](page browser.Page, nav Navigator, url string, extract func(*goquery.Document) []T, opts PaginatorOptions) *Paginator[T] {
	if opts.ClickWait <= 0 {
		opts.ClickWait = time.Second
	}
	if opts.ClickPause <= 0 {
		opts.ClickPause = time.Second
	}
	if opts.Retries <= 0 {
		opts.Retries = 1
	}
	if opts.Sleep == nil {
		opts.Sleep = browser.Sleep
	}
	return &Paginator[T]{
		page:    page,
		nav:     nav,
		url:     url,
		extract: extract,
		opts:    opts,
		log:     logrus.WithField("listing", url),
		state:   LoadingPage,
		pageNum: 1,
	}
}

func (p *Paginator[T]) State() State { return p.state }

// Page is the number of the page whose records Records returns.
func (p *Paginator[T]) Page() int { return p.pageNum }

// Records returns the records of the current page.
func (p *Paginator[T]) Records() []T { return p.records }

// Err returns the error that stopped the walk early, if any. Transient page
// failures end the walk without an error; only cancellation is reported.
func (p *Paginator[T]) Err() error { return p.err }

// Next advances to the next rendered page and extracts it. It returns false
// once the listing is exhausted.
func (p *Paginator[T]) Next(ctx context.Context) bool {
	p.records = nil
	for {
		if err := ctx.Err(); err != nil {
			p.err = err
			p.state = Done
		}

		switch p.state {
		case LoadingPage:
			p.load(ctx)
		case Extracting:
			p.records = p.extractPage(ctx)
			p.state = DecidingNext
			return true
		case DecidingNext:
			p.decide(ctx)
		case Advancing:
			p.advance(ctx)
		case Done:
			return false
		}
	}
}

func (p *Paginator[T]) load(ctx context.Context) {
	if p.pageNum == 1 {
		if err := p.nav.Navigate(ctx, p.url, p.opts.Retries, false); err != nil {
			p.err = err
			p.state = Done
			return
		}
	}
	browser.ScrollIntoView(ctx, p.page, p.opts.Ready, NextButtonPrimary, NextButtonSecondary, NextButtonDisabled)
	p.state = Extracting
}

func (p *Paginator[T]) extractPage(ctx context.Context) []T {
	html, err := p.page.HTML(ctx)
	if err != nil {
		p.log.Warnf("page %d: read html: %v", p.pageNum, err)
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		p.log.Warnf("page %d: parse html: %v", p.pageNum, err)
		return nil
	}
	return p.extract(doc)
}

func (p *Paginator[T]) decide(ctx context.Context) {
	p.next = ""
	if p.opts.MaxPages > 0 && p.pageNum >= p.opts.MaxPages {
		p.log.Infof("page limit %d reached", p.opts.MaxPages)
		p.state = Done
		return
	}

	for _, loc := range []string{NextButtonPrimary, NextButtonSecondary} {
		if p.enabled(ctx, loc) {
			p.next = loc
			p.state = Advancing
			return
		}
	}

	if ok, _ := p.page.Find(ctx, NextButtonDisabled); ok {
		p.log.Infof("end of category after %d page(s)", p.pageNum)
	} else {
		p.log.Infof("no pagination control on page %d, stopping", p.pageNum)
	}
	p.state = Done
}

// enabled reports whether loc is present and not hidden by style. A style
// that cannot be read does not count against the control.
func (p *Paginator[T]) enabled(ctx context.Context, loc string) bool {
	ok, err := p.page.Find(ctx, loc)
	if err != nil {
		p.log.Debugf("probe %s: %v", loc, err)
		return false
	}
	if !ok {
		return false
	}
	style, err := p.page.ComputedStyle(ctx, loc)
	if err != nil {
		return true
	}
	return style["display"] != "none" && style["visibility"] != "hidden"
}

func (p *Paginator[T]) advance(ctx context.Context) {
	browser.HideElements(ctx, p.page, p.opts.HideClasses...)

	if err := p.page.WaitClickable(ctx, p.next, p.opts.ClickWait); err != nil {
		p.log.Debugf("timed out waiting for %s: %v", p.next, err)
	}
	if err := p.page.Click(ctx, p.next); err != nil {
		p.log.Warnf("page %d: click next: %v", p.pageNum, err)
		p.state = Done
		return
	}
	if err := p.opts.Sleep(ctx, p.opts.ClickPause); err != nil {
		p.err = err
		p.state = Done
		return
	}

	p.pageNum++
	p.log.Infof("CLICK... (page %d)", p.pageNum)
	p.state = LoadingPage
}

// Collect drains the paginator and returns every record together with the
// number of pages visited.
func (p *Paginator[T]) Collect(ctx context.Context) ([]T, int, error) {
	var all []T
	pages := 0
	for p.Next(ctx) {
		pages++
		all = append(all, p.Records()...)
	}
	return all, pages, p.Err()
}
