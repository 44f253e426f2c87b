package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"tripadvisor-scraper/browser"
	"tripadvisor-scraper/config"
	"tripadvisor-scraper/models"
	"tripadvisor-scraper/scraper"
)

// Session is the part of browser.Manager the crawl depends on.
type Session interface {
	scraper.Navigator
	Start(ctx context.Context) error
	Restart(ctx context.Context) error
	IsAlive(ctx context.Context) bool
	Page() (browser.Page, error)
	ReadyOptions() browser.ReadyOptions
	Close()
}

var _ Session = (*browser.Manager)(nil)

// Runner drives the three crawl stages over one browser session.
type Runner struct {
	cfg     config.Config
	session Session

	// Sleep is used for cool-downs and click pauses; nil means browser.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
	// Now stamps discovered records and measures running time.
	Now func() time.Time

	started time.Time
}

func NewRunner(cfg config.Config, session Session) *Runner {
	return &Runner{
		cfg:     cfg,
		session: session,
		Sleep:   browser.Sleep,
		Now:     time.Now,
	}
}

// Run crawls categories, their activities and every attraction found, each
// stage on a fresh browser process. On error the records collected so far
// are returned alongside it.
func (r *Runner) Run(ctx context.Context) (models.Dataset, error) {
	r.started = r.Now()
	ds := models.Dataset{Attractions: models.NewAttractionSet()}
	defer r.session.Close()

	if err := r.open(ctx, r.session.Start); err != nil {
		return ds, err
	}
	logrus.Info("--- Stage 1: categories ---")
	categories, err := r.Categories(ctx)
	ds.Categories = categories
	r.logRunning()
	if err != nil {
		return ds, err
	}

	if err := r.open(ctx, r.session.Restart); err != nil {
		return ds, err
	}
	logrus.Info("--- Stage 2: activities ---")
	activities, err := r.Activities(ctx, categories)
	ds.Activities = activities
	r.logRunning()
	if err != nil {
		return ds, err
	}

	if err := r.open(ctx, r.session.Restart); err != nil {
		return ds, err
	}
	logrus.Info("--- Stage 3: attractions ---")
	attractions, err := r.Attractions(ctx, AttractionLinks(activities))
	ds.Attractions = attractions
	r.logRunning()
	return ds, err
}

// open launches the browser with launch and lands on the site root so later
// navigation starts from a page carrying the site's cookies.
func (r *Runner) open(ctx context.Context, launch func(context.Context) error) error {
	if err := launch(ctx); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	return r.session.Navigate(ctx, r.cfg.BaseURL, 1, true)
}

func (r *Runner) logRunning() {
	minutes := math.Round(r.Now().Sub(r.started).Minutes())
	logrus.Infof("running: %.0f minute(s)...", minutes)
}

func (r *Runner) paginatorOptions() scraper.PaginatorOptions {
	return scraper.PaginatorOptions{
		Retries:     r.cfg.NavigateRetries,
		ClickWait:   time.Duration(r.cfg.ClickWait),
		ClickPause:  time.Duration(r.cfg.ClickPause),
		MaxPages:    r.cfg.MaxPages,
		HideClasses: r.cfg.HideClasses,
		Ready:       r.session.ReadyOptions(),
		Sleep:       r.Sleep,
	}
}
