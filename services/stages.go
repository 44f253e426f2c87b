package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"tripadvisor-scraper/browser"
	"tripadvisor-scraper/models"
	"tripadvisor-scraper/scraper"
)

// Categories paginates every configured start page and returns the
// categories found, one per URL.
func (r *Runner) Categories(ctx context.Context) ([]models.Category, error) {
	var all []models.Category
	for i, start := range r.cfg.StartURLs {
		logrus.Infof("[%d/%d] %s", i+1, len(r.cfg.StartURLs), start)

		page, err := r.session.Page()
		if err != nil {
			return UniqueCategories(all), err
		}
		now := r.Now()
		p := scraper.NewPaginator(page, r.session, r.cfg.BaseURL+start,
			func(doc *goquery.Document) []models.Category {
				return scraper.ExtractCategories(doc, start, now)
			}, r.paginatorOptions())

		found, pages, err := p.Collect(ctx)
		all = append(all, found...)
		logrus.Infof("%s: %d categories on %d page(s)", start, len(found), pages)
		if err != nil {
			return UniqueCategories(all), err
		}
	}
	all = UniqueCategories(all)
	logrus.Infof("categories: %d", len(all))
	return all, nil
}

// Activities paginates each category listing. The same activity listed by
// two categories is kept once per category.
func (r *Runner) Activities(ctx context.Context, categories []models.Category) ([]models.Activity, error) {
	var all []models.Activity
	for i, c := range categories {
		logrus.Infof("[%d/%d] %s", i+1, len(categories), c.URL)

		page, err := r.session.Page()
		if err != nil {
			return UniqueActivities(all), err
		}
		categoryURL, now := c.URL, r.Now()
		p := scraper.NewPaginator(page, r.session, r.cfg.BaseURL+categoryURL,
			func(doc *goquery.Document) []models.Activity {
				return scraper.ExtractActivities(doc, categoryURL, now)
			}, r.paginatorOptions())

		found, pages, err := p.Collect(ctx)
		all = append(all, found...)
		logrus.Infof("%s: %d activities on %d page(s)", c.Name, len(found), pages)
		if err != nil {
			return UniqueActivities(all), err
		}
	}
	all = UniqueActivities(all)
	logrus.Infof("activities: %d", len(all))
	return all, nil
}

// Attractions visits each attraction link and extracts its detail page.
// Pages that fail are logged and skipped. The session is restarted when it
// stops responding and on the configured cadence, with periodic cool-downs.
func (r *Runner) Attractions(ctx context.Context, links []string) (*models.AttractionSet, error) {
	set := models.NewAttractionSet()
	total := len(links)

	for i, link := range links {
		if err := ctx.Err(); err != nil {
			return set, err
		}
		logrus.Infof("[%d/%d] %s", i+1, total, link)
		if set.Contains(link) {
			logrus.Debugf("already extracted %s", link)
			continue
		}

		if !r.session.IsAlive(ctx) {
			logrus.Warn("browser not responding")
			if err := r.restart(ctx); err != nil {
				return set, err
			}
		}

		a, err := r.attraction(ctx, link)
		switch {
		case err == nil:
			set.Add(a)
		case ctx.Err() != nil:
			return set, ctx.Err()
		default:
			logrus.Warnf("skipping %s: %v", link, err)
		}

		if err := r.pace(ctx, i); err != nil {
			return set, err
		}
	}
	logrus.Infof("attractions: %d of %d", set.Len(), total)
	return set, nil
}

func (r *Runner) attraction(ctx context.Context, link string) (models.Attraction, error) {
	page, err := r.session.Page()
	if err != nil {
		return models.Attraction{}, err
	}
	if err := r.session.Navigate(ctx, r.cfg.BaseURL+link, r.cfg.NavigateRetries, false); err != nil {
		return models.Attraction{}, err
	}
	browser.ScrollToBottom(ctx, page, r.session.ReadyOptions())

	html, err := page.HTML(ctx)
	if err != nil {
		return models.Attraction{}, fmt.Errorf("read html: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.Attraction{}, fmt.Errorf("parse html: %w", err)
	}
	return scraper.ExtractAttraction(doc, link)
}

// pace runs after item i: a fresh browser every RestartEvery items and a
// pause every CooldownEvery items. The first two indices never trigger.
func (r *Runner) pace(ctx context.Context, i int) error {
	if due(i, r.cfg.RestartEvery) {
		if err := r.restart(ctx); err != nil {
			return err
		}
	}
	if due(i, r.cfg.CooldownEvery) {
		logrus.Infof("cooling down for %s", r.cfg.Cooldown)
		return r.Sleep(ctx, time.Duration(r.cfg.Cooldown))
	}
	return nil
}

func due(i, every int) bool {
	return every > 0 && i%every == 0 && i != 0 && i != 1
}

func (r *Runner) restart(ctx context.Context) error {
	err := r.open(ctx, r.session.Restart)
	if errors.Is(err, browser.ErrBrowserNotFound) || ctx.Err() != nil {
		return err
	}
	if err != nil {
		logrus.Errorf("restart browser: %v", err)
	}
	return nil
}

// UniqueCategories drops categories whose URL was already seen, keeping the
// first.
func UniqueCategories(in []models.Category) []models.Category {
	seen := make(map[string]bool, len(in))
	out := make([]models.Category, 0, len(in))
	for _, c := range in {
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		out = append(out, c)
	}
	return out
}

// UniqueActivities drops repeated (activity, category) pairs.
func UniqueActivities(in []models.Activity) []models.Activity {
	type key struct{ url, category string }
	seen := make(map[key]bool, len(in))
	out := make([]models.Activity, 0, len(in))
	for _, a := range in {
		k := key{a.URL, a.CategoryURL}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}

// AttractionLinks returns the distinct attraction detail links among
// activities, in first-seen order. Tours and other listings are dropped.
func AttractionLinks(activities []models.Activity) []string {
	seen := make(map[string]bool, len(activities))
	var links []string
	for _, a := range activities {
		if !strings.HasPrefix(a.URL, scraper.AttractionPathPrefix) || seen[a.URL] {
			continue
		}
		seen[a.URL] = true
		links = append(links, a.URL)
	}
	return links
}
