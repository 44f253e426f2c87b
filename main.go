package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"tripadvisor-scraper/browser"
	"tripadvisor-scraper/config"
	"tripadvisor-scraper/dataset"
	"tripadvisor-scraper/services"
	"tripadvisor-scraper/storage"
	"tripadvisor-scraper/utils"
)

func main() {
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg, err := config.Load(config.DefaultFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	runID := uuid.New()
	logrus.Infof("TripAdvisor attraction scraper, run %s", runID)
	logrus.Infof("Start pages : %s", strings.Join(cfg.StartURLs, ", "))
	logrus.Infof("Headless    : %v", cfg.Headless)
	logrus.Infof("Database    : %s", cfg.DBDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := browser.NewManager(ctx, cfg)
	ds, crawlErr := services.NewRunner(cfg, manager).Run(ctx)
	if unrecoverable(crawlErr) {
		logrus.Fatalf("Crawl failed: %v", crawlErr)
	}
	if crawlErr != nil {
		logrus.Errorf("Crawl stopped early: %v", crawlErr)
	}

	table := dataset.Build(ds)
	finished := time.Now()

	logrus.Info("writing csv for backup...")
	if path, err := dataset.WriteCSV(cfg.ResultsDir, table, finished); err != nil {
		logrus.Errorf("writing csv failed: %v", err)
	} else {
		logrus.Infof("%d attractions -> %s", len(table.Rows), path)
	}
	snapshot := filepath.Join(cfg.ResultsDir, "run "+finished.Format(dataset.FileTimeLayout)+".json")
	if _, err := utils.WriteJSON(snapshot, runID.String(), ds); err != nil {
		logrus.Errorf("writing json snapshot failed: %v", err)
	}

	// Persistence runs on its own context so an interrupted crawl still
	// saves what it collected.
	dbCtx, cancelDB := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancelDB()

	store, err := storage.Open(dbCtx, cfg)
	switch {
	case errors.Is(err, storage.ErrDisabled):
		logrus.Info("Database disabled, skipping")
	case err != nil:
		logrus.Fatalf("Failed to connect to %s: %v", cfg.DBDriver, err)
	default:
		defer store.Close()
		saved, err := store.SaveBatch(dbCtx, runID, ds)
		if err != nil {
			logrus.Fatalf("Failed to store results: %v", err)
		}
		logrus.Infof("DB: %d rows upserted (%s)", saved, store.Dialect())
		switch err := store.SaveCombined(dbCtx, runID, table); {
		case errors.Is(err, storage.ErrEmptyTable):
			logrus.Warn("No attractions collected, keeping the previous combined table")
		case err != nil:
			logrus.Errorf("Failed to store combined table: %v", err)
		}
	}

	printSummary(utils.BuildSummaryStats(ds))
	if crawlErr != nil {
		logrus.Exit(1)
	}
}

// unrecoverable reports crawl errors after which nothing should be exported
// or persisted.
func unrecoverable(err error) bool {
	return errors.Is(err, browser.ErrBrowserNotFound)
}

func printSummary(stats utils.SummaryStats) {
	logrus.Info("STATS")
	logrus.Infof("  Categories  : %d", stats.TotalCategories)
	logrus.Infof("  Activities  : %d", stats.TotalActivities)
	logrus.Infof("  Attractions : %d", stats.TotalAttractions)
	logrus.Infof("  Avg rating  : %.2f", stats.AverageRating)
	if stats.TotalAttractions > 0 {
		logrus.Infof("  Most reviewed: %s (%d reviews)", stats.MostReviewed.Title, stats.MostReviewed.Reviews)
	}

	logrus.Info("  Activities per category")
	for _, c := range stats.ActivitiesPerCategory {
		logrus.Infof("    - %s: %d", c.Category, c.Count)
	}

	logrus.Info("  Top rated attractions")
	for i, a := range stats.TopRatedAttractions {
		logrus.Infof("    %d) %.1f | %s", i+1, a.Rating, a.Title)
	}
}
