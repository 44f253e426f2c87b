package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripadvisor-scraper/dataset"
	"tripadvisor-scraper/models"
)

const (
	upsertCategory = `
		INSERT INTO categories (url, name, region, status, discovered, run_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (url) DO UPDATE
		SET
			name = excluded.name,
			region = excluded.region,
			status = excluded.status,
			run_id = excluded.run_id,
			updated_at = CURRENT_TIMESTAMP`

	upsertActivity = `
		INSERT INTO activities (url, category_url, title, price, region, status, discovered, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (url, category_url) DO UPDATE
		SET
			title = excluded.title,
			price = excluded.price,
			region = excluded.region,
			status = excluded.status,
			run_id = excluded.run_id,
			updated_at = CURRENT_TIMESTAMP`

	upsertAttraction = `
		INSERT INTO attractions (url, ta_id, status, title, rating, reviews,
			pct_excellent, pct_very_good, pct_average, pct_poor, pct_terrible,
			address, postcode_city, postcode, city, country, phone, lat, lon, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (url) DO UPDATE
		SET
			ta_id = excluded.ta_id,
			status = excluded.status,
			title = excluded.title,
			rating = excluded.rating,
			reviews = excluded.reviews,
			pct_excellent = excluded.pct_excellent,
			pct_very_good = excluded.pct_very_good,
			pct_average = excluded.pct_average,
			pct_poor = excluded.pct_poor,
			pct_terrible = excluded.pct_terrible,
			address = excluded.address,
			postcode_city = excluded.postcode_city,
			postcode = excluded.postcode,
			city = excluded.city,
			country = excluded.country,
			phone = excluded.phone,
			lat = excluded.lat,
			lon = excluded.lon,
			run_id = excluded.run_id,
			updated_at = CURRENT_TIMESTAMP`

	insertCombined = `
		INSERT INTO attractions_combined (url, title, region, price, added, rating, reviews,
			pct_excellent, pct_very_good, pct_average, pct_poor, pct_terrible, categories, run_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
)

// SaveBatch upserts the three record sets of a run in one transaction and
// returns the number of rows written. On any failure nothing is kept.
func (s *Store) SaveBatch(ctx context.Context, runID uuid.UUID, ds models.Dataset) (total int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			total = 0
		}
	}()

	var attractions []models.Attraction
	if ds.Attractions != nil {
		attractions = ds.Attractions.Items()
	}
	run := runID.String()

	if _, err = tx.ExecContext(ctx, s.rebind(`INSERT INTO runs (id, categories, activities, attractions) VALUES ($1, $2, $3, $4)`),
		run, len(ds.Categories), len(ds.Activities), len(attractions)); err != nil {
		return 0, fmt.Errorf("insert run %s: %w", run, err)
	}

	n, err := s.execEach(ctx, tx, upsertCategory, len(ds.Categories), func(i int) (string, []any) {
		c := ds.Categories[i]
		return c.URL, []any{c.URL, c.Name, c.Region, c.Status, dateOrNil(c.Discovered), run}
	})
	total += n
	if err != nil {
		return 0, fmt.Errorf("insert category: %w", err)
	}

	n, err = s.execEach(ctx, tx, upsertActivity, len(ds.Activities), func(i int) (string, []any) {
		a := ds.Activities[i]
		return a.URL, []any{a.URL, a.CategoryURL, a.Title, a.Price, a.Region, a.Status, dateOrNil(a.Discovered), run}
	})
	total += n
	if err != nil {
		return 0, fmt.Errorf("insert activity: %w", err)
	}

	n, err = s.execEach(ctx, tx, upsertAttraction, len(attractions), func(i int) (string, []any) {
		a := attractions[i]
		return a.URL, []any{a.URL, a.ID, a.Status, a.Title, a.Rating, a.Reviews,
			a.PercentExcellent, a.PercentVeryGood, a.PercentAverage, a.PercentPoor, a.PercentTerrible,
			a.Address, a.PostcodeCity, a.Postcode, a.City, a.Country, a.Phone, a.Lat, a.Lon, run}
	})
	total += n
	if err != nil {
		return 0, fmt.Errorf("insert attraction: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return total, nil
}

// SaveCombined replaces the combined table with the rows of t. An empty
// table is refused with ErrEmptyTable and the stored rows are kept.
func (s *Store) SaveCombined(ctx context.Context, runID uuid.UUID, t dataset.Table) (err error) {
	if len(t.Rows) == 0 {
		return ErrEmptyTable
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM attractions_combined`); err != nil {
		return fmt.Errorf("clear combined table: %w", err)
	}

	run := runID.String()
	if _, err = s.execEach(ctx, tx, insertCombined, len(t.Rows), func(i int) (string, []any) {
		r := t.Rows[i]
		return r.URL, []any{r.URL, r.Title, r.Region, r.Price, dateOrNil(r.Added), r.Rating, r.Reviews,
			r.PercentExcellent, r.PercentVeryGood, r.PercentAverage, r.PercentPoor, r.PercentTerrible,
			memberOf(r, t.Categories), run}
	}); err != nil {
		return fmt.Errorf("insert combined row: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// execEach prepares query once and executes it for rows 0..n-1. Rows
// without a URL are skipped.
func (s *Store) execEach(ctx context.Context, tx *sql.Tx, query string, n int, args func(i int) (string, []any)) (int, error) {
	if n == 0 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx, s.rebind(query))
	if err != nil {
		return 0, fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	written := 0
	for i := 0; i < n; i++ {
		url, values := args(i)
		if url == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return written, fmt.Errorf("%q: %w", url, err)
		}
		written++
	}
	return written, nil
}

func dateOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.DateOnly)
}

func memberOf(r dataset.Row, categories []string) string {
	var in []string
	for _, c := range categories {
		if r.InCategory[c] {
			in = append(in, c)
		}
	}
	return strings.Join(in, ",")
}
