package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// FileTimeLayout stamps export file names (day-month-year hourminute).
const FileTimeLayout = "02-01-2006 1504"

var baseColumns = []string{
	"url", "id", "status", "title", "activity_title", "price", "region", "added",
	"rating", "reviews", "excellent", "very_good", "average", "poor", "terrible",
	"address", "postcode_city", "postcode", "city", "country", "phone", "lat", "lon",
}

// FileName returns the export file name for a run finished at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("attractions %s.csv", now.Format(FileTimeLayout))
}

// WriteCSV writes t as a semicolon separated file in dir and returns its
// path.
func WriteCSV(dir string, t Table, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results dir: %w", err)
	}
	path := filepath.Join(dir, FileName(now))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(append(append([]string{}, baseColumns...), t.Categories...)); err != nil {
		return "", err
	}
	for _, r := range t.Rows {
		if err := w.Write(record(r, t.Categories)); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return path, f.Close()
}

func record(r Row, categories []string) []string {
	added := ""
	if !r.Added.IsZero() {
		added = r.Added.Format(time.DateOnly)
	}
	rec := []string{
		r.URL, r.ID, r.Status, r.Title, r.ActivityTitle, formatFloat(r.Price), r.Region, added,
		formatFloat(r.Rating), strconv.Itoa(r.Reviews),
		formatFloat(r.PercentExcellent), formatFloat(r.PercentVeryGood), formatFloat(r.PercentAverage),
		formatFloat(r.PercentPoor), formatFloat(r.PercentTerrible),
		r.Address, r.PostcodeCity, r.Postcode, r.City, r.Country, r.Phone,
		formatFloat(r.Lat), formatFloat(r.Lon),
	}
	for _, c := range categories {
		rec = append(rec, strconv.FormatBool(r.InCategory[c]))
	}
	return rec
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
