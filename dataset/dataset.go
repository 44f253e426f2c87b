// Package dataset combines the three crawl record sets into one table with
// a column per category.
package dataset

import (
	"sort"
	"time"

	"tripadvisor-scraper/models"
)

// Joined is one attraction paired with one activity that listed it and
// that activity's category. Activity and Category are zero when the join
// found nothing.
type Joined struct {
	Attraction models.Attraction
	Activity   models.Activity
	Category   models.Category
}

// Row is one attraction with its category membership.
type Row struct {
	models.Attraction
	ActivityTitle string
	Price         float64
	Region        string
	Added         time.Time
	InCategory    map[string]bool
}

// Table is the pivoted dataset. Categories holds the category column names
// in sorted order.
type Table struct {
	Categories []string
	Rows       []Row
}

// Merge left joins attractions to activities on URL, then activities to
// categories on category URL. An attraction listed by n activities yields n
// rows.
func Merge(categories []models.Category, activities []models.Activity, attractions []models.Attraction) []Joined {
	byCategory := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		if _, ok := byCategory[c.URL]; !ok {
			byCategory[c.URL] = c
		}
	}
	byURL := make(map[string][]models.Activity)
	for _, a := range activities {
		byURL[a.URL] = append(byURL[a.URL], a)
	}

	var out []Joined
	for _, at := range attractions {
		listed := byURL[at.URL]
		if len(listed) == 0 {
			out = append(out, Joined{Attraction: at})
			continue
		}
		for _, act := range listed {
			out = append(out, Joined{
				Attraction: at,
				Activity:   act,
				Category:   byCategory[act.CategoryURL],
			})
		}
	}
	return out
}

// Pivot groups joined rows by attraction URL. Each category name becomes a
// boolean column; added date, review count and rating percentages take the
// maximum over the group, other fields come from the first row.
func Pivot(joined []Joined) Table {
	var t Table
	index := make(map[string]int)
	columns := make(map[string]bool)

	for _, j := range joined {
		i, ok := index[j.Attraction.URL]
		if !ok {
			i = len(t.Rows)
			index[j.Attraction.URL] = i
			t.Rows = append(t.Rows, Row{
				Attraction:    j.Attraction,
				ActivityTitle: j.Activity.Title,
				Price:         j.Activity.Price,
				Region:        j.Activity.Region,
				Added:         j.Activity.Discovered,
				InCategory:    make(map[string]bool),
			})
		}
		row := &t.Rows[i]

		if j.Category.Name != "" {
			row.InCategory[j.Category.Name] = true
			columns[j.Category.Name] = true
		}
		if row.Region == "" {
			row.Region = j.Activity.Region
		}
		if j.Activity.Discovered.After(row.Added) {
			row.Added = j.Activity.Discovered
		}
		row.Reviews = max(row.Reviews, j.Attraction.Reviews)
		row.PercentExcellent = max(row.PercentExcellent, j.Attraction.PercentExcellent)
		row.PercentVeryGood = max(row.PercentVeryGood, j.Attraction.PercentVeryGood)
		row.PercentAverage = max(row.PercentAverage, j.Attraction.PercentAverage)
		row.PercentPoor = max(row.PercentPoor, j.Attraction.PercentPoor)
		row.PercentTerrible = max(row.PercentTerrible, j.Attraction.PercentTerrible)
	}

	for name := range columns {
		t.Categories = append(t.Categories, name)
	}
	sort.Strings(t.Categories)
	return t
}

// Build merges and pivots a crawl result.
func Build(ds models.Dataset) Table {
	var attractions []models.Attraction
	if ds.Attractions != nil {
		attractions = ds.Attractions.Items()
	}
	return Pivot(Merge(ds.Categories, ds.Activities, attractions))
}
