package scraper

import (
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tripadvisor-scraper/models"
)

// ExtractCategories parses the category filter list of a region's
// attractions overview page. Pages without the list fall back to any
// category-filtered link.
func ExtractCategories(doc *goquery.Document, pageURL string, now time.Time) []models.Category {
	region := RegionFromURL(pageURL)
	day := truncateDay(now)

	links := doc.Find("." + CategoryItemClass + " a[href]")
	if links.Length() == 0 {
		links = doc.Find(CategoryLinkFallback)
	}

	var out []models.Category
	links.Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		path := RelativePath(href)
		if path == "" {
			return
		}
		name := collapse(a.Text())
		if name == "" {
			name = NoTitle
		}
		out = append(out, models.Category{
			Name:       name,
			URL:        path,
			Discovered: day,
			Status:     models.StatusNew,
			Region:     region,
		})
	})
	return out
}

// RelativePath strips scheme and host so links compare equal whether the
// page rendered them absolute or relative.
func RelativePath(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Path == "" {
		return ""
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
