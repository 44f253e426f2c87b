package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tripadvisor-scraper/models"
)

var (
	attractionLinkRe = regexp.MustCompile(`(?i)[^*.]?(/Attraction[\w+-]+\.html)`)
	numberRe         = regexp.MustCompile(`\d+(?:[.,]\d+)*`)
)

// regions maps a URL fragment to the province name stored with a record.
var regions = []struct{ fragment, name string }{
	{"North_Holland", "Noord-Holland"},
	{"Flevoland", "Flevoland"},
}

// RegionFromURL derives the province tag from a TripAdvisor URL, or "".
func RegionFromURL(u string) string {
	for _, r := range regions {
		if strings.Contains(u, r.fragment) {
			return r.name
		}
	}
	return ""
}

// StripLink pulls the /Attraction...html path out of an href or an onclick
// handler.
func StripLink(raw string) (string, bool) {
	m := attractionLinkRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractActivities parses every product card on a category listing page.
// Parsing the same document twice yields the same records.
func ExtractActivities(doc *goquery.Document, categoryURL string, now time.Time) []models.Activity {
	region := RegionFromURL(categoryURL)
	day := truncateDay(now)

	var out []models.Activity
	doc.Find("div").Each(func(_ int, card *goquery.Selection) {
		if !isActivityCard(card) || insideCard(card) {
			return
		}
		out = append(out, models.Activity{
			Title:       cardTitle(card),
			Price:       cardPrice(card),
			URL:         cardLink(card),
			Discovered:  day,
			Status:      models.StatusNew,
			Region:      region,
			CategoryURL: categoryURL,
		})
	})
	return out
}

func isActivityCard(s *goquery.Selection) bool {
	class, _ := s.Attr("class")
	for _, c := range strings.Fields(class) {
		if c == AttractionElement || strings.HasPrefix(c, ProductCardPrefix) {
			return true
		}
	}
	return false
}

// insideCard reports whether s is nested in another card, which then owns
// its fields.
func insideCard(s *goquery.Selection) bool {
	return s.ParentsFiltered("div").FilterFunction(func(_ int, p *goquery.Selection) bool {
		return isActivityCard(p)
	}).Length() > 0
}

func cardTitle(card *goquery.Selection) string {
	if card.Find("a").Length() == 0 {
		return NoTitle
	}
	if t := collapse(card.Find(".listing_title a").First().Text()); t != "" {
		return t
	}
	return collapse(card.Text())
}

func cardLink(card *goquery.Selection) string {
	a := card.Find("a").First()
	if a.Length() == 0 {
		return NoLink
	}
	for _, attr := range []string{"href", "onclick"} {
		if v, ok := a.Attr(attr); ok {
			if link, ok := StripLink(v); ok {
				return link
			}
		}
	}
	return NoLink
}

func cardPrice(card *goquery.Selection) float64 {
	price := card.Find("div." + PriceFromClass).First()
	if price.Length() == 0 {
		return -1
	}
	parts := strings.SplitN(price.Text(), "€", 2)
	if len(parts) < 2 {
		return -1
	}
	return ExtractFloat(parts[1])
}

// ExtractFloat parses the first number in s. When both separators occur
// the last one is the decimal point; a separator repeated on its own is a
// thousands separator. It returns -1 when s has no number.
func ExtractFloat(s string) float64 {
	m := numberRe.FindString(s)
	if m == "" {
		return -1
	}
	dots, commas := strings.Count(m, "."), strings.Count(m, ",")
	switch {
	case dots > 0 && commas > 0:
		last := strings.LastIndexAny(m, ".,")
		m = strings.NewReplacer(".", "", ",", "").Replace(m[:last]) + "." + m[last+1:]
	case dots > 1:
		m = strings.ReplaceAll(m, ".", "")
	case commas > 1:
		m = strings.ReplaceAll(m, ",", "")
	case commas == 1:
		m = strings.Replace(m, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return -1
	}
	return f
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
