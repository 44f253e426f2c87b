package scraper

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tripadvisor-scraper/models"
)

// ErrEmptyDetail means the detail page carried neither a title nor
// structured data, usually a bot challenge or an unrendered page.
var ErrEmptyDetail = errors.New("attraction page has no content")

var (
	attractionIDRe = regexp.MustCompile(`-d(\d+)-`)
	digitsRe       = regexp.MustCompile(`[\d.,]+`)
)

// flexFloat accepts JSON numbers and numeric strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	*f = flexFloat(v)
	return nil
}

type ldAddress struct {
	StreetAddress   string          `json:"streetAddress"`
	PostalCode      string          `json:"postalCode"`
	AddressLocality string          `json:"addressLocality"`
	AddressCountry  json.RawMessage `json:"addressCountry"`
}

type ldPlace struct {
	Name            string    `json:"name"`
	Telephone       string    `json:"telephone"`
	Address         ldAddress `json:"address"`
	AggregateRating struct {
		RatingValue flexFloat `json:"ratingValue"`
		ReviewCount flexFloat `json:"reviewCount"`
	} `json:"aggregateRating"`
	Geo struct {
		Latitude  flexFloat `json:"latitude"`
		Longitude flexFloat `json:"longitude"`
	} `json:"geo"`
}

func (p ldPlace) useful() bool {
	return p.Name != "" || p.Address.StreetAddress != "" || p.AggregateRating.RatingValue > 0
}

func (a ldAddress) country() string {
	if len(a.AddressCountry) == 0 {
		return ""
	}
	var name string
	if json.Unmarshal(a.AddressCountry, &name) == nil {
		return name
	}
	var obj struct {
		Name string `json:"name"`
	}
	_ = json.Unmarshal(a.AddressCountry, &obj)
	return obj.Name
}

// ExtractAttraction parses a rendered attraction detail page. Missing
// fields keep their zero value; ErrEmptyDetail is returned only when the
// page has nothing to extract.
func ExtractAttraction(doc *goquery.Document, pageURL string) (models.Attraction, error) {
	a := models.Attraction{
		Status: models.StatusNew,
		URL:    pageURL,
		ID:     AttractionID(pageURL),
	}

	place, found := findPlace(doc)
	title := collapse(doc.Find(TitleSelector).First().Text())
	if !found && title == "" {
		return a, ErrEmptyDetail
	}

	a.Title = title
	if a.Title == "" {
		a.Title = place.Name
	}
	a.Rating = float64(place.AggregateRating.RatingValue)
	a.Reviews = int(place.AggregateRating.ReviewCount)
	a.Address = place.Address.StreetAddress
	a.Postcode = strings.TrimSpace(place.Address.PostalCode)
	a.City = strings.TrimSpace(place.Address.AddressLocality)
	a.PostcodeCity = strings.TrimSpace(a.Postcode + " " + a.City)
	a.Country = place.Address.country()
	a.Phone = place.Telephone
	a.Lat = float64(place.Geo.Latitude)
	a.Lon = float64(place.Geo.Longitude)

	counts := histogram(doc)
	if len(counts) == 5 {
		total := 0
		for _, c := range counts {
			total += c
		}
		if a.Reviews == 0 {
			a.Reviews = total
		}
		if total > 0 {
			pct := func(c int) float64 { return math.Round(float64(c)*10000/float64(total)) / 100 }
			a.PercentExcellent = pct(counts[0])
			a.PercentVeryGood = pct(counts[1])
			a.PercentAverage = pct(counts[2])
			a.PercentPoor = pct(counts[3])
			a.PercentTerrible = pct(counts[4])
		}
	}
	return a, nil
}

// AttractionID returns the numeric TripAdvisor id embedded in a URL.
func AttractionID(u string) string {
	m := attractionIDRe.FindStringSubmatch(u)
	if m == nil {
		return ""
	}
	return m[1]
}

func findPlace(doc *goquery.Document) (ldPlace, bool) {
	var (
		place ldPlace
		found bool
	)
	doc.Find(LDJSONSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, p := range decodePlaces([]byte(s.Text())) {
			if p.useful() {
				place, found = p, true
				return false
			}
		}
		return true
	})
	return place, found
}

func decodePlaces(raw []byte) []ldPlace {
	var one struct {
		ldPlace
		Graph []ldPlace `json:"@graph"`
	}
	if err := json.Unmarshal(raw, &one); err == nil {
		return append([]ldPlace{one.ldPlace}, one.Graph...)
	}
	var many []ldPlace
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

// histogram reads the review counts per rating bucket, best first.
func histogram(doc *goquery.Document) []int {
	var counts []int
	doc.Find(HistogramSelector).Each(func(_ int, row *goquery.Selection) {
		text := row.Find(HistogramCountPart).Last().Text()
		if text == "" {
			text = row.Text()
		}
		m := digitsRe.FindAllString(text, -1)
		if len(m) == 0 {
			return
		}
		n, err := strconv.Atoi(strings.NewReplacer(".", "", ",", "").Replace(m[len(m)-1]))
		if err != nil {
			return
		}
		counts = append(counts, n)
	})
	return counts
}
