package scraper_test

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripadvisor-scraper/models"
	"tripadvisor-scraper/scraper"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractActivities(t *testing.T) {
	doc := parse(t, listingHTML("Rijksmuseum", "Van_Gogh_Museum"))

	got := scraper.ExtractActivities(doc, categoryURL, fixedNow)

	require.Len(t, got, 2)
	assert.Equal(t, models.Activity{
		Title:       "Rijksmuseum",
		Price:       10.5,
		URL:         "/Attraction_Review-g188553-d1000-Reviews-Rijksmuseum-North_Holland_Province.html",
		Discovered:  time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		Status:      models.StatusNew,
		Region:      "Noord-Holland",
		CategoryURL: categoryURL,
	}, got[0])
	assert.Equal(t, "Van Gogh Museum", got[1].Title)
}

func TestExtractActivitiesIsIdempotent(t *testing.T) {
	doc := parse(t, listingHTML("A", "B", "C"))

	first := scraper.ExtractActivities(doc, categoryURL, fixedNow)
	second := scraper.ExtractActivities(doc, categoryURL, fixedNow)

	assert.Equal(t, first, second)
}

func TestExtractActivitiesPlaceholders(t *testing.T) {
	doc := parse(t, `<html><body>
<div class="attraction_element"><span>No anchor here</span></div>
<div class="attraction_element"><a href="/Hotels-g1.html">hotel</a></div>
<div class="attraction_element"><a onclick="ta.go('/AttractionProductReview-g1-d2-Canal_Tour.html')">Canal tour</a></div>
</body></html>`)

	got := scraper.ExtractActivities(doc, "/Attractions-g1-Activities-Flevoland.html", fixedNow)

	require.Len(t, got, 3)
	assert.Equal(t, scraper.NoTitle, got[0].Title)
	assert.Equal(t, scraper.NoLink, got[0].URL)
	assert.Equal(t, -1.0, got[0].Price)
	assert.Equal(t, scraper.NoLink, got[1].URL)
	assert.Equal(t, "/AttractionProductReview-g1-d2-Canal_Tour.html", got[2].URL)
	assert.Equal(t, "Flevoland", got[2].Region)
}

func TestRegionFromURL(t *testing.T) {
	assert.Equal(t, "Noord-Holland", scraper.RegionFromURL("/Attractions-g188553-Activities-North_Holland_Province.html"))
	assert.Equal(t, "Flevoland", scraper.RegionFromURL("/Attractions-g1-Activities-Flevoland_Province.html"))
	assert.Equal(t, "", scraper.RegionFromURL("/Attractions-g1-Activities-Utrecht.html"))
}

func TestExtractFloat(t *testing.T) {
	for in, want := range map[string]float64{
		" 12,50 ":    12.5,
		"1.234,50":   1234.5,
		"1,234.50":   1234.5,
		"45":         45,
		"1.234.567":  1234567,
		"per person": -1,
	} {
		assert.Equal(t, want, scraper.ExtractFloat(in), in)
	}
}

func TestExtractCategories(t *testing.T) {
	doc := parse(t, `<html><body><ul>
<li class="attractions-attraction-filtered-main-index__listItem--3trCl"><a href="https://www.tripadvisor.com/Attractions-g188553-Activities-c49-North_Holland_Province.html"> Museums </a></li>
<li class="attractions-attraction-filtered-main-index__listItem--3trCl"><a href="/Attractions-g188553-Activities-c57-North_Holland_Province.html">Nature &amp; Parks</a></li>
</ul></body></html>`)

	got := scraper.ExtractCategories(doc, "/Attractions-g188553-Activities-North_Holland_Province.html", fixedNow)

	require.Len(t, got, 2)
	assert.Equal(t, "Museums", got[0].Name)
	assert.Equal(t, "/Attractions-g188553-Activities-c49-North_Holland_Province.html", got[0].URL)
	assert.Equal(t, "Nature & Parks", got[1].Name)
	assert.Equal(t, "Noord-Holland", got[1].Region)
	assert.Equal(t, models.StatusNew, got[1].Status)
}

func TestExtractCategoriesFallback(t *testing.T) {
	doc := parse(t, `<html><body>
<a href="/Attractions-g1-Activities-c26-Flevoland.html">Shopping</a>
<a href="/Restaurants-g1-Flevoland.html">Restaurants</a>
</body></html>`)

	got := scraper.ExtractCategories(doc, "/Attractions-g1-Activities-Flevoland.html", fixedNow)

	require.Len(t, got, 1)
	assert.Equal(t, "Shopping", got[0].Name)
}

const detailHTML = `<html><head>
<script type="application/ld+json">{"@context":"http://schema.org","@type":"BreadcrumbList"}</script>
<script type="application/ld+json">{
  "@context": "http://schema.org",
  "@type": "TouristAttraction",
  "name": "Rijksmuseum",
  "telephone": "+31 20 674 7000",
  "address": {"streetAddress": "Museumstraat 1", "postalCode": "1071 XX", "addressLocality": "Amsterdam", "addressCountry": {"name": "The Netherlands"}},
  "aggregateRating": {"ratingValue": "4.5", "reviewCount": 200},
  "geo": {"latitude": 52.36, "longitude": "4.885"}
}</script>
</head><body>
<h1> Rijksmuseum </h1>
<ul class="ratings_chart">
  <li class="ui_checkbox item"><label>Excellent</label><span class="row_num">120</span></li>
  <li class="ui_checkbox item"><label>Very good</label><span class="row_num">50</span></li>
  <li class="ui_checkbox item"><label>Average</label><span class="row_num">20</span></li>
  <li class="ui_checkbox item"><label>Poor</label><span class="row_num">6</span></li>
  <li class="ui_checkbox item"><label>Terrible</label><span class="row_num">4</span></li>
</ul>
</body></html>`

func TestExtractAttraction(t *testing.T) {
	const url = "/Attraction_Review-g188590-d190555-Reviews-Rijksmuseum-Amsterdam_North_Holland_Province.html"

	got, err := scraper.ExtractAttraction(parse(t, detailHTML), url)

	require.NoError(t, err)
	assert.Equal(t, models.Attraction{
		Status:           models.StatusNew,
		Title:            "Rijksmuseum",
		URL:              url,
		ID:               "190555",
		Rating:           4.5,
		Address:          "Museumstraat 1",
		PostcodeCity:     "1071 XX Amsterdam",
		Postcode:         "1071 XX",
		City:             "Amsterdam",
		Country:          "The Netherlands",
		Reviews:          200,
		PercentExcellent: 60,
		PercentVeryGood:  25,
		PercentAverage:   10,
		PercentPoor:      3,
		PercentTerrible:  2,
		Phone:            "+31 20 674 7000",
		Lat:              52.36,
		Lon:              4.885,
	}, got)
}

func TestExtractAttractionEmptyPage(t *testing.T) {
	_, err := scraper.ExtractAttraction(parse(t, `<html><body><div>Please verify you are human</div></body></html>`), "/Attraction_Review-g1-d2-Reviews-X.html")
	assert.ErrorIs(t, err, scraper.ErrEmptyDetail)
}

func TestExtractActivitiesSkipsNestedCards(t *testing.T) {
	doc := parse(t, `<html><body>
<div class="attraction_element"><div class="attractions-ap-product-card-ProductCard__productCard--x1"><div class="listing_title">`+
		`<a href="/Attraction_Review-g188553-d7-Reviews-Zaanse_Schans-North_Holland_Province.html">Zaanse Schans</a></div></div></div>
</body></html>`)

	got := scraper.ExtractActivities(doc, categoryURL, fixedNow)

	require.Len(t, got, 1)
	assert.Equal(t, "Zaanse Schans", got[0].Title)
}
