package scraper

// XPath locators for the pagination controls. Listing pages ship one of two
// enabled "next" variants, or a disabled span on the last page.
const (
	NextButtonPrimary   = `//a[@class='nav next rndBtn ui_button primary taLnk']`
	NextButtonSecondary = `//a[@class='ui_button nav next primary ']`
	NextButtonDisabled  = `//span[@class='ui_button nav next primary disabled']`
)

// CSS selectors used by the extraction adapters.
const (
	// Region overview page
	CategoryItemClass    = "attractions-attraction-filtered-main-index__listItem--3trCl"
	CategoryLinkFallback = `a[href*="-Activities-c"]`

	// Category listing page
	ProductCardPrefix = "attractions-ap-product-card-ProductCard__productCard"
	AttractionElement = "attraction_element"
	PriceFromClass    = "attractions-ap-product-card-Attributes__priceFrom--2jhVp"

	// Attraction detail page
	LDJSONSelector     = `script[type="application/ld+json"]`
	TitleSelector      = `h1`
	HistogramSelector  = `[data-test-target="review-rating-filter"] li, .ratings_chart .row, li.ui_checkbox.item`
	HistogramCountPart = `.row_count, .row_num, span:last-child`
)

// Placeholders substituted when an expected element is missing.
const (
	NoLink  = "NO LINK FOUND"
	NoTitle = "< NO TITLE >"
)

// AttractionPathPrefix marks links that point at an attraction detail page.
const AttractionPathPrefix = "/Attraction_Review"
