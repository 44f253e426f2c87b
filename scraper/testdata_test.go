package scraper_test

import (
	"fmt"
	"strings"

	"tripadvisor-scraper/browser/browsertest"
	"tripadvisor-scraper/scraper"
)

// listingHTML renders a category page holding one product card per slug.
func listingHTML(slugs ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="results">`)
	for i, slug := range slugs {
		fmt.Fprintf(&b, `
<div class="attractions-ap-product-card-ProductCard__productCard--1x2yz">
	<div class="listing_title"><a href="/Attraction_Review-g188553-d%d-Reviews-%s-North_Holland_Province.html">%s</a></div>
	<div class="attractions-ap-product-card-Attributes__priceFrom--2jhVp">from €%d,50</div>
</div>`, 1000+i, slug, strings.ReplaceAll(slug, "_", " "), 10+i)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// listingPages builds a pagination sequence: every page but the last
// carries an enabled next control, the last carries the disabled marker.
func listingPages(pages ...[]string) []browsertest.Document {
	docs := make([]browsertest.Document, len(pages))
	for i, slugs := range pages {
		docs[i] = browsertest.Document{HTML: listingHTML(slugs...)}
		if i < len(pages)-1 {
			docs[i].Present = []string{scraper.NextButtonSecondary}
		} else {
			docs[i].Present = []string{scraper.NextButtonDisabled}
		}
	}
	return docs
}
