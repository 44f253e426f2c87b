package models

import "time"

// StatusNew tags every record discovered during a run.
const StatusNew = "NEW"

// Category is one attraction category found on a region overview page.
type Category struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Discovered time.Time `json:"discovered"`
	Status     string    `json:"status"`
	Region     string    `json:"region"`
}

// Activity is one listing card on a category page.
type Activity struct {
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	URL         string    `json:"url"`
	Discovered  time.Time `json:"discovered"`
	Status      string    `json:"status"`
	Region      string    `json:"region"`
	CategoryURL string    `json:"category_url"`
}

// Attraction holds the detail page data for a single attraction.
// URL is the natural key.
type Attraction struct {
	Status           string  `json:"status"`
	Title            string  `json:"title"`
	URL              string  `json:"url"`
	ID               string  `json:"id"`
	Rating           float64 `json:"rating"`
	Address          string  `json:"address"`
	PostcodeCity     string  `json:"postcode_city"`
	Postcode         string  `json:"postcode"`
	City             string  `json:"city"`
	Country          string  `json:"country"`
	Reviews          int     `json:"reviews"`
	PercentExcellent float64 `json:"percent_excellent"`
	PercentVeryGood  float64 `json:"percent_very_good"`
	PercentAverage   float64 `json:"percent_average"`
	PercentPoor      float64 `json:"percent_poor"`
	PercentTerrible  float64 `json:"percent_terrible"`
	Phone            string  `json:"phone"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
}

// Dataset is the handoff from the crawl to the dataset assembler.
type Dataset struct {
	Categories  []Category
	Activities  []Activity
	Attractions *AttractionSet
}
