package utils_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripadvisor-scraper/models"
	"tripadvisor-scraper/utils"
)

func sample() models.Dataset {
	set := models.NewAttractionSet()
	for _, a := range []models.Attraction{
		{URL: "/a", Title: "A", Rating: 4.5, Reviews: 10},
		{URL: "/b", Title: "B", Rating: 5, Reviews: 3},
		{URL: "/c", Title: "C", Rating: 4.5, Reviews: 300},
		{URL: "/d", Title: "D"},
	} {
		set.Add(a)
	}
	return models.Dataset{
		Categories: []models.Category{{Name: "Museums", URL: "/museums"}, {Name: "Parks", URL: "/parks"}},
		Activities: []models.Activity{
			{URL: "/a", CategoryURL: "/museums"},
			{URL: "/c", CategoryURL: "/museums"},
			{URL: "/b", CategoryURL: "/parks"},
			{URL: "/x", CategoryURL: "/gone"},
		},
		Attractions: set,
	}
}

func TestBuildSummaryStats(t *testing.T) {
	stats := utils.BuildSummaryStats(sample())

	assert.Equal(t, 2, stats.TotalCategories)
	assert.Equal(t, 4, stats.TotalActivities)
	assert.Equal(t, 4, stats.TotalAttractions)
	assert.InDelta(t, 14.0/3, stats.AverageRating, 1e-9)
	assert.Equal(t, "C", stats.MostReviewed.Title)
	assert.Equal(t, []utils.CategoryCount{
		{Category: "Museums", Count: 2},
		{Category: "Parks", Count: 1},
		{Category: "Unknown", Count: 1},
	}, stats.ActivitiesPerCategory)

	var top []string
	for _, a := range stats.TopRatedAttractions {
		top = append(top, a.Title)
	}
	assert.Equal(t, []string{"B", "C", "A", "D"}, top)
}

func TestBuildSummaryStatsEmpty(t *testing.T) {
	stats := utils.BuildSummaryStats(models.Dataset{})
	assert.Zero(t, stats.TotalAttractions)
	assert.Empty(t, stats.TopRatedAttractions)
	assert.Empty(t, stats.ActivitiesPerCategory)
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")

	n, err := utils.WriteJSON(path, "run-1", sample())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got struct {
		RunID       string              `json:"run_id"`
		Attractions []models.Attraction `json:"attractions"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Len(t, got.Attractions, 4)
	assert.Equal(t, "/a", got.Attractions[0].URL)
}
