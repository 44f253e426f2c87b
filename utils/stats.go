package utils

import (
	"sort"
	"strings"

	"tripadvisor-scraper/models"
)

type CategoryCount struct {
	Category string
	Count    int
}

type SummaryStats struct {
	TotalCategories  int
	TotalActivities  int
	TotalAttractions int
	// AverageRating is taken over attractions that have a rating.
	AverageRating         float64
	MostReviewed          models.Attraction
	ActivitiesPerCategory []CategoryCount
	TopRatedAttractions   []models.Attraction
}

func BuildSummaryStats(ds models.Dataset) SummaryStats {
	var all []models.Attraction
	if ds.Attractions != nil {
		all = ds.Attractions.Items()
	}

	stats := SummaryStats{
		TotalCategories:  len(ds.Categories),
		TotalActivities:  len(ds.Activities),
		TotalAttractions: len(all),
	}

	names := make(map[string]string, len(ds.Categories))
	for _, c := range ds.Categories {
		names[c.URL] = c.Name
	}
	categoryCounts := make(map[string]int)
	for _, a := range ds.Activities {
		name := strings.TrimSpace(names[a.CategoryURL])
		if name == "" {
			name = "Unknown"
		}
		categoryCounts[name]++
	}
	perCategory := make([]CategoryCount, 0, len(categoryCounts))
	for name, count := range categoryCounts {
		perCategory = append(perCategory, CategoryCount{Category: name, Count: count})
	}
	sort.Slice(perCategory, func(i, j int) bool {
		if perCategory[i].Count == perCategory[j].Count {
			return perCategory[i].Category < perCategory[j].Category
		}
		return perCategory[i].Count > perCategory[j].Count
	})
	stats.ActivitiesPerCategory = perCategory

	if len(all) == 0 {
		return stats
	}

	var ratingSum float64
	rated := 0
	stats.MostReviewed = all[0]
	for _, a := range all {
		if a.Rating > 0 {
			ratingSum += a.Rating
			rated++
		}
		if a.Reviews > stats.MostReviewed.Reviews {
			stats.MostReviewed = a
		}
	}
	if rated > 0 {
		stats.AverageRating = ratingSum / float64(rated)
	}

	topRated := make([]models.Attraction, len(all))
	copy(topRated, all)
	sort.SliceStable(topRated, func(i, j int) bool {
		if topRated[i].Rating == topRated[j].Rating {
			return topRated[i].Reviews > topRated[j].Reviews
		}
		return topRated[i].Rating > topRated[j].Rating
	})
	if len(topRated) > 5 {
		topRated = topRated[:5]
	}
	stats.TopRatedAttractions = topRated

	return stats
}
