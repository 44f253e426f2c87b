package utils

import (
	"encoding/json"
	"os"

	"tripadvisor-scraper/models"
)

type snapshot struct {
	RunID       string              `json:"run_id"`
	Categories  []models.Category   `json:"categories"`
	Activities  []models.Activity   `json:"activities"`
	Attractions []models.Attraction `json:"attractions"`
}

// WriteJSON writes the raw records of a run to filename. It returns the
// number of attractions written.
func WriteJSON(filename, runID string, ds models.Dataset) (int, error) {
	snap := snapshot{
		RunID:       runID,
		Categories:  ds.Categories,
		Activities:  ds.Activities,
		Attractions: make([]models.Attraction, 0),
	}
	if ds.Attractions != nil {
		snap.Attractions = ds.Attractions.Items()
	}

	f, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return 0, err
	}

	return len(snap.Attractions), nil
}
