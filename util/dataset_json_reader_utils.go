package util

import (
	"encoding/json"
	"fmt"
	"os"

	"place-server/models"
)

func readJSON(filePath, what string, v interface{}) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", what, err)
	}
	return nil
}

// ReadEventCollectionFromJSON loads an event file keyed by "events" or "arrangementer".
func ReadEventCollectionFromJSON(filePath string) (*models.EventCollection, error) {
	var c models.EventCollection
	if err := readJSON(filePath, "EventCollection", &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ReadPlaceAnalysisFromJSON loads a place analysis document.
func ReadPlaceAnalysisFromJSON(filePath string) (*models.PlaceAnalysis, error) {
	var a models.PlaceAnalysis
	if err := readJSON(filePath, "PlaceAnalysis", &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ReadQuarterlyDataFromJSON loads a quarterly transaction series.
func ReadQuarterlyDataFromJSON(filePath string) (*models.QuarterlyData, error) {
	var q models.QuarterlyData
	if err := readJSON(filePath, "QuarterlyData", &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ReadDailyCategoryDataFromJSON loads the per-quarter daily category breakdown.
func ReadDailyCategoryDataFromJSON(filePath string) (*models.DailyCategoryData, error) {
	var d models.DailyCategoryData
	if err := readJSON(filePath, "DailyCategoryData", &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReadAktorDataFromJSON loads the actor ranking of one area.
func ReadAktorDataFromJSON(filePath string) (*models.AktorData, error) {
	var a models.AktorData
	if err := readJSON(filePath, "AktorData", &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ReadCombinedAreaDataFromJSON loads the area comparison file.
func ReadCombinedAreaDataFromJSON(filePath string) (*models.CombinedAreaData, error) {
	var c models.CombinedAreaData
	if err := readJSON(filePath, "CombinedAreaData", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
