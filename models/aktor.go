package models

import (
	"encoding/json"
	"fmt"
)

// Aktor is one ranked business in an area. Revenue (Omsetning) is in
// millions, YoyVekst and Markedsandel are percentages.
type Aktor struct {
	Rank         string  `json:"rank"`
	Navn         string  `json:"navn"`
	Type         string  `json:"type"`
	Adresse      string  `json:"adresse,omitempty"`
	Kommune      string  `json:"kommune,omitempty"`
	Omsetning    float64 `json:"omsetning"`
	OmsetningRaw string  `json:"omsetning_raw,omitempty"`
	YoyVekst     float64 `json:"yoy_vekst"`
	Ansatte      int     `json:"ansatte"`
	AnsatteRaw   string  `json:"ansatte_raw,omitempty"`
	Markedsandel float64 `json:"markedsandel"`
}

// UnmarshalJSON custom unmarshaler so numeric columns exported as strings or
// nulls read as numbers (missing becomes 0) and a numeric rank reads as "#N".
func (a *Aktor) UnmarshalJSON(data []byte) error {
	// Create an alias to avoid infinite recursion.
	type Alias Aktor
	aux := &struct {
		Rank         interface{} `json:"rank"`
		Omsetning    interface{} `json:"omsetning"`
		YoyVekst     interface{} `json:"yoy_vekst"`
		Ansatte      interface{} `json:"ansatte"`
		Markedsandel interface{} `json:"markedsandel"`
		*Alias
	}{
		Alias: (*Alias)(a),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	switch val := aux.Rank.(type) {
	case string:
		a.Rank = val
	case float64:
		a.Rank = fmt.Sprintf("#%d", int(val))
	default:
		a.Rank = ""
	}

	a.Omsetning = looseFloat(aux.Omsetning)
	a.YoyVekst = looseFloat(aux.YoyVekst)
	a.Ansatte = int(looseFloat(aux.Ansatte))
	a.Markedsandel = looseFloat(aux.Markedsandel)
	return nil
}

// CategoryStats summarizes the actors of one category.
type CategoryStats struct {
	Count     int     `json:"count"`
	Omsetning float64 `json:"omsetning"`
	Ansatte   int     `json:"ansatte"`
}

// AktorMetadata summarizes an actor file.
type AktorMetadata struct {
	Area           string  `json:"area,omitempty"`
	TotalActors    int     `json:"totalActors"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalEmployees int     `json:"totalEmployees"`
}

// AktorData is the top-level actor ranking file of one area.
type AktorData struct {
	Metadata      AktorMetadata            `json:"metadata"`
	Actors        []Aktor                  `json:"actors"`
	CategoryStats map[string]CategoryStats `json:"categoryStats"`
}

// AreaStats is one area's line in the area comparison file.
type AreaStats struct {
	DisplayName    string  `json:"displayName"`
	Color          string  `json:"color"`
	TotalActors    int     `json:"totalActors"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalEmployees int     `json:"totalEmployees"`
}

// CombinedAreaMetadata sums the area comparison.
type CombinedAreaMetadata struct {
	TotalAreas     int     `json:"totalAreas"`
	TotalActors    int     `json:"totalActors"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalEmployees int     `json:"totalEmployees"`
}

// CombinedAreaData is the area comparison file.
type CombinedAreaData struct {
	Metadata CombinedAreaMetadata `json:"metadata"`
	Areas    map[string]AreaStats `json:"areas"`
}
