package models

// TimePeriod is the period a place analysis covers.
type TimePeriod struct {
	Type      string `json:"type"`
	Month     int    `json:"month,omitempty"`
	Year      int    `json:"year"`
	Quarter   int    `json:"quarter,omitempty"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Label     string `json:"label"`
}

// AnalysisMetadata holds the editorial metadata of an analysis.
type AnalysisMetadata struct {
	Opprettet     string   `json:"opprettet"`
	SistOppdatert string   `json:"sistOppdatert"`
	Status        string   `json:"status"`
	Versjon       int      `json:"versjon"`
	Forfatter     string   `json:"forfatter,omitempty"`
	Kilde         []string `json:"kilde"`
}

// PlaceAnalysis is the report document of one page. Only the fields the
// server computes on are modeled; the rest is passed through by the renderer.
type PlaceAnalysis struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	AnalysisType string           `json:"analysisType"`
	Period       TimePeriod       `json:"period"`
	Events       []EventReference `json:"events,omitempty"`
	Metadata     AnalysisMetadata `json:"metadata"`
}
