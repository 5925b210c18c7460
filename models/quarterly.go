package models

// QuarterlyDataPoint is one quarter of bank transaction volume. An Amount of
// zero marks a placeholder row that has not been filled in yet.
type QuarterlyDataPoint struct {
	Year               int     `json:"year"`
	Quarter            int     `json:"quarter"`
	QuarterLabel       string  `json:"quarterLabel"`
	Amount             float64 `json:"amount"`
	TransactionCount   int     `json:"transactionCount,omitempty"`
	AverageTransaction float64 `json:"averageTransaction,omitempty"`
	Note               string  `json:"note,omitempty"`
}

// QuarterlyMetadata describes a quarterly series file.
type QuarterlyMetadata struct {
	Title       string   `json:"title"`
	Period      string   `json:"period"`
	Area        string   `json:"area"`
	Currency    string   `json:"currency"`
	DataSource  string   `json:"dataSource"`
	LastUpdated string   `json:"lastUpdated"`
	Notes       []string `json:"notes,omitempty"`
}

// QuarterlyData is the top-level quarterly series file.
type QuarterlyData struct {
	Metadata QuarterlyMetadata    `json:"metadata"`
	Data     []QuarterlyDataPoint `json:"data"`
}

// CategoryDay is one day of revenue split into tenant categories.
type CategoryDay struct {
	Date             string  `json:"date"`
	Handel           float64 `json:"handel"`
	MatOgOpplevelser float64 `json:"matOgOpplevelser"`
	Tjenester        float64 `json:"tjenester"`
	Total            float64 `json:"total"`
	FormattedDate    string  `json:"formattedDate"`
}

// DailyCategoryData holds category days keyed by "Q<n>_<year>".
type DailyCategoryData struct {
	Quarters map[string][]CategoryDay `json:"quarters"`
}
