package services

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"place-server/api"
	"place-server/config"
	"place-server/models"
	"place-server/util"
)

// DatasetSource loads the static JSON snapshots the reports are built from.
// An empty area selects the default actor file.
type DatasetSource interface {
	Events(ctx context.Context) (*models.EventCollection, error)
	PlaceAnalysis(ctx context.Context) (*models.PlaceAnalysis, error)
	Quarterly(ctx context.Context) (*models.QuarterlyData, error)
	DailyCategories(ctx context.Context) (*models.DailyCategoryData, error)
	Actors(ctx context.Context, area string) (*models.AktorData, error)
	Areas(ctx context.Context) (*models.CombinedAreaData, error)
}

var areaPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// ValidateArea accepts lower-case area keys such as "grunerlokka" or
// "bjorvika-sorenga".
func ValidateArea(area string) error {
	if area != "" && !areaPattern.MatchString(area) {
		return fmt.Errorf("invalid area %q", area)
	}
	return nil
}

func actorsResource(area string) string {
	if area == "" {
		return config.ACTORS_RESOURCE
	}
	return config.AreaActorsResource(area)
}

// FileSource reads datasets from a directory.
type FileSource struct {
	dir string
}

func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

func (fs *FileSource) path(resource string) string {
	return filepath.Join(fs.dir, resource)
}

func (fs *FileSource) Events(ctx context.Context) (*models.EventCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return util.ReadEventCollectionFromJSON(fs.path(config.EVENTS_RESOURCE))
}

func (fs *FileSource) PlaceAnalysis(ctx context.Context) (*models.PlaceAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return util.ReadPlaceAnalysisFromJSON(fs.path(config.PLACE_ANALYSIS_RESOURCE))
}

func (fs *FileSource) Quarterly(ctx context.Context) (*models.QuarterlyData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return util.ReadQuarterlyDataFromJSON(fs.path(config.QUARTERLY_RESOURCE))
}

func (fs *FileSource) DailyCategories(ctx context.Context) (*models.DailyCategoryData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return util.ReadDailyCategoryDataFromJSON(fs.path(config.DAILY_CATEGORIES_RESOURCE))
}

func (fs *FileSource) Actors(ctx context.Context, area string) (*models.AktorData, error) {
	if err := ValidateArea(area); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return util.ReadAktorDataFromJSON(fs.path(actorsResource(area)))
}

func (fs *FileSource) Areas(ctx context.Context) (*models.CombinedAreaData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return util.ReadCombinedAreaDataFromJSON(fs.path(config.AREAS_RESOURCE))
}

// HTTPSource fetches datasets from a static file host.
type HTTPSource struct {
	client *api.HTTPClient
}

func NewHTTPSource(client *api.HTTPClient) *HTTPSource {
	return &HTTPSource{client: client}
}

func (hs *HTTPSource) get(ctx context.Context, resource string, out interface{}) error {
	if err := hs.client.GetJSON(ctx, "/"+resource, out); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", resource, err)
	}
	return nil
}

func (hs *HTTPSource) Events(ctx context.Context) (*models.EventCollection, error) {
	var c models.EventCollection
	if err := hs.get(ctx, config.EVENTS_RESOURCE, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (hs *HTTPSource) PlaceAnalysis(ctx context.Context) (*models.PlaceAnalysis, error) {
	var a models.PlaceAnalysis
	if err := hs.get(ctx, config.PLACE_ANALYSIS_RESOURCE, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (hs *HTTPSource) Quarterly(ctx context.Context) (*models.QuarterlyData, error) {
	var q models.QuarterlyData
	if err := hs.get(ctx, config.QUARTERLY_RESOURCE, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

func (hs *HTTPSource) DailyCategories(ctx context.Context) (*models.DailyCategoryData, error) {
	var d models.DailyCategoryData
	if err := hs.get(ctx, config.DAILY_CATEGORIES_RESOURCE, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (hs *HTTPSource) Actors(ctx context.Context, area string) (*models.AktorData, error) {
	if err := ValidateArea(area); err != nil {
		return nil, err
	}
	var a models.AktorData
	if err := hs.get(ctx, actorsResource(area), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (hs *HTTPSource) Areas(ctx context.Context) (*models.CombinedAreaData, error) {
	var c models.CombinedAreaData
	if err := hs.get(ctx, config.AREAS_RESOURCE, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
