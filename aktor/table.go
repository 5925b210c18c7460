// Package aktor filters, sorts and paginates ranked business listings.
// Every function works on copies and leaves the input slice untouched.
package aktor

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"place-server/models"
)

const (
	// AllCategories disables category filtering.
	AllCategories = "all"
	// PageSize is the number of rows on an expanded page.
	PageSize = 20
	// CollapsedSize is the number of rows shown before expanding.
	CollapsedSize = 15
)

// SortField names a sortable column.
type SortField string

const (
	SortRank      SortField = "rank"
	SortOmsetning SortField = "omsetning"
	SortYoyVekst  SortField = "yoy_vekst"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseSortField validates a column name.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortRank, SortOmsetning, SortYoyVekst:
		return f, nil
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// ParseDirection validates a sort direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(s)); d {
	case Asc, Desc:
		return d, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// DefaultDirection is the direction a column starts in when first selected.
func DefaultDirection(field SortField) Direction {
	if field == SortRank {
		return Asc
	}
	return Desc
}

// ParseRank reads "#N" as N.
func ParseRank(rank string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rank), "#")))
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortKey returns the numeric value a column sorts by. Ranks that do not
// parse map to math.MaxInt32.
func SortKey(a models.Aktor, field SortField) float64 {
	switch field {
	case SortRank:
		if n, ok := ParseRank(a.Rank); ok {
			return float64(n)
		}
		return math.MaxInt32
	case SortOmsetning:
		return a.Omsetning
	case SortYoyVekst:
		return a.YoyVekst
	}
	return 0
}

// Filter keeps actors of the given category. AllCategories keeps everyone.
func Filter(actors []models.Aktor, category string) []models.Aktor {
	out := make([]models.Aktor, 0, len(actors))
	for _, a := range actors {
		if category == AllCategories || a.Type == category {
			out = append(out, a)
		}
	}
	return out
}

// Sort orders a copy of actors by field. Equal keys keep their input order.
// Unranked actors stay last in either direction when sorting by rank.
func Sort(actors []models.Aktor, field SortField, dir Direction) []models.Aktor {
	out := make([]models.Aktor, len(actors))
	copy(out, actors)
	sort.SliceStable(out, func(i, j int) bool {
		if field == SortRank {
			_, iRanked := ParseRank(out[i].Rank)
			_, jRanked := ParseRank(out[j].Rank)
			if iRanked != jRanked {
				return iRanked
			}
		}
		a, b := SortKey(out[i], field), SortKey(out[j], field)
		if dir == Asc {
			return a < b
		}
		return a > b
	})
	return out
}

// TotalPages is the number of pages of size needed for n rows.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns the 1-based page of actors. Pages out of range are empty.
func Paginate(actors []models.Aktor, page, size int) []models.Aktor {
	if page < 1 || size <= 0 {
		return []models.Aktor{}
	}
	start := (page - 1) * size
	if start >= len(actors) {
		return []models.Aktor{}
	}
	end := start + size
	if end > len(actors) {
		end = len(actors)
	}
	out := make([]models.Aktor, end-start)
	copy(out, actors[start:end])
	return out
}

// Top returns a copy of the first n actors.
func Top(actors []models.Aktor, n int) []models.Aktor {
	if n > len(actors) {
		n = len(actors)
	}
	if n < 0 {
		n = 0
	}
	out := make([]models.Aktor, n)
	copy(out, actors[:n])
	return out
}

// Categories lists the distinct actor types in alphabetical order.
func Categories(actors []models.Aktor) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, a := range actors {
		if a.Type == "" {
			continue
		}
		if _, ok := seen[a.Type]; ok {
			continue
		}
		seen[a.Type] = struct{}{}
		out = append(out, a.Type)
	}
	sort.Strings(out)
	return out
}

// CategoryCount is a category with its summary.
type CategoryCount struct {
	Name string `json:"name"`
	models.CategoryStats
}

// TopCategories returns the n categories with the most actors. Equal counts
// are ordered by name.
func TopCategories(stats map[string]models.CategoryStats, n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(stats))
	for name, s := range stats {
		out = append(out, CategoryCount{Name: name, CategoryStats: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// AreaSummary is one area of the comparison with its key.
type AreaSummary struct {
	Key string `json:"key"`
	models.AreaStats
}

// AreaComparison orders the areas by total revenue, highest first.
func AreaComparison(data models.CombinedAreaData) []AreaSummary {
	out := make([]AreaSummary, 0, len(data.Areas))
	for key, s := range data.Areas {
		out = append(out, AreaSummary{Key: key, AreaStats: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRevenue != out[j].TotalRevenue {
			return out[i].TotalRevenue > out[j].TotalRevenue
		}
		return out[i].Key < out[j].Key
	})
	return out
}
