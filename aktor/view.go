package aktor

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"place-server/models"
)

// ErrCollapsed is returned when paging a collapsed table.
var ErrCollapsed = errors.New("aktor: paging requires an expanded table")

// ViewState is the table state a page keeps between interactions. Its
// transitions return a new value and never modify the receiver.
type ViewState struct {
	Area      string    `json:"area,omitempty"`
	Category  string    `json:"category"`
	SortField SortField `json:"sort"`
	Direction Direction `json:"dir"`
	Page      int       `json:"page"`
	Expanded  bool      `json:"expanded"`
}

// DefaultViewState shows all categories by rank, collapsed.
func DefaultViewState() ViewState {
	return ViewState{
		Category:  AllCategories,
		SortField: SortRank,
		Direction: Asc,
		Page:      1,
	}
}

// SetCategory filters on category and returns to the first page.
func (s ViewState) SetCategory(category string) ViewState {
	if category == "" {
		category = AllCategories
	}
	s.Category = category
	s.Page = 1
	return s
}

// ToggleSort flips the direction when field is already active, otherwise
// switches to field in its default direction. Either way paging restarts.
func (s ViewState) ToggleSort(field SortField) ViewState {
	if s.SortField == field {
		if s.Direction == Asc {
			s.Direction = Desc
		} else {
			s.Direction = Asc
		}
	} else {
		s.SortField = field
		s.Direction = DefaultDirection(field)
	}
	s.Page = 1
	return s
}

// ToggleExpand switches between the top list and the paged list.
func (s ViewState) ToggleExpand() ViewState {
	s.Expanded = !s.Expanded
	return s
}

// SetPage moves to page, clamped to [1, totalPages].
func (s ViewState) SetPage(page, totalPages int) (ViewState, error) {
	if !s.Expanded {
		return s, ErrCollapsed
	}
	s.Page = clampPage(page, totalPages)
	return s, nil
}

// SelectArea switches area and resets filter, paging and expansion.
func (s ViewState) SelectArea(area string) ViewState {
	s.Area = area
	s.Category = AllCategories
	s.Page = 1
	s.Expanded = false
	return s
}

func clampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Values encodes the state as query parameters.
func (s ViewState) Values() url.Values {
	v := url.Values{}
	if s.Area != "" {
		v.Set("area", s.Area)
	}
	v.Set("category", s.Category)
	v.Set("sort", string(s.SortField))
	v.Set("dir", string(s.Direction))
	v.Set("page", strconv.Itoa(s.Page))
	v.Set("expanded", strconv.FormatBool(s.Expanded))
	return v
}

// ParseViewState reads query parameters over DefaultViewState. A sort field
// without a direction starts in that field's default direction.
func ParseViewState(v url.Values) (ViewState, error) {
	s := DefaultViewState()
	s.Area = v.Get("area")

	if c := v.Get("category"); c != "" {
		s.Category = c
	}
	if f := v.Get("sort"); f != "" {
		field, err := ParseSortField(f)
		if err != nil {
			return s, err
		}
		s.SortField = field
		s.Direction = DefaultDirection(field)
	}
	if d := v.Get("dir"); d != "" {
		dir, err := ParseDirection(d)
		if err != nil {
			return s, err
		}
		s.Direction = dir
	}
	if p := v.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 1 {
			return s, fmt.Errorf("invalid page %q", p)
		}
		s.Page = page
	}
	if e := v.Get("expanded"); e != "" {
		expanded, err := strconv.ParseBool(e)
		if err != nil {
			return s, fmt.Errorf("invalid expanded flag %q", e)
		}
		s.Expanded = expanded
	}
	return s, nil
}

// Links are encoded query strings for the states one click away.
type Links struct {
	Self   string `json:"self"`
	Toggle string `json:"toggle"`
	Prev   string `json:"prev,omitempty"`
	Next   string `json:"next,omitempty"`
}

// LinksFor encodes s and its neighbours. Prev and Next are only set on an
// expanded table that has such a page.
func LinksFor(s ViewState, totalPages int) Links {
	links := Links{
		Self:   s.Values().Encode(),
		Toggle: s.ToggleExpand().Values().Encode(),
	}
	if !s.Expanded {
		return links
	}
	if s.Page > 1 {
		prev, _ := s.SetPage(s.Page-1, totalPages)
		links.Prev = prev.Values().Encode()
	}
	if s.Page < totalPages {
		next, _ := s.SetPage(s.Page+1, totalPages)
		links.Next = next.Values().Encode()
	}
	return links
}

// View is what a table renders for a state.
type View struct {
	State      ViewState      `json:"state"`
	Actors     []models.Aktor `json:"actors"`
	Matching   int            `json:"matching"`
	TotalPages int            `json:"totalPages"`
	HasMore    bool           `json:"hasMore"`
	Categories []string       `json:"categories"`
	Links      Links          `json:"links"`
}

// Apply runs filter, sort and then either the collapsed top list or the
// current page. The page in the returned state is clamped to what exists.
func Apply(actors []models.Aktor, s ViewState) View {
	sorted := Sort(Filter(actors, s.Category), s.SortField, s.Direction)
	pages := TotalPages(len(sorted), PageSize)

	view := View{
		Matching:   len(sorted),
		TotalPages: pages,
		Categories: Categories(actors),
	}
	if s.Expanded {
		s.Page = clampPage(s.Page, pages)
		view.Actors = Paginate(sorted, s.Page, PageSize)
	} else {
		view.Actors = Top(sorted, CollapsedSize)
		view.HasMore = len(sorted) > CollapsedSize
	}
	view.State = s
	view.Links = LinksFor(s, pages)
	return view
}
