package coordinator

import (
	"slices"

	"hotel_search/internal/domain"
)

// User-facing error messages.
const (
	ErrSearchFailed = "Erro ao buscar hotéis"
	ErrLoadFailed   = "Erro ao carregar hotéis"
	ErrInitFailed   = "Erro ao carregar dados iniciais"
	ErrCitiesFailed = "Erro ao buscar cidades"
)

// State is what a UI renders. Snapshot returns a copy the caller owns.
type State struct {
	Filters    domain.FilterState
	Sort       domain.SortOption
	Pagination domain.PaginationInfo
	Hotels     []domain.Hotel
	Stats      domain.FilteredStats

	Places    []domain.Place
	Amenities []domain.Amenity
	Catalog   domain.CatalogStats

	Loading        bool
	LoadingMore    bool
	HasInitialLoad bool
	// Degraded is set while Hotels comes from the local text search.
	Degraded bool
	Err      string

	CityQuery     string
	Cities        []domain.City
	CitiesLoading bool
	CityErr       string
}

func (s State) clone() State {
	out := s
	out.Filters = s.Filters.Clone()
	out.Hotels = slices.Clone(s.Hotels)
	out.Places = slices.Clone(s.Places)
	out.Amenities = slices.Clone(s.Amenities)
	out.Cities = slices.Clone(s.Cities)
	return out
}

// resetPage goes back to the first page and drops the current records.
func (s *State) resetPage() {
	s.Pagination.Offset = 0
	s.Pagination.CurrentPage = 1
	s.Hotels = nil
}

// singlePage describes an unpaginated list of n records.
func singlePage(n, limit int) domain.PaginationInfo {
	pages := 0
	if n > 0 {
		pages = 1
	}
	return domain.PaginationInfo{Total: n, Offset: 0, Limit: limit, CurrentPage: 1, TotalPages: pages}
}
