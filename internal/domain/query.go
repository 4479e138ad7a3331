package domain

const (
	DefaultMinPrice int64 = 0
	DefaultMaxPrice int64 = 1_000_000
	DefaultLimit          = 6
	MaxLimit              = 100
)

// FilterState is the declarative filter of a query. Nil pointers mean
// "don't filter on this dimension".
type FilterState struct {
	MinPrice          int64    `json:"minPrice"`
	MaxPrice          int64    `json:"maxPrice"`
	Stars             []string `json:"stars"`
	Amenities         []string `json:"amenities"`
	HasBreakFast      *bool    `json:"hasBreakFast"`
	HasRefundableRoom *bool    `json:"hasRefundableRoom"`
	PlaceID           *int64   `json:"placeId"`
	SearchQuery       string   `json:"searchQuery"`
}

func DefaultFilters() FilterState {
	return FilterState{MinPrice: DefaultMinPrice, MaxPrice: DefaultMaxPrice}
}

// PriceActive reports whether the bounds differ from the defaults.
func (f FilterState) PriceActive() bool {
	return f.MinPrice != DefaultMinPrice || f.MaxPrice != DefaultMaxPrice
}

// ActiveCount counts active dimensions; both price bounds count as one.
func (f FilterState) ActiveCount() int {
	n := 0
	for _, on := range []bool{
		f.PriceActive(),
		len(f.Stars) > 0,
		len(f.Amenities) > 0,
		f.HasBreakFast != nil,
		f.HasRefundableRoom != nil,
		f.PlaceID != nil,
		trimmed(f.SearchQuery) != "",
	} {
		if on {
			n++
		}
	}
	return n
}

func (f FilterState) HasActive() bool { return f.ActiveCount() > 0 }

// Clone deep-copies the slices and pointers so the copy can be mutated freely.
func (f FilterState) Clone() FilterState {
	out := f
	out.Stars = append([]string(nil), f.Stars...)
	out.Amenities = append([]string(nil), f.Amenities...)
	if f.HasBreakFast != nil {
		v := *f.HasBreakFast
		out.HasBreakFast = &v
	}
	if f.HasRefundableRoom != nil {
		v := *f.HasRefundableRoom
		out.HasRefundableRoom = &v
	}
	if f.PlaceID != nil {
		v := *f.PlaceID
		out.PlaceID = &v
	}
	return out
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

const (
	SortTotalPrice = "totalPrice"
	SortDailyPrice = "dailyPrice"
	SortStars      = "stars"
	SortName       = "name"
	SortDistrict   = "district"
)

// SortFields is the allow-list of sort keys.
var SortFields = []string{SortTotalPrice, SortDailyPrice, SortStars, SortName, SortDistrict}

func IsSortField(key string) bool {
	for _, k := range SortFields {
		if k == key {
			return true
		}
	}
	return false
}

// SortOption orders a query. An empty Key keeps dataset order.
type SortOption struct {
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	Direction Direction `json:"direction"`
}

func DefaultSort() SortOption {
	return SortOption{Key: SortTotalPrice, Label: "Preço", Direction: Asc}
}

type Pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type PaginationInfo struct {
	Total       int  `json:"total"`
	Offset      int  `json:"offset"`
	Limit       int  `json:"limit"`
	HasMore     bool `json:"hasMore"`
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
}

// NewPaginationInfo derives the page numbers; limit must be positive and
// offset non-negative. HasMore is computed without offset+limit so huge
// offsets cannot overflow into a false positive.
func NewPaginationInfo(total, offset, limit int) PaginationInfo {
	return PaginationInfo{
		Total:       total,
		Offset:      offset,
		Limit:       limit,
		HasMore:     offset < total && limit < total-offset,
		CurrentPage: offset/limit + 1,
		TotalPages:  (total + limit - 1) / limit,
	}
}

type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// FilteredStats summarise a filtered result.
type FilteredStats struct {
	Total      int        `json:"total"`
	PriceRange PriceRange `json:"priceRange"`
	AvgPrice   int64      `json:"avgPrice"`
}

// CatalogStats summarise the whole collection, with distributions.
type CatalogStats struct {
	FilteredStats
	StarsDistribution map[string]int `json:"starsDistribution"`
	AmenitiesCount    map[string]int `json:"amenitiesCount"`
}

// Query is a full filter+sort+pagination request.
type Query struct {
	Filters    FilterState `json:"filters"`
	Sort       SortOption  `json:"sort"`
	Pagination Pagination  `json:"pagination"`
}

// FilteredResult is the answer to a Query.
type FilteredResult struct {
	Hotels     []Hotel        `json:"hotels"`
	Stats      FilteredStats  `json:"stats"`
	Pagination PaginationInfo `json:"pagination"`
}
