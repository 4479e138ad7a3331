package query

import (
	"strings"

	"hotel_search/internal/domain"
)

// Predicate tests one record against a compiled filter.
type Predicate func(h domain.Hotel) bool

// MatchText is the accent/case-insensitive substring test over name,
// description, district and the place's name and state. A blank query
// matches everything.
func MatchText(h domain.Hotel, place *domain.Place, q string) bool {
	q = strings.TrimSpace(q)
	if q == "" {
		return true
	}
	return matchNormalized(h, place, Normalize(q))
}

func matchNormalized(h domain.Hotel, place *domain.Place, nq string) bool {
	fields := []string{h.Name, h.Description, h.District}
	if place != nil {
		fields = append(fields, place.Name, place.State)
	}
	for _, f := range fields {
		if strings.Contains(Normalize(f), nq) {
			return true
		}
	}
	return false
}

// MatchPrice is the inclusive totalPrice range test. Callers skip it when
// the bounds are the defaults (see FilterState.PriceActive).
func MatchPrice(h domain.Hotel, lo, hi int64) bool {
	return h.TotalPrice >= lo && h.TotalPrice <= hi
}

func MatchStars(h domain.Hotel, stars []string) bool {
	if len(stars) == 0 {
		return true
	}
	for _, s := range stars {
		if s == h.Stars {
			return true
		}
	}
	return false
}

// MatchAmenities requires every requested amenity (AND, not OR).
func MatchAmenities(h domain.Hotel, required []string) bool {
	for _, a := range required {
		if !h.HasAmenity(a) {
			return false
		}
	}
	return true
}

func MatchFlag(have bool, want *bool) bool {
	return want == nil || have == *want
}

func MatchPlace(h domain.Hotel, placeID *int64) bool {
	return placeID == nil || h.PlaceID == *placeID
}

// Compile turns the active dimensions of f into a single predicate.
// Exact-match tests run first; the substring search runs last.
func Compile(f domain.FilterState, places map[int64]domain.Place) Predicate {
	var tests []Predicate

	if f.PlaceID != nil {
		id := *f.PlaceID
		tests = append(tests, func(h domain.Hotel) bool { return h.PlaceID == id })
	}
	if f.HasBreakFast != nil {
		want := f.HasBreakFast
		tests = append(tests, func(h domain.Hotel) bool { return MatchFlag(h.HasBreakFast, want) })
	}
	if f.HasRefundableRoom != nil {
		want := f.HasRefundableRoom
		tests = append(tests, func(h domain.Hotel) bool { return MatchFlag(h.HasRefundableRoom, want) })
	}
	if len(f.Stars) > 0 {
		stars := append([]string(nil), f.Stars...)
		tests = append(tests, func(h domain.Hotel) bool { return MatchStars(h, stars) })
	}
	if f.PriceActive() {
		lo, hi := f.MinPrice, f.MaxPrice
		tests = append(tests, func(h domain.Hotel) bool { return MatchPrice(h, lo, hi) })
	}
	if len(f.Amenities) > 0 {
		req := append([]string(nil), f.Amenities...)
		tests = append(tests, func(h domain.Hotel) bool { return MatchAmenities(h, req) })
	}
	if q := strings.TrimSpace(f.SearchQuery); q != "" {
		nq := Normalize(q)
		tests = append(tests, func(h domain.Hotel) bool {
			var place *domain.Place
			if p, ok := places[h.PlaceID]; ok {
				place = &p
			}
			return matchNormalized(h, place, nq)
		})
	}

	return func(h domain.Hotel) bool {
		for _, t := range tests {
			if !t(h) {
				return false
			}
		}
		return true
	}
}

// Filter returns the records that satisfy f, in input order.
func Filter(records []domain.Hotel, places map[int64]domain.Place, f domain.FilterState) []domain.Hotel {
	match := Compile(f, places)
	out := make([]domain.Hotel, 0, len(records))
	for _, h := range records {
		if match(h) {
			out = append(out, h)
		}
	}
	return out
}

// PlaceIndex keys places by id.
func PlaceIndex(places []domain.Place) map[int64]domain.Place {
	idx := make(map[int64]domain.Place, len(places))
	for _, p := range places {
		idx[p.ID] = p
	}
	return idx
}
