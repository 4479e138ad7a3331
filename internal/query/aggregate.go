package query

import (
	"slices"

	"hotel_search/internal/domain"
)

// FilteredStatsOf computes count, price range and average over hotels.
// Empty input gives zeros.
func FilteredStatsOf(hotels []domain.Hotel) domain.FilteredStats {
	if len(hotels) == 0 {
		return domain.FilteredStats{}
	}
	lo, hi := hotels[0].TotalPrice, hotels[0].TotalPrice
	var sum int64
	for _, h := range hotels {
		lo = min(lo, h.TotalPrice)
		hi = max(hi, h.TotalPrice)
		sum += h.TotalPrice
	}
	return domain.FilteredStats{
		Total:      len(hotels),
		PriceRange: domain.PriceRange{Min: lo, Max: hi},
		AvgPrice:   roundDiv(sum, int64(len(hotels))),
	}
}

// CatalogStatsOf adds star and amenity distributions to FilteredStatsOf.
// It is meant for the full collection.
func CatalogStatsOf(hotels []domain.Hotel) domain.CatalogStats {
	out := domain.CatalogStats{
		FilteredStats:     FilteredStatsOf(hotels),
		StarsDistribution: map[string]int{},
		AmenitiesCount:    map[string]int{},
	}
	for _, h := range hotels {
		out.StarsDistribution[h.Stars]++
		for _, a := range h.Amenities {
			out.AmenitiesCount[a]++
		}
	}
	return out
}

type PriceSummary struct {
	Min    int64 `json:"min"`
	Max    int64 `json:"max"`
	Avg    int64 `json:"avg"`
	Median int64 `json:"median"`
}

// PriceSummaryOf uses the upper median for even counts.
func PriceSummaryOf(hotels []domain.Hotel) PriceSummary {
	if len(hotels) == 0 {
		return PriceSummary{}
	}
	prices := make([]int64, len(hotels))
	var sum int64
	for i, h := range hotels {
		prices[i] = h.TotalPrice
		sum += h.TotalPrice
	}
	slices.Sort(prices)
	return PriceSummary{
		Min:    prices[0],
		Max:    prices[len(prices)-1],
		Avg:    roundDiv(sum, int64(len(prices))),
		Median: prices[len(prices)/2],
	}
}

// roundDiv rounds half up; prices are non-negative.
func roundDiv(sum, n int64) int64 {
	return (sum + n/2) / n
}
