package query

import (
	"hotel_search/internal/domain"
)

// ValidateRequest rejects what Execute cannot answer.
func ValidateRequest(q domain.Query) error {
	if q.Pagination.Limit <= 0 || q.Pagination.Limit > domain.MaxLimit {
		return domain.Invalidf("limit must be between 1 and %d, got %d", domain.MaxLimit, q.Pagination.Limit)
	}
	if q.Pagination.Offset < 0 {
		return domain.Invalidf("offset must not be negative, got %d", q.Pagination.Offset)
	}
	if q.Sort.Key != "" && !domain.IsSortField(q.Sort.Key) {
		return domain.Invalidf("unsupported sort field %q", q.Sort.Key)
	}
	switch q.Sort.Direction {
	case "", domain.Asc, domain.Desc:
	default:
		return domain.Invalidf("sortOrder must be asc or desc, got %q", q.Sort.Direction)
	}
	return nil
}

// Execute runs filter, sort, stats, slice and pagination in that order.
// Stats describe the whole filtered set, not only the returned page.
// records is never modified.
func Execute(records []domain.Hotel, places []domain.Place, q domain.Query) (domain.FilteredResult, error) {
	if err := ValidateRequest(q); err != nil {
		return domain.FilteredResult{}, err
	}

	matched := Filter(records, PlaceIndex(places), q.Filters)
	if err := Sort(matched, q.Sort); err != nil {
		return domain.FilteredResult{}, err
	}
	stats := FilteredStatsOf(matched)

	total := len(matched)
	lo := min(q.Pagination.Offset, total)
	hi := min(lo+q.Pagination.Limit, total)
	page := make([]domain.Hotel, hi-lo)
	copy(page, matched[lo:hi])

	return domain.FilteredResult{
		Hotels:     page,
		Stats:      stats,
		Pagination: domain.NewPaginationInfo(total, q.Pagination.Offset, q.Pagination.Limit),
	}, nil
}
