package hotelsapi

import (
	"net/url"
	"strconv"
	"strings"

	"hotel_search/internal/domain"
)

// EncodeFilters writes only the active dimensions, so default filters
// produce an empty query string.
func EncodeFilters(f domain.FilterState) url.Values {
	v := url.Values{}
	if q := strings.TrimSpace(f.SearchQuery); q != "" {
		v.Set("q", q)
	}
	if f.PriceActive() {
		v.Set("minPrice", strconv.FormatInt(f.MinPrice, 10))
		v.Set("maxPrice", strconv.FormatInt(f.MaxPrice, 10))
	}
	if len(f.Stars) > 0 {
		v.Set("stars", strings.Join(f.Stars, ","))
	}
	if len(f.Amenities) > 0 {
		v.Set("amenities", strings.Join(f.Amenities, ","))
	}
	if f.HasBreakFast != nil {
		v.Set("hasBreakFast", strconv.FormatBool(*f.HasBreakFast))
	}
	if f.HasRefundableRoom != nil {
		v.Set("hasRefundableRoom", strconv.FormatBool(*f.HasRefundableRoom))
	}
	if f.PlaceID != nil {
		v.Set("placeId", strconv.FormatInt(*f.PlaceID, 10))
	}
	return v
}

func EncodeQuery(q domain.Query) url.Values {
	v := EncodeFilters(q.Filters)
	if q.Sort.Key != "" {
		v.Set("sortBy", q.Sort.Key)
		if q.Sort.Direction != "" {
			v.Set("sortOrder", string(q.Sort.Direction))
		}
	}
	v.Set("limit", strconv.Itoa(q.Pagination.Limit))
	v.Set("offset", strconv.Itoa(q.Pagination.Offset))
	return v
}
