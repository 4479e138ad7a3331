package httpserver

import (
	"net/url"
	"strconv"
	"strings"

	"hotel_search/internal/domain"
)

// csv splits a comma-separated list, trimming tokens and dropping empties.
// Tokens stay case-sensitive.
func csv(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func intParam(v url.Values, name string, def int) (int, error) {
	s := strings.TrimSpace(v.Get(name))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.Invalidf("%s must be an integer, got %q", name, s)
	}
	return n, nil
}

func int64Param(v url.Values, name string) (*int64, error) {
	s := strings.TrimSpace(v.Get(name))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, domain.Invalidf("%s must be an integer, got %q", name, s)
	}
	return &n, nil
}

func boolParam(v url.Values, name string) (*bool, error) {
	s := strings.TrimSpace(v.Get(name))
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, domain.Invalidf("%s must be true or false, got %q", name, s)
	}
	return &b, nil
}

func priceParam(v url.Values, name string, def int64) (int64, error) {
	p, err := int64Param(v, name)
	if err != nil || p == nil {
		return def, err
	}
	if *p < 0 {
		return 0, domain.Invalidf("%s must not be negative", name)
	}
	return *p, nil
}

// parseFilters reads the filter dimensions shared by /hotels/search and /hotels/filtered.
func parseFilters(v url.Values) (domain.FilterState, error) {
	f := domain.DefaultFilters()
	var err error
	if f.MinPrice, err = priceParam(v, "minPrice", domain.DefaultMinPrice); err != nil {
		return f, err
	}
	if f.MaxPrice, err = priceParam(v, "maxPrice", domain.DefaultMaxPrice); err != nil {
		return f, err
	}
	if f.HasBreakFast, err = boolParam(v, "hasBreakFast"); err != nil {
		return f, err
	}
	if f.HasRefundableRoom, err = boolParam(v, "hasRefundableRoom"); err != nil {
		return f, err
	}
	if f.PlaceID, err = int64Param(v, "placeId"); err != nil {
		return f, err
	}
	f.Stars = csv(v.Get("stars"))
	f.Amenities = csv(v.Get("amenities"))
	f.SearchQuery = v.Get("q")
	return f, nil
}

// parseQuery adds sorting and pagination. Range checks on limit, offset and
// sort belong to the engine, except the deployment's own limit ceiling.
func (h *Handlers) parseQuery(v url.Values) (domain.Query, error) {
	f, err := parseFilters(v)
	if err != nil {
		return domain.Query{}, err
	}
	limit, err := intParam(v, "limit", h.defaultLimit())
	if err != nil {
		return domain.Query{}, err
	}
	if h.MaxLimit > 0 && limit > h.MaxLimit {
		return domain.Query{}, domain.Invalidf("limit must not exceed %d, got %d", h.MaxLimit, limit)
	}
	offset, err := intParam(v, "offset", 0)
	if err != nil {
		return domain.Query{}, err
	}

	sort := domain.SortOption{Key: strings.TrimSpace(v.Get("sortBy"))}
	if sort.Key != "" {
		sort.Direction = domain.Direction(strings.ToLower(strings.TrimSpace(v.Get("sortOrder"))))
		if sort.Direction == "" {
			sort.Direction = domain.Asc
		}
	}
	return domain.Query{
		Filters:    f,
		Sort:       sort,
		Pagination: domain.Pagination{Offset: offset, Limit: limit},
	}, nil
}

func (h *Handlers) defaultLimit() int {
	if h.DefaultLimit > 0 {
		return h.DefaultLimit
	}
	return domain.DefaultLimit
}
