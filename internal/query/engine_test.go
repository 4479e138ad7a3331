package query_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_search/internal/domain"
	"hotel_search/internal/query"
)

func ptr[T any](v T) *T { return &v }

var places = []domain.Place{
	{ID: 1, Name: "São Paulo", State: "SP", Country: "BR"},
	{ID: 2, Name: "Belo Horizonte", State: "MG", Country: "BR"},
	{ID: 3, Name: "Florianópolis", State: "SC", Country: "BR"},
}

func fixture() []domain.Hotel {
	return []domain.Hotel{
		{ID: 1, Name: "Hotel Ibirapuera", Stars: "4", TotalPrice: 250000, DailyPrice: 50000, District: "Moema", PlaceID: 1,
			Amenities: []string{"WI_FI", "POOL", "PARKING"}, HasBreakFast: true, HasRefundableRoom: true},
		{ID: 2, Name: "Pousada Savassi", Stars: "3", TotalPrice: 120000, DailyPrice: 24000, District: "Savassi", PlaceID: 2,
			Amenities: []string{"WI_FI"}, HasBreakFast: true},
		{ID: 3, Name: "Ático Paulista", Stars: "5", TotalPrice: 990000, DailyPrice: 198000, District: "Bela Vista", PlaceID: 1,
			Amenities: []string{"WI_FI", "POOL", "SPA", "BAR"}, HasRefundableRoom: true},
		{ID: 4, Name: "Hostel Lagoa", Stars: "2", TotalPrice: 0, DailyPrice: 0, District: "Lagoa da Conceição", PlaceID: 3,
			Amenities: []string{}},
		{ID: 5, Name: "Palace Beira-Mar", Stars: "5", TotalPrice: 2500000, DailyPrice: 500000, District: "Centro", PlaceID: 3,
			Amenities: []string{"WI_FI", "POOL", "RESTAURANT"}, HasBreakFast: true},
		{ID: 6, Name: "Mercure Lourdes", Stars: "4", TotalPrice: 120000, DailyPrice: 30000, District: "Lourdes", PlaceID: 2,
			Amenities: []string{"WI_FI", "PARKING"}},
	}
}

func ids(hs []domain.Hotel) []int64 {
	out := make([]int64, len(hs))
	for i, h := range hs {
		out[i] = h.ID
	}
	return out
}

func all(f domain.FilterState, s domain.SortOption) domain.Query {
	return domain.Query{Filters: f, Sort: s, Pagination: domain.Pagination{Offset: 0, Limit: domain.MaxLimit}}
}

func TestExecute_DefaultFiltersOnlySort(t *testing.T) {
	records := fixture()
	for _, s := range []domain.SortOption{
		{Key: domain.SortTotalPrice, Direction: domain.Asc},
		{Key: domain.SortStars, Direction: domain.Desc},
		{Key: domain.SortName, Direction: domain.Asc},
	} {
		t.Run(s.Key+"_"+string(s.Direction), func(t *testing.T) {
			res, err := query.Execute(records, places, all(domain.DefaultFilters(), s))
			require.NoError(t, err)

			want := fixture()
			require.NoError(t, query.Sort(want, s))
			assert.Equal(t, ids(want), ids(res.Hotels))
			assert.Equal(t, len(records), res.Stats.Total)
		})
	}
}

func TestExecute_InactivePriceKeepsExtremes(t *testing.T) {
	res, err := query.Execute(fixture(), places, all(domain.DefaultFilters(), domain.SortOption{}))
	require.NoError(t, err)
	// zero-priced and above-ceiling records survive default bounds
	assert.Contains(t, ids(res.Hotels), int64(4))
	assert.Contains(t, ids(res.Hotels), int64(5))
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(res.Hotels), "empty sort key keeps dataset order")
}

func TestExecute_AmenitiesAreConjunctive(t *testing.T) {
	f := domain.DefaultFilters()
	f.Amenities = []string{"WI_FI", "POOL"}
	res, err := query.Execute(fixture(), places, all(f, domain.DefaultSort()))
	require.NoError(t, err)
	require.NotEmpty(t, res.Hotels)
	for _, h := range res.Hotels {
		assert.True(t, h.HasAmenity("WI_FI") && h.HasAmenity("POOL"), "hotel %d", h.ID)
	}
	assert.NotContains(t, ids(res.Hotels), int64(2), "WI_FI only must be excluded")
}

func TestExecute_PaginationIdentityAndStats(t *testing.T) {
	f := domain.DefaultFilters()
	f.Amenities = []string{"WI_FI"}
	s := domain.SortOption{Key: domain.SortTotalPrice, Direction: domain.Desc}

	full, err := query.Execute(fixture(), places, all(f, s))
	require.NoError(t, err)

	for _, limit := range []int{1, 2, 3, 4, 7} {
		var pages []domain.Hotel
		for off := 0; off < full.Pagination.Total; off += limit {
			res, err := query.Execute(fixture(), places, domain.Query{Filters: f, Sort: s,
				Pagination: domain.Pagination{Offset: off, Limit: limit}})
			require.NoError(t, err)
			assert.Equal(t, full.Stats, res.Stats, "stats cover the whole filtered set")
			assert.Equal(t, off+limit < full.Pagination.Total, res.Pagination.HasMore)
			pages = append(pages, res.Hotels...)
		}
		if diff := cmp.Diff(full.Hotels, pages); diff != "" {
			t.Fatalf("limit %d: concatenated pages differ (-full +pages):\n%s", limit, diff)
		}
		assert.Equal(t, full.Stats, query.FilteredStatsOf(pages))
	}
}

func TestSort_Stable(t *testing.T) {
	// 2 and 6 share totalPrice; 1 and 6 share stars
	for _, s := range []domain.SortOption{
		{Key: domain.SortTotalPrice, Direction: domain.Asc},
		{Key: domain.SortTotalPrice, Direction: domain.Desc},
		{Key: domain.SortStars, Direction: domain.Asc},
		{Key: domain.SortStars, Direction: domain.Desc},
	} {
		hs := fixture()
		require.NoError(t, query.Sort(hs, s))
		pos := map[int64]int{}
		for i, h := range hs {
			pos[h.ID] = i
		}
		if s.Key == domain.SortTotalPrice {
			assert.Less(t, pos[2], pos[6], "%v", s)
		} else {
			assert.Less(t, pos[1], pos[6], "%v", s)
			assert.Less(t, pos[3], pos[5], "%v", s)
		}
	}
}

func TestSort_StarsComparedAsIntegers(t *testing.T) {
	hs := []domain.Hotel{{ID: 1, Stars: "5"}, {ID: 2, Stars: "1"}, {ID: 3, Stars: "3"}}
	require.NoError(t, query.Sort(hs, domain.SortOption{Key: domain.SortStars, Direction: domain.Asc}))
	assert.Equal(t, []int64{2, 3, 1}, ids(hs))
}

func TestSort_NameIsLocaleAware(t *testing.T) {
	hs := []domain.Hotel{{ID: 1, Name: "beta"}, {ID: 2, Name: "Ático"}, {ID: 3, Name: "Alfa"}}
	require.NoError(t, query.Sort(hs, domain.SortOption{Key: domain.SortName, Direction: domain.Asc}))
	assert.Equal(t, []int64{3, 2, 1}, ids(hs))
}

func TestSort_RejectsUnknownField(t *testing.T) {
	err := query.Sort(fixture(), domain.SortOption{Key: "tax"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	err = query.Sort(fixture(), domain.SortOption{Key: domain.SortName, Direction: "sideways"})
	assert.True(t, domain.IsValidation(err))
}

func TestExecute_TextSearchIgnoresAccentsAndCase(t *testing.T) {
	f := domain.DefaultFilters()
	f.SearchQuery = "sao paulo"
	res, err := query.Execute(fixture(), places, all(f, domain.DefaultSort()))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(res.Hotels))

	f.SearchQuery = "  LAGOA DA CONCEICAO "
	res, err = query.Execute(fixture(), places, all(f, domain.DefaultSort()))
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, ids(res.Hotels))
}

func TestExecute_Scenario(t *testing.T) {
	records := []domain.Hotel{
		{ID: 1, TotalPrice: 100, Stars: "3"},
		{ID: 2, TotalPrice: 50, Stars: "5"},
	}
	res, err := query.Execute(records, nil, domain.Query{
		Filters:    domain.FilterState{MinPrice: 0, MaxPrice: 1000000},
		Sort:       domain.SortOption{Key: domain.SortTotalPrice, Direction: domain.Asc},
		Pagination: domain.Pagination{Offset: 0, Limit: 6},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(res.Hotels))
	assert.Equal(t, domain.FilteredStats{Total: 2, PriceRange: domain.PriceRange{Min: 50, Max: 100}, AvgPrice: 75}, res.Stats)
	assert.Equal(t, 2, res.Pagination.Total)
	assert.False(t, res.Pagination.HasMore)
}

func TestExecute_OffsetBeyondTotal(t *testing.T) {
	records := []domain.Hotel{{ID: 1, Stars: "3"}, {ID: 2, Stars: "4"}}
	for _, off := range []int{2, 10, math.MaxInt - 2, math.MaxInt} {
		res, err := query.Execute(records, nil, domain.Query{
			Filters:    domain.DefaultFilters(),
			Pagination: domain.Pagination{Offset: off, Limit: 6},
		})
		require.NoError(t, err, off)
		assert.Empty(t, res.Hotels, off)
		assert.False(t, res.Pagination.HasMore, off)
		assert.Equal(t, 2, res.Pagination.Total, off)
		assert.Equal(t, off, res.Pagination.Offset, off)
	}
}

func TestNewPaginationInfo_HasMore(t *testing.T) {
	cases := []struct {
		total, offset, limit int
		want                 bool
	}{
		{total: 8, offset: 0, limit: 3, want: true},
		{total: 8, offset: 3, limit: 5, want: false},
		{total: 8, offset: 4, limit: 3, want: true},
		{total: 8, offset: 8, limit: 3, want: false},
		{total: 0, offset: 0, limit: 6, want: false},
		{total: 2, offset: math.MaxInt - 2, limit: 6, want: false},
		{total: 100, offset: 0, limit: math.MaxInt, want: false},
	}
	for _, c := range cases {
		got := domain.NewPaginationInfo(c.total, c.offset, c.limit)
		assert.Equal(t, c.want, got.HasMore, "%+v", c)
	}
}

func TestExecute_InvalidRequests(t *testing.T) {
	cases := []struct {
		name string
		q    domain.Query
	}{
		{"zero limit", domain.Query{Pagination: domain.Pagination{Limit: 0}}},
		{"negative limit", domain.Query{Pagination: domain.Pagination{Limit: -1}}},
		{"limit too large", domain.Query{Pagination: domain.Pagination{Limit: domain.MaxLimit + 1}}},
		{"negative offset", domain.Query{Pagination: domain.Pagination{Offset: -1, Limit: 6}}},
		{"unknown sort", domain.Query{Sort: domain.SortOption{Key: "placeId"}, Pagination: domain.Pagination{Limit: 6}}},
		{"bad direction", domain.Query{Sort: domain.SortOption{Key: "name", Direction: "up"}, Pagination: domain.Pagination{Limit: 6}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := query.Execute(fixture(), places, tc.q)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}
}

func TestExecute_UnknownFilterValuesMatchNothing(t *testing.T) {
	f := domain.DefaultFilters()
	f.Stars = []string{"7"}
	res, err := query.Execute(fixture(), places, all(f, domain.SortOption{}))
	require.NoError(t, err)
	assert.Empty(t, res.Hotels)

	f = domain.DefaultFilters()
	f.Amenities = []string{"HELIPAD"}
	res, err = query.Execute(fixture(), places, all(f, domain.SortOption{}))
	require.NoError(t, err)
	assert.Empty(t, res.Hotels)
	assert.Equal(t, domain.FilteredStats{}, res.Stats)
}

func TestExecute_CombinedFilters(t *testing.T) {
	f := domain.FilterState{
		MinPrice:     100000,
		MaxPrice:     300000,
		Stars:        []string{"3", "4"},
		HasBreakFast: ptr(true),
		PlaceID:      ptr(int64(1)),
	}
	res, err := query.Execute(fixture(), places, all(f, domain.DefaultSort()))
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(res.Hotels))
}

func TestExecute_DoesNotMutateInput(t *testing.T) {
	records := fixture()
	_, err := query.Execute(records, places, all(domain.DefaultFilters(), domain.SortOption{Key: domain.SortTotalPrice, Direction: domain.Desc}))
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(records))
}

func TestEvaluator_SearchText(t *testing.T) {
	ev := query.NewEvaluator(fixture(), places)
	assert.Equal(t, []int64{1, 3}, ids(ev.SearchText("São Paulo, SP")))
	assert.Equal(t, []int64{6}, ids(ev.SearchText("lourdes")))
	assert.Len(t, ev.SearchText(" "), 6)
	// description is not part of the degraded search
	assert.Empty(t, ev.SearchText("zzz"))
}
