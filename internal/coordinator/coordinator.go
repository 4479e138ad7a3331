// Package coordinator owns the client-side search state: filters, sort,
// pagination and the current page. It fetches pages from the API, coalesces
// filter edits with a debouncer, ignores responses superseded by a newer
// fetch, and falls back to a local text search when the API is unreachable.
package coordinator

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"hotel_search/internal/adapters/observability"
	"hotel_search/internal/domain"
	"hotel_search/internal/query"
)

// Backend is the API surface the coordinator consumes.
type Backend interface {
	Filtered(ctx context.Context, q domain.Query) (domain.FilteredResult, error)
	Search(ctx context.Context, f domain.FilterState) ([]domain.Hotel, error)
	Stats(ctx context.Context) (domain.CatalogStats, error)
	Hotel(ctx context.Context, id int64) (domain.Hotel, error)
	Places(ctx context.Context) ([]domain.Place, error)
	Amenities(ctx context.Context) ([]domain.Amenity, error)
	Cities(ctx context.Context, nameLike string) ([]domain.City, error)
}

const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultFetchTimeout = 10 * time.Second
	MinCityQuery        = 3
)

type Option func(*Coordinator)

// WithDebounce sets the window used for filter edits and city typing.
func WithDebounce(d time.Duration) Option {
	return func(c *Coordinator) { c.debounce = d }
}

// WithFetchTimeout bounds fetches started by a debounced call.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.fetchTimeout = d }
}

func WithLimit(n int) Option {
	return func(c *Coordinator) { c.st.Pagination.Limit = n }
}

type Coordinator struct {
	backend      Backend
	debounce     time.Duration
	fetchTimeout time.Duration
	filterTimer  *Debouncer
	cityTimer    *Debouncer

	mu        sync.Mutex
	st        State
	filterGen uint64
	seq       uint64
	mirror    []domain.Hotel
	seen      map[int64]int
	cityMemo  map[string][]domain.City
	citySeq   uint64
}

func New(b Backend, opts ...Option) *Coordinator {
	c := &Coordinator{
		backend:      b,
		debounce:     DefaultDebounce,
		fetchTimeout: DefaultFetchTimeout,
		seen:         map[int64]int{},
		cityMemo:     map[string][]domain.City{},
		st: State{
			Filters:    domain.DefaultFilters(),
			Sort:       domain.DefaultSort(),
			Pagination: domain.PaginationInfo{Limit: domain.DefaultLimit, CurrentPage: 1},
		},
	}
	for _, o := range opts {
		o(c)
	}
	if c.st.Pagination.Limit < 1 || c.st.Pagination.Limit > domain.MaxLimit {
		c.st.Pagination.Limit = domain.DefaultLimit
	}
	c.filterTimer = NewDebouncer(c.debounce)
	c.cityTimer = NewDebouncer(c.debounce)
	return c
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.clone()
}

// Close drops pending debounced calls.
func (c *Coordinator) Close() {
	c.filterTimer.Cancel()
	c.cityTimer.Cancel()
}

// Settle runs pending debounced calls immediately.
func (c *Coordinator) Settle() {
	c.filterTimer.Flush()
	c.cityTimer.Flush()
}

// surface hides failures the coordinator already recovered from.
func surface(err error) error {
	if err == nil || domain.IsTransient(err) {
		return nil
	}
	return err
}

// Init loads places, amenities and collection stats concurrently, then the first page.
func (c *Coordinator) Init(ctx context.Context) error {
	var (
		places    []domain.Place
		amenities []domain.Amenity
		stats     domain.CatalogStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { places, err = c.backend.Places(gctx); return })
	g.Go(func() (err error) { amenities, err = c.backend.Amenities(gctx); return })
	g.Go(func() (err error) { stats, err = c.backend.Stats(gctx); return })

	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("initial data load failed")
		c.mu.Lock()
		c.st.Err = ErrInitFailed
		c.mu.Unlock()
		return surface(err)
	}

	c.mu.Lock()
	c.st.Places = places
	c.st.Amenities = amenities
	c.st.Catalog = stats
	c.st.resetPage()
	c.mu.Unlock()
	return surface(c.fetchPage(ctx, c.degradeToLocal("filtered")))
}

// UpdateFilters applies edit to a copy of the filters, returns to the first
// page and schedules a debounced fetch. edit runs without the state lock, so
// it may read the coordinator; if the filters change while it runs, edit is
// applied again to the newer filters.
func (c *Coordinator) UpdateFilters(edit func(*domain.FilterState)) {
	for {
		c.mu.Lock()
		f, gen := c.st.Filters.Clone(), c.filterGen
		c.mu.Unlock()

		edit(&f)

		c.mu.Lock()
		if gen != c.filterGen {
			c.mu.Unlock()
			continue
		}
		c.setFiltersLocked(f)
		c.st.resetPage()
		c.st.Loading = true
		c.st.Err = ""
		c.mu.Unlock()
		break
	}

	c.filterTimer.Trigger(c.debouncedFetch)
}

func (c *Coordinator) setFiltersLocked(f domain.FilterState) {
	c.st.Filters = f
	c.filterGen++
}

func (c *Coordinator) debouncedFetch() {
	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	defer cancel()
	if err := surface(c.fetchPage(ctx, c.degradeToLocal("filtered"))); err != nil {
		log.Error().Err(err).Msg("debounced fetch failed")
	}
}

// UpdateSort replaces the sort and fetches the first page immediately.
func (c *Coordinator) UpdateSort(ctx context.Context, opt domain.SortOption) error {
	if _, err := query.Comparator(opt); err != nil {
		return err
	}
	c.mu.Lock()
	c.st.Sort = opt
	c.st.resetPage()
	c.mu.Unlock()
	return c.fetchNow(ctx)
}

// ResetFilters restores the default filters and fetches immediately.
func (c *Coordinator) ResetFilters(ctx context.Context) error {
	c.mu.Lock()
	c.setFiltersLocked(domain.DefaultFilters())
	c.st.resetPage()
	c.mu.Unlock()
	return c.fetchNow(ctx)
}

// UpdateItemsPerPage changes the page size and fetches the first page.
func (c *Coordinator) UpdateItemsPerPage(ctx context.Context, limit int) error {
	if limit < 1 || limit > domain.MaxLimit {
		return domain.Invalidf("items per page must be between 1 and %d, got %d", domain.MaxLimit, limit)
	}
	c.mu.Lock()
	c.st.Pagination.Limit = limit
	c.st.resetPage()
	c.mu.Unlock()
	return c.fetchNow(ctx)
}

// fetchNow supersedes any pending debounced fetch.
func (c *Coordinator) fetchNow(ctx context.Context) error {
	c.filterTimer.Cancel()
	return surface(c.fetchPage(ctx, c.degradeToLocal("filtered")))
}

// LoadMore advances one page. The fetched page replaces the current one; on
// failure the offset goes back.
func (c *Coordinator) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.st.LoadingMore || !c.st.Pagination.HasMore {
		c.mu.Unlock()
		return nil
	}
	c.st.LoadingMore = true
	prevOffset, prevPage := c.st.Pagination.Offset, c.st.Pagination.CurrentPage
	c.st.Pagination.Offset += c.st.Pagination.Limit
	c.st.Pagination.CurrentPage = c.st.Pagination.Offset/c.st.Pagination.Limit + 1
	c.mu.Unlock()

	err := c.fetchPage(ctx, func(st *State, err error) {
		st.Pagination.Offset = prevOffset
		st.Pagination.CurrentPage = prevPage
		st.Err = ErrLoadFailed
	})

	c.mu.Lock()
	c.st.LoadingMore = false
	c.mu.Unlock()
	return surface(err)
}

// GoToPage is a no-op outside [1, TotalPages].
func (c *Coordinator) GoToPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if page < 1 || page > c.st.Pagination.TotalPages {
		c.mu.Unlock()
		return nil
	}
	c.st.Pagination.Offset = (page - 1) * c.st.Pagination.Limit
	c.st.Pagination.CurrentPage = page
	c.mu.Unlock()
	return surface(c.fetchPage(ctx, c.degradeToLocal("filtered")))
}

// SearchHotels sets the text query and asks the API for every match, without
// pagination. When the API fails the local text search answers instead.
func (c *Coordinator) SearchHotels(ctx context.Context, q string) error {
	c.filterTimer.Cancel()
	c.mu.Lock()
	c.st.Filters.SearchQuery = q
	c.filterGen++
	c.st.resetPage()
	c.seq++
	seq := c.seq
	f := c.st.Filters.Clone()
	c.st.Loading = true
	c.st.Err = ""
	c.mu.Unlock()

	hs, err := c.backend.Search(ctx, f)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return nil
	}
	c.st.Loading = false
	if err != nil {
		log.Warn().Err(err).Str("q", q).Msg("search failed, using local results")
		c.degradeToLocal("search")(&c.st, err)
		return surface(err)
	}
	c.remember(hs)
	c.st.Hotels = hs
	c.st.Stats = query.FilteredStatsOf(hs)
	c.st.Pagination = singlePage(len(hs), c.st.Pagination.Limit)
	c.st.Degraded = false
	c.st.HasInitialLoad = true
	return nil
}

// fetchPage requests the page described by the current state. Only the
// response to the most recent request is applied; onFail runs under the lock
// when that response is an error.
func (c *Coordinator) fetchPage(ctx context.Context, onFail func(*State, error)) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	q := domain.Query{
		Filters: c.st.Filters.Clone(),
		Sort:    c.st.Sort,
		Pagination: domain.Pagination{
			Offset: c.st.Pagination.Offset,
			Limit:  c.st.Pagination.Limit,
		},
	}
	c.st.Loading = true
	c.st.Err = ""
	c.mu.Unlock()

	res, err := c.backend.Filtered(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		log.Debug().Uint64("seq", seq).Uint64("latest", c.seq).Msg("discarding stale response")
		return nil
	}
	c.st.Loading = false
	if err != nil {
		log.Warn().Err(err).Msg("fetch failed")
		onFail(&c.st, err)
		return err
	}
	c.remember(res.Hotels)
	c.st.Hotels = res.Hotels
	c.st.Stats = res.Stats
	c.st.Pagination = res.Pagination
	c.st.Degraded = false
	c.st.HasInitialLoad = true
	return nil
}

// degradeToLocal answers the current text query from the records seen so far.
func (c *Coordinator) degradeToLocal(op string) func(*State, error) {
	return func(st *State, err error) {
		local := query.NewEvaluator(c.mirror, st.Places).SearchText(st.Filters.SearchQuery)
		st.Hotels = local
		st.Stats = query.FilteredStatsOf(local)
		st.Pagination = singlePage(len(local), st.Pagination.Limit)
		st.Degraded = true
		st.Err = ErrSearchFailed
		observability.ObserveFallback(op)
	}
}

// remember adds records to the resident mirror, replacing older copies.
func (c *Coordinator) remember(hs []domain.Hotel) {
	for _, h := range hs {
		if i, ok := c.seen[h.ID]; ok {
			c.mirror[i] = h
			continue
		}
		c.seen[h.ID] = len(c.mirror)
		c.mirror = append(c.mirror, h)
	}
}

// Hotel returns the detail of one hotel with Images defaulting to the thumbnail.
// When the API fails, a copy already seen is returned instead.
func (c *Coordinator) Hotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := c.backend.Hotel(ctx, id)
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if i, ok := c.seen[id]; ok && domain.IsTransient(err) {
			return c.mirror[i].WithImageFallback(), nil
		}
		return domain.Hotel{}, err
	}
	c.remember([]domain.Hotel{h})
	return h.WithImageFallback(), nil
}

// SearchCities looks up places by name; results are memoized per query.
func (c *Coordinator) SearchCities(ctx context.Context, q string) error {
	c.mu.Lock()
	if utf8.RuneCountInString(strings.TrimSpace(q)) < MinCityQuery {
		c.st.Cities = nil
		c.mu.Unlock()
		return nil
	}
	if cs, ok := c.cityMemo[q]; ok {
		c.st.Cities = cs
		c.mu.Unlock()
		return nil
	}
	c.citySeq++
	seq := c.citySeq
	c.st.CitiesLoading = true
	c.st.CityErr = ""
	c.mu.Unlock()

	cs, err := c.backend.Cities(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		c.cityMemo[q] = cs
	}
	if seq != c.citySeq {
		return nil
	}
	c.st.CitiesLoading = false
	if err != nil {
		c.st.CityErr = ErrCitiesFailed
		return surface(err)
	}
	c.st.Cities = cs
	return nil
}

// UpdateCityQuery records what the user typed and searches after the debounce window.
func (c *Coordinator) UpdateCityQuery(q string) {
	c.mu.Lock()
	c.st.CityQuery = q
	c.mu.Unlock()
	c.cityTimer.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
		defer cancel()
		if err := c.SearchCities(ctx, q); err != nil {
			log.Error().Err(err).Str("q", q).Msg("city search failed")
		}
	})
}

// SelectCity filters by the city's place and clears the text query and city search.
func (c *Coordinator) SelectCity(city domain.City) {
	c.ClearCitySearch()
	id := city.PlaceID
	c.UpdateFilters(func(f *domain.FilterState) {
		f.PlaceID = &id
		f.SearchQuery = ""
	})
}

func (c *Coordinator) ClearCitySearch() {
	c.cityTimer.Cancel()
	c.mu.Lock()
	c.citySeq++
	c.st.CityQuery = ""
	c.st.Cities = nil
	c.st.CityErr = ""
	c.st.CitiesLoading = false
	c.mu.Unlock()
}

// PriceSummary describes the prices on the current page.
func (c *Coordinator) PriceSummary() query.PriceSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return query.PriceSummaryOf(c.st.Hotels)
}
