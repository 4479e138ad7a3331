package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"hotel_search/internal/domain"
	"hotel_search/internal/query"
)

// MinCityQuery is the shortest name_like accepted by Cities.
const MinCityQuery = 3

const statsKey = "stats:all"

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

// QueryService is the server-side evaluator: it runs the shared query engine
// over a Catalog, with cache-aside for the expensive reads.
type QueryService struct {
	catalog  domain.Catalog
	cache    domain.Cache
	cacheTTL time.Duration
}

// NewQueryService accepts a nil cache.
func NewQueryService(c domain.Catalog, cache domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{catalog: c, cache: cache, cacheTTL: ttl}
}

func (s *QueryService) Hotels(ctx context.Context) ([]domain.Hotel, error) {
	hs, err := s.catalog.Hotels(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list hotels")
	}
	return hs, nil
}

func (s *QueryService) Places(ctx context.Context) ([]domain.Place, error) {
	ps, err := s.catalog.Places(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list places")
	}
	return ps, nil
}

func (s *QueryService) Amenities() []domain.Amenity {
	return append([]domain.Amenity(nil), domain.Amenities...)
}

func (s *QueryService) Hotel(ctx context.Context, id int64) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if s.cacheGet(ctx, key, &h) {
		return h, nil
	}
	h, err := s.catalog.Hotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	s.cacheSet(ctx, key, h)
	return h, nil
}

func (s *QueryService) HotelsByPlace(ctx context.Context, placeID int64) ([]domain.Hotel, error) {
	hs, err := s.catalog.HotelsByPlace(ctx, placeID)
	if err != nil {
		return nil, errors.Wrapf(err, "hotels of place %d", placeID)
	}
	return hs, nil
}

// Search applies the filters only; the result keeps dataset order and is not paginated.
func (s *QueryService) Search(ctx context.Context, f domain.FilterState) ([]domain.Hotel, error) {
	hs, ps, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	out := query.Filter(hs, query.PlaceIndex(ps), f)
	if out == nil {
		out = []domain.Hotel{}
	}
	return out, nil
}

// Filtered runs the full query. Invalid requests fail before touching the cache.
func (s *QueryService) Filtered(ctx context.Context, q domain.Query) (domain.FilteredResult, error) {
	if err := query.ValidateRequest(q); err != nil {
		return domain.FilteredResult{}, err
	}
	key, err := filteredKey(q)
	if err != nil {
		return domain.FilteredResult{}, err
	}
	var out domain.FilteredResult
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	hs, ps, err := s.load(ctx)
	if err != nil {
		return domain.FilteredResult{}, err
	}
	out, err = query.Execute(hs, ps, q)
	if err != nil {
		return domain.FilteredResult{}, err
	}
	s.cacheSet(ctx, key, out)
	return out, nil
}

// Stats describes the whole collection, with star and amenity distributions.
func (s *QueryService) Stats(ctx context.Context) (domain.CatalogStats, error) {
	var out domain.CatalogStats
	if s.cacheGet(ctx, statsKey, &out) {
		return out, nil
	}
	hs, err := s.Hotels(ctx)
	if err != nil {
		return domain.CatalogStats{}, err
	}
	out = query.CatalogStatsOf(hs)
	s.cacheSet(ctx, statsKey, out)
	return out, nil
}

// Cities returns places whose name contains nameLike, ignoring accents and case.
// Queries shorter than MinCityQuery yield an empty list.
func (s *QueryService) Cities(ctx context.Context, nameLike string) ([]domain.City, error) {
	nameLike = strings.TrimSpace(nameLike)
	if utf8.RuneCountInString(nameLike) < MinCityQuery {
		return []domain.City{}, nil
	}
	ps, err := s.Places(ctx)
	if err != nil {
		return nil, err
	}
	nq := query.Normalize(nameLike)
	out := []domain.City{}
	for _, p := range ps {
		if strings.Contains(query.Normalize(p.Name), nq) {
			out = append(out, domain.CityOf(p))
		}
	}
	return out, nil
}

// Invalidate drops the cached entries derived from the given hotels and the
// collection stats. Filtered pages expire with the TTL.
func (s *QueryService) Invalidate(ctx context.Context, ids ...int64) {
	if s.cache == nil {
		return
	}
	for _, id := range ids {
		_ = s.cache.Del(ctx, hotelKey(id))
	}
	_ = s.cache.Del(ctx, statsKey)
}

func (s *QueryService) load(ctx context.Context) ([]domain.Hotel, []domain.Place, error) {
	hs, err := s.Hotels(ctx)
	if err != nil {
		return nil, nil, err
	}
	ps, err := s.Places(ctx)
	if err != nil {
		return nil, nil, err
	}
	return hs, ps, nil
}

// cacheGet treats cache failures as misses.
func (s *QueryService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	return ok
}

func (s *QueryService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// filteredKey hashes the canonical JSON of the request; FilterState has a
// fixed field order so equal requests give equal keys.
func filteredKey(q domain.Query) (string, error) {
	b, err := json.Marshal(q)
	if err != nil {
		return "", errors.Wrap(err, "encode query key")
	}
	sum := sha1.Sum(b)
	return "filtered:" + hex.EncodeToString(sum[:]), nil
}
