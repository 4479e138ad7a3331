package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"

	"hotel_search/internal/domain"
)

// SeedService copies a source catalog into a writable store.
type SeedService struct {
	src   domain.Catalog
	dst   domain.CatalogWriter
	cache domain.Cache
}

func NewSeedService(src domain.Catalog, dst domain.CatalogWriter, cache domain.Cache) *SeedService {
	return &SeedService{src: src, dst: dst, cache: cache}
}

// SeedPlaces writes every place. Hotels reference places, so this runs first.
func (s *SeedService) SeedPlaces(ctx context.Context) (int, error) {
	ps, err := s.src.Places(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "read places")
	}
	for _, p := range ps {
		if err := s.dst.UpsertPlace(ctx, p); err != nil {
			return 0, errors.Wrapf(err, "upsert place %d", p.ID)
		}
	}
	return len(ps), nil
}

// HotelIDs lists what SeedHotel can be called with.
func (s *SeedService) HotelIDs(ctx context.Context) ([]int64, error) {
	hs, err := s.src.Hotels(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read hotels")
	}
	ids := make([]int64, len(hs))
	for i, h := range hs {
		ids[i] = h.ID
	}
	return ids, nil
}

// SeedHotel validates and upserts one hotel, then evicts its cached copy.
// Safe for concurrent use when the writer is.
func (s *SeedService) SeedHotel(ctx context.Context, id int64) error {
	h, err := s.src.Hotel(ctx, id)
	if err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		return err
	}
	if err := s.dst.UpsertHotel(ctx, h); err != nil {
		return errors.Wrapf(err, "upsert hotel %d", id)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, hotelKey(id)); err != nil {
			log.Warn().Err(err).Int64("id", id).Msg("cache evict failed")
		}
	}
	return nil
}

// Finish evicts the collection stats once all hotels are written.
func (s *SeedService) Finish(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsKey); err != nil {
		log.Warn().Err(err).Msg("cache evict failed")
	}
}
