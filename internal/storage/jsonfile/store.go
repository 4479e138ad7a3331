// Package jsonfile serves the catalog from a static JSON document of the form
// {"hotels": [...], "places": [...]}.
package jsonfile

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"hotel_search/internal/domain"
)

type document struct {
	Hotels []domain.Hotel `json:"hotels"`
	Places []domain.Place `json:"places"`
}

// Store is immutable after construction and safe for concurrent reads.
type Store struct {
	hotels  []domain.Hotel
	places  []domain.Place
	byID    map[int64]int
	byPlace map[int64][]int
}

func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Store, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode dataset")
	}
	return New(doc.Hotels, doc.Places)
}

// New validates every record; the first bad one fails the load.
func New(hotels []domain.Hotel, places []domain.Place) (*Store, error) {
	s := &Store{
		hotels:  hotels,
		places:  places,
		byID:    make(map[int64]int, len(hotels)),
		byPlace: map[int64][]int{},
	}
	known := make(map[int64]struct{}, len(places))
	for _, p := range places {
		if _, dup := known[p.ID]; dup {
			return nil, domain.Invalidf("place %d: duplicate id", p.ID)
		}
		known[p.ID] = struct{}{}
	}
	for i, h := range hotels {
		if err := h.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.byID[h.ID]; dup {
			return nil, domain.Invalidf("hotel %d: duplicate id", h.ID)
		}
		if _, ok := known[h.PlaceID]; !ok {
			return nil, domain.Invalidf("hotel %d: unknown place %d", h.ID, h.PlaceID)
		}
		s.byID[h.ID] = i
		s.byPlace[h.PlaceID] = append(s.byPlace[h.PlaceID], i)
	}
	return s, nil
}

func (s *Store) Hotels(ctx context.Context) ([]domain.Hotel, error) {
	return s.hotels, nil
}

func (s *Store) Places(ctx context.Context) ([]domain.Place, error) {
	return s.places, nil
}

func (s *Store) Hotel(ctx context.Context, id int64) (domain.Hotel, error) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Hotel{}, domain.NotFoundf("hotel %d not found", id)
	}
	return s.hotels[i], nil
}

func (s *Store) HotelsByPlace(ctx context.Context, placeID int64) ([]domain.Hotel, error) {
	idx := s.byPlace[placeID]
	out := make([]domain.Hotel, len(idx))
	for i, j := range idx {
		out[i] = s.hotels[j]
	}
	return out, nil
}
