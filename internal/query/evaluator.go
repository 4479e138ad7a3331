package query

import (
	"strings"

	"hotel_search/internal/domain"
)

// Evaluator answers queries over an in-memory collection, e.g. the records
// a client already fetched.
type Evaluator struct {
	hotels []domain.Hotel
	places map[int64]domain.Place
	plist  []domain.Place
}

func NewEvaluator(hotels []domain.Hotel, places []domain.Place) *Evaluator {
	return &Evaluator{hotels: hotels, places: PlaceIndex(places), plist: places}
}

func (e *Evaluator) Evaluate(q domain.Query) (domain.FilteredResult, error) {
	return Execute(e.hotels, e.plist, q)
}

// SearchText is the degraded search used when the API is unreachable:
// text only, over name, district and "place, state".
func (e *Evaluator) SearchText(q string) []domain.Hotel {
	q = strings.TrimSpace(q)
	if q == "" {
		return append([]domain.Hotel(nil), e.hotels...)
	}
	nq := Normalize(q)
	var out []domain.Hotel
	for _, h := range e.hotels {
		fields := []string{h.Name, h.District}
		if p, ok := e.places[h.PlaceID]; ok {
			fields = append(fields, p.Label())
		}
		for _, f := range fields {
			if strings.Contains(Normalize(f), nq) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}
