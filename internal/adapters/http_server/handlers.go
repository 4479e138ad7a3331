// internal/adapters/http_server/handlers.go
package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"hotel_search/internal/adapters/observability"
	"hotel_search/internal/app"
	"hotel_search/internal/domain"
)

// Version is reported by /api/info.
var Version = "1.0.0"

type Handlers struct {
	Q            *app.QueryService
	DefaultLimit int
	MaxLimit     int
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/health", s.health)
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/info", h.info)
		r.Get("/hotels", h.listHotels)
		r.Get("/hotels/search", h.search)
		r.Get("/hotels/filtered", h.filtered)
		r.Get("/hotels/stats", h.stats)
		r.Get("/hotels/{id}", h.getHotel)
		r.Get("/places", h.listPlaces)
		r.Get("/places/{id}/hotels", h.placeHotels)
		r.Get("/cities", h.cities)
		r.Get("/amenities", h.amenities)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": now(),
		"uptime":    time.Since(s.started).Seconds(),
	})
}

func (h *Handlers) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "Hotel Search API",
		"version":     Version,
		"description": "Busca e filtros de hotéis",
		"endpoints": map[string]string{
			"hotels":    "/api/hotels",
			"search":    "/api/hotels/search",
			"filtered":  "/api/hotels/filtered",
			"stats":     "/api/hotels/stats",
			"places":    "/api/places",
			"cities":    "/api/cities",
			"amenities": "/api/amenities",
		},
		"timestamp": now(),
	})
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	hs, err := h.Q.Hotels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, hs)
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilters(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	hs, err := h.Q.Search(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveQuery("search", len(hs))
	writeList(w, hs)
}

func (h *Handlers) filtered(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.Q.Filtered(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	observability.ObserveQuery("filtered", res.Pagination.Total)
	writeData(w, res)
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Q.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, st)
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Invalidf("id must be a number, got %q", raw)
	}
	return id, nil
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	hotel, err := h.Q.Hotel(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	etag := calcETag(hotel)
	// the client already has this version
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	writeData(w, hotel)
}

func (h *Handlers) listPlaces(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Q.Places(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, ps)
}

func (h *Handlers) placeHotels(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	hs, err := h.Q.HotelsByPlace(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, hs)
}

func (h *Handlers) cities(w http.ResponseWriter, r *http.Request) {
	cs, err := h.Q.Cities(r.Context(), r.URL.Query().Get("name_like"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeList(w, cs)
}

func (h *Handlers) amenities(w http.ResponseWriter, r *http.Request) {
	writeList(w, h.Q.Amenities())
}
