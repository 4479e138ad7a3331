package domain

import "strconv"

// Hotel is one record of the dataset. Prices are integer minor units (centavos).
type Hotel struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Stars             string   `json:"stars"` // "1".."5"
	TotalPrice        int64    `json:"totalPrice"`
	DailyPrice        int64    `json:"dailyPrice"`
	Tax               int64    `json:"tax"`
	Thumb             string   `json:"thumb"`
	Images            []string `json:"images,omitempty"`
	Amenities         []string `json:"amenities"`
	HasBreakFast      bool     `json:"hasBreakFast"`
	HasRefundableRoom bool     `json:"hasRefundableRoom"`
	District          string   `json:"district"`
	PlaceID           int64    `json:"placeId"`
}

type Place struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Label is the "name, state" form shown next to hotels.
func (p Place) Label() string { return p.Name + ", " + p.State }

type State struct {
	Name      string `json:"name"`
	Shortname string `json:"shortname"`
}

// City is the /cities projection of a Place.
type City struct {
	Name    string `json:"name"`
	State   State  `json:"state"`
	PlaceID int64  `json:"placeId"`
}

func CityOf(p Place) City {
	return City{Name: p.Name, State: State{Name: p.State, Shortname: p.State}, PlaceID: p.ID}
}

// StarValues is the closed set of star ratings.
var StarValues = []string{"1", "2", "3", "4", "5"}

// StarsInt returns the integer value of the rating, 0 when malformed.
func (h Hotel) StarsInt() int {
	n, err := strconv.Atoi(h.Stars)
	if err != nil {
		return 0
	}
	return n
}

func (h Hotel) HasAmenity(key string) bool {
	for _, a := range h.Amenities {
		if a == key {
			return true
		}
	}
	return false
}

// Validate checks the record invariants enforced when a dataset is loaded.
func (h Hotel) Validate() error {
	if h.TotalPrice < 0 || h.DailyPrice < 0 {
		return Invalidf("hotel %d: prices must be non-negative", h.ID)
	}
	if n := h.StarsInt(); n < 1 || n > 5 || strconv.Itoa(n) != h.Stars {
		return Invalidf("hotel %d: stars %q outside 1..5", h.ID, h.Stars)
	}
	for _, a := range h.Amenities {
		if !IsKnownAmenity(a) {
			return Invalidf("hotel %d: unknown amenity %q", h.ID, a)
		}
	}
	return nil
}

// WithImageFallback returns a copy whose Images defaults to the thumbnail.
func (h Hotel) WithImageFallback() Hotel {
	if len(h.Images) == 0 && h.Thumb != "" {
		h.Images = []string{h.Thumb}
	}
	return h
}
