package mysql

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/cockroachdb/errors"

	"hotel_search/internal/domain"
)

// jsonList encodes a string list for a JSON column; nil becomes [].
func jsonList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

// Repo is the persisted catalog.
type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertPlace(ctx context.Context, p domain.Place) error {
	_, err := r.db.ExecContext(ctx, upsertPlaceSQL, p.ID, p.Name, p.State, p.Country)
	return err
}

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	amen, err := jsonList(h.Amenities)
	if err != nil {
		return errors.Wrap(err, "encode amenities")
	}
	imgs, err := jsonList(h.Images)
	if err != nil {
		return errors.Wrap(err, "encode images")
	}
	_, err = r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		h.Name,
		h.Description,
		h.Stars,
		h.TotalPrice,
		h.DailyPrice,
		h.Tax,
		h.Thumb,
		imgs,
		amen,
		h.HasBreakFast,
		h.HasRefundableRoom,
		h.District,
		h.PlaceID,
	)
	return err
}

func (r *Repo) Hotels(ctx context.Context) ([]domain.Hotel, error) {
	return r.queryHotels(ctx, listHotelsSQL)
}

func (r *Repo) HotelsByPlace(ctx context.Context, placeID int64) ([]domain.Hotel, error) {
	return r.queryHotels(ctx, hotelsByPlaceSQL, placeID)
}

func (r *Repo) Hotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hotel{}, domain.NotFoundf("hotel %d not found", id)
	}
	return h, err
}

func (r *Repo) Places(ctx context.Context) ([]domain.Place, error) {
	rows, err := r.db.QueryContext(ctx, listPlacesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Place{}
	for rows.Next() {
		var p domain.Place
		var country sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &p.State, &country); err != nil {
			return nil, err
		}
		p.Country = country.String
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) queryHotels(ctx context.Context, q string, args ...any) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Hotel{}
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanHotel(s scanner) (domain.Hotel, error) {
	var h domain.Hotel
	var desc, thumb, district sql.NullString
	var imagesJSON, amenitiesJSON []byte
	if err := s.Scan(
		&h.ID,
		&h.Name,
		&desc,
		&h.Stars,
		&h.TotalPrice,
		&h.DailyPrice,
		&h.Tax,
		&thumb,
		&imagesJSON,
		&amenitiesJSON,
		&h.HasBreakFast,
		&h.HasRefundableRoom,
		&district,
		&h.PlaceID,
	); err != nil {
		return domain.Hotel{}, err
	}
	h.Description = desc.String
	h.Thumb = thumb.String
	h.District = district.String

	if len(amenitiesJSON) > 0 {
		if err := json.Unmarshal(amenitiesJSON, &h.Amenities); err != nil {
			return domain.Hotel{}, errors.Wrapf(err, "hotel %d: decode amenities", h.ID)
		}
	}
	if h.Amenities == nil {
		h.Amenities = []string{}
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &h.Images); err != nil {
			return domain.Hotel{}, errors.Wrapf(err, "hotel %d: decode images", h.ID)
		}
	}
	if len(h.Images) == 0 {
		h.Images = nil
	}
	return h, nil
}
