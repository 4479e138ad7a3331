package domain

import "context"

// Catalog is the read-only collection the server-side evaluator runs over.
type Catalog interface {
	Hotels(ctx context.Context) ([]Hotel, error)
	Places(ctx context.Context) ([]Place, error)
	Hotel(ctx context.Context, id int64) (Hotel, error)
	HotelsByPlace(ctx context.Context, placeID int64) ([]Hotel, error)
}

// CatalogWriter is implemented by stores the seeder can fill.
type CatalogWriter interface {
	UpsertPlace(ctx context.Context, p Place) error
	UpsertHotel(ctx context.Context, h Hotel) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
