package mysql

const upsertPlaceSQL = `
INSERT INTO places
  (id, name, state, country)
VALUES
  (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  state      = VALUES(state),
  country    = VALUES(country),
  updated_at = CURRENT_TIMESTAMP
`

const upsertHotelSQL = `
INSERT INTO hotels
  (id, name, description, stars, total_price, daily_price, tax, thumb, images, amenities,
   has_breakfast, has_refundable_room, district, place_id)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name                = VALUES(name),
  description         = VALUES(description),
  stars               = VALUES(stars),
  total_price         = VALUES(total_price),
  daily_price         = VALUES(daily_price),
  tax                 = VALUES(tax),
  thumb               = VALUES(thumb),
  images              = VALUES(images),
  amenities           = VALUES(amenities),
  has_breakfast       = VALUES(has_breakfast),
  has_refundable_room = VALUES(has_refundable_room),
  district            = VALUES(district),
  place_id            = VALUES(place_id),
  updated_at          = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Rows come back in id order, which is the dataset order the engine relies on
// when no sort key is given.
const selectHotelsSQL = `
SELECT
  id, name, description, stars, total_price, daily_price, tax, thumb, images, amenities,
  has_breakfast, has_refundable_room, district, place_id
FROM hotels
`

const listHotelsSQL = selectHotelsSQL + `ORDER BY id`

const getHotelSQL = selectHotelsSQL + `WHERE id = ?`

const hotelsByPlaceSQL = selectHotelsSQL + `WHERE place_id = ? ORDER BY id`

const listPlacesSQL = `
SELECT id, name, state, country
FROM places
ORDER BY id
`
