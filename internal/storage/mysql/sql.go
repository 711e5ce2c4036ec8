package mysql

// -----------------------------------------------------------------------------
// HOTELS
// -----------------------------------------------------------------------------

const insertHotelSQL = `
INSERT INTO hotels
  (name, location_id, description, phone, whatsapp, address, whatsapp_template, amenities, images, created_at, updated_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updateHotelSQL = `
UPDATE hotels SET
  name              = ?,
  location_id       = ?,
  description       = ?,
  phone             = ?,
  whatsapp          = ?,
  address           = ?,
  whatsapp_template = ?,
  amenities         = ?,
  images            = ?,
  updated_at        = ?
WHERE id = ?
`

const deleteHotelSQL = `DELETE FROM hotels WHERE id = ?`

const deleteRoomsSQL = `DELETE FROM hotel_rooms WHERE hotel_id = ?`

const insertRoomsPrefix = "INSERT INTO hotel_rooms (hotel_id, position, type, price) VALUES "

const hotelColumns = `
  h.id, h.name, h.location_id, h.description, h.phone, h.whatsapp, h.address,
  h.whatsapp_template, h.amenities, h.images, h.created_at, h.updated_at`

const getHotelSQL = `SELECT` + hotelColumns + `
FROM hotels h
WHERE h.id = ?
`

const hotelNameExistsSQL = `SELECT EXISTS(SELECT 1 FROM hotels WHERE name = ?)`

// Filtered list; WHERE clause and paging are appended by the repo.
const findHotelsPrefix = `SELECT` + hotelColumns + `
FROM hotels h`

const countHotelsPrefix = `SELECT COUNT(*) FROM hotels h`

const findHotelsOrder = `
ORDER BY h.created_at DESC, h.id DESC
LIMIT ? OFFSET ?`

// At least one room within bounds; either bound may be open.
const roomPriceExists = `EXISTS (
  SELECT 1 FROM hotel_rooms r
  WHERE r.hotel_id = h.id
    AND (? IS NULL OR r.price >= ?)
    AND (? IS NULL OR r.price <= ?)
)`

const searchHotelsSQL = `SELECT` + hotelColumns + `,
  MATCH(h.name, h.description) AGAINST (? IN NATURAL LANGUAGE MODE) AS score
FROM hotels h
WHERE MATCH(h.name, h.description) AGAINST (? IN NATURAL LANGUAGE MODE)
ORDER BY score DESC, h.id DESC
LIMIT ?
`

// Rooms for a set of hotels, in stored order; IN list appended by the repo.
const roomsForHotelsPrefix = `SELECT hotel_id, type, price FROM hotel_rooms WHERE hotel_id IN `

// -----------------------------------------------------------------------------
// LOCATIONS
// -----------------------------------------------------------------------------

const locationColumns = `id, state, cities, created_at, updated_at`

const listLocationsSQL = `SELECT ` + locationColumns + ` FROM locations ORDER BY state`

const getLocationsPrefix = `SELECT ` + locationColumns + ` FROM locations WHERE id IN `

const locationByStateSQL = `SELECT ` + locationColumns + ` FROM locations WHERE state = ?`

const findLocationIDsSQL = `
SELECT id FROM locations
WHERE (? IS NULL OR state = ?)
  AND (? IS NULL OR JSON_CONTAINS(cities, JSON_QUOTE(?)))
ORDER BY id
`

const insertLocationSQL = `INSERT INTO locations (state, cities) VALUES (?, ?)`

const saveCitiesSQL = `UPDATE locations SET cities = ? WHERE id = ?`

// -----------------------------------------------------------------------------
// USERS
// -----------------------------------------------------------------------------

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

const insertUserSQL = `
INSERT INTO users (name, email, password_hash, role, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

const updateUserSQL = `
UPDATE users SET name = ?, email = ?, password_hash = ?, role = ?, updated_at = ?
WHERE id = ?
`

const deleteUserSQL = `DELETE FROM users WHERE id = ?`

const getUserSQL = `SELECT ` + userColumns + ` FROM users WHERE id = ?`

const userByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = ?`

// Search is a lower-cased LIKE pattern or NULL.
const listUsersWhere = `
WHERE id <> ?
  AND (? IS NULL OR LOWER(name) LIKE ? OR LOWER(email) LIKE ?)`

const listUsersSQL = `SELECT ` + userColumns + ` FROM users` + listUsersWhere + `
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

const countUsersSQL = `SELECT COUNT(*) FROM users` + listUsersWhere
