package mysql

const upsertVenueSQL = `
INSERT INTO venues
  (name, position, location, amenities, rating)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  position   = VALUES(position),
  location   = VALUES(location),
  amenities  = VALUES(amenities),
  rating     = VALUES(rating),
  updated_at = CURRENT_TIMESTAMP
`

const deletePricesSQL = `DELETE FROM venue_prices WHERE venue_name = ?`
const insertPriceSQL = `INSERT INTO venue_prices (venue_name, party_size, nightly) VALUES (?, ?, ?)`

const deleteDatesSQL = `DELETE FROM venue_dates WHERE venue_name = ?`
const insertDateSQL = `INSERT INTO venue_dates (venue_name, seq, month) VALUES (?, ?, ?)`

const deleteActivitiesSQL = `DELETE FROM venue_activities WHERE venue_name = ?`
const insertActivityPrefix = "INSERT INTO venue_activities (venue_name, activity) VALUES "

const insertGapSQL = `
INSERT INTO data_gaps (venue_name, party_size, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE reason = VALUES(reason), seen_at = CURRENT_TIMESTAMP
`

const insertRecommendationSQL = `
INSERT INTO recommendations (id, criterion, found, venue_name, total_cost, matches)
VALUES (?, ?, ?, ?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listVenuesSQL = `
SELECT name, location, amenities, rating
FROM venues
ORDER BY position, name
`

const listPricesSQL = `SELECT venue_name, party_size, nightly FROM venue_prices`

const listDatesSQL = `SELECT venue_name, month FROM venue_dates ORDER BY venue_name, seq`

// Activity rows follow catalog order, like the source table they were ingested from.
const listActivitiesSQL = `
SELECT a.venue_name, a.activity
FROM venue_activities a
JOIN venues v ON v.name = a.venue_name
ORDER BY v.position, a.venue_name
`
