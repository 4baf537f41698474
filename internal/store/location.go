// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"cheko/internal/models"
)

// LocationStore manages branch locations and serves the map marker
// queries, including the Haversine nearest-branch lookup.
type LocationStore struct {
	db *sql.DB
}

// NewLocationStore returns a new LocationStore.
func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

const locationColumns = `id, branch_id, address, city, state, postal_code, country,
	latitude, longitude, map_zoom_level, created_at, updated_at, deleted_at`

// markerColumns flattens a location with its branch for map display.
const markerColumns = `l.id, l.branch_id, b.name, l.address, b.description, b.phone,
	b.opening_hours, l.latitude, l.longitude, l.city, l.state, l.map_zoom_level, b.is_active`

const markerFrom = ` FROM locations l JOIN branches b ON l.branch_id = b.id `

// scanLocation scans a row into a Location struct.
func scanLocation(scanner interface{ Scan(...any) error }) (*models.Location, error) {
	var l models.Location
	err := scanner.Scan(
		&l.ID, &l.BranchID, &l.Address, &l.City, &l.State, &l.PostalCode, &l.Country,
		&l.Latitude, &l.Longitude, &l.MapZoomLevel, &l.CreatedAt, &l.UpdatedAt, &l.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// scanMarker scans a joined location+branch row into a MapMarker.
func scanMarker(scanner interface{ Scan(...any) error }) (*models.MapMarker, error) {
	var m models.MapMarker
	err := scanner.Scan(
		&m.ID, &m.BranchID, &m.BranchName, &m.Address, &m.Description, &m.Phone,
		&m.OpeningHours, &m.Latitude, &m.Longitude, &m.City, &m.State,
		&m.MapZoomLevel, &m.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// queryMarkers runs a marker query and scans every row.
func (s *LocationStore) queryMarkers(query string, args ...any) ([]models.MapMarker, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query markers: %w", err)
	}
	defer rows.Close()

	var markers []models.MapMarker
	for rows.Next() {
		m, err := scanMarker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan marker: %w", err)
		}
		markers = append(markers, *m)
	}
	return markers, rows.Err()
}

// Markers returns all live locations of active branches, ordered by
// branch name.
func (s *LocationStore) Markers() ([]models.MapMarker, error) {
	return s.queryMarkers(
		`SELECT ` + markerColumns + markerFrom +
			`WHERE l.deleted_at IS NULL AND b.deleted_at IS NULL AND b.is_active = true
			 ORDER BY b.name, l.id`)
}

// SearchMarkers matches the query case-insensitively against branch
// name, address, or branch description.
func (s *LocationStore) SearchMarkers(query string) ([]models.MapMarker, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	return s.queryMarkers(
		`SELECT `+markerColumns+markerFrom+
			`WHERE l.deleted_at IS NULL AND b.deleted_at IS NULL AND b.is_active = true
			   AND (b.name ILIKE $1 OR l.address ILIKE $1 OR b.description ILIKE $1)
			 ORDER BY b.name, l.id`, pattern)
}

// SearchMarkersByBranchName matches only the branch name.
func (s *LocationStore) SearchMarkersByBranchName(query string) ([]models.MapMarker, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	return s.queryMarkers(
		`SELECT `+markerColumns+markerFrom+
			`WHERE l.deleted_at IS NULL AND b.deleted_at IS NULL AND b.is_active = true
			   AND b.name ILIKE $1
			 ORDER BY b.name, l.id`, pattern)
}

// SearchMarkersByAddress matches only the location address.
func (s *LocationStore) SearchMarkersByAddress(query string) ([]models.MapMarker, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"
	return s.queryMarkers(
		`SELECT `+markerColumns+markerFrom+
			`WHERE l.deleted_at IS NULL AND b.deleted_at IS NULL AND b.is_active = true
			   AND l.address ILIKE $1
			 ORDER BY b.name, l.id`, pattern)
}

// FilterMarkers combines an optional text query with optional city,
// state, and active filters, AND-combined. Omitted filters impose no
// constraint; active defaults to unconstrained so admin callers can see
// inactive branches too.
func (s *LocationStore) FilterMarkers(query, city, state string, active *bool) ([]models.MapMarker, error) {
	conds := []string{"l.deleted_at IS NULL", "b.deleted_at IS NULL"}
	var args []any

	if q := strings.TrimSpace(query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(b.name ILIKE $%d OR l.address ILIKE $%d OR b.description ILIKE $%d)", n, n, n))
	}
	if city != "" {
		args = append(args, city)
		conds = append(conds, fmt.Sprintf("lower(l.city) = lower($%d)", len(args)))
	}
	if state != "" {
		args = append(args, state)
		conds = append(conds, fmt.Sprintf("lower(l.state) = lower($%d)", len(args)))
	}
	if active != nil {
		args = append(args, *active)
		conds = append(conds, fmt.Sprintf("b.is_active = $%d", len(args)))
	}

	return s.queryMarkers(
		`SELECT `+markerColumns+markerFrom+
			`WHERE `+strings.Join(conds, " AND ")+
			` ORDER BY b.name, l.id`, args...)
}

// Nearby returns markers within radiusKm of the given point, nearest
// first, using the Haversine great-circle distance (earth radius 6371 km).
func (s *LocationStore) Nearby(lat, lng, radiusKm float64) ([]models.MapMarker, error) {
	const distance = `(6371 * acos(
		least(1.0, cos(radians($1)) * cos(radians(l.latitude::double precision)) *
		cos(radians(l.longitude::double precision) - radians($2)) +
		sin(radians($1)) * sin(radians(l.latitude::double precision)))))`

	return s.queryMarkers(
		`SELECT `+markerColumns+markerFrom+
			`WHERE l.deleted_at IS NULL AND b.deleted_at IS NULL AND b.is_active = true
			   AND `+distance+` <= $3
			 ORDER BY `+distance+` ASC, l.id`,
		lat, lng, radiusKm)
}

// Cities returns the distinct non-empty cities of live, active-branch
// locations, for filter dropdowns.
func (s *LocationStore) Cities() ([]string, error) {
	return s.distinctValues("city")
}

// States returns the distinct non-empty states of live, active-branch
// locations.
func (s *LocationStore) States() ([]string, error) {
	return s.distinctValues("state")
}

// distinctValues returns distinct values of a fixed column name; callers
// pass only "city" or "state".
func (s *LocationStore) distinctValues(column string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT l.` + column + markerFrom +
			`WHERE l.deleted_at IS NULL AND b.deleted_at IS NULL AND b.is_active = true
			   AND l.` + column + ` <> ''
			 ORDER BY l.` + column)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// FindByBranchID retrieves a branch's live location. Returns nil if the
// branch has no location.
func (s *LocationStore) FindByBranchID(branchID uuid.UUID) (*models.Location, error) {
	row := s.db.QueryRow(
		`SELECT `+locationColumns+` FROM locations
		 WHERE branch_id = $1 AND deleted_at IS NULL`, branchID)
	l, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find location by branch: %w", err)
	}
	return l, nil
}

// Upsert creates or replaces a branch's live location. A branch has at
// most one live location, so an existing row is updated in place.
func (s *LocationStore) Upsert(l *models.Location) (*models.Location, error) {
	row := s.db.QueryRow(`
		INSERT INTO locations (branch_id, address, city, state, postal_code, country,
		                       latitude, longitude, map_zoom_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (branch_id) WHERE deleted_at IS NULL DO UPDATE SET
			address = EXCLUDED.address, city = EXCLUDED.city, state = EXCLUDED.state,
			postal_code = EXCLUDED.postal_code, country = EXCLUDED.country,
			latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude,
			map_zoom_level = EXCLUDED.map_zoom_level, updated_at = now()
		RETURNING `+locationColumns,
		l.BranchID, l.Address, l.City, l.State, l.PostalCode, l.Country,
		l.Latitude, l.Longitude, l.MapZoomLevel,
	)
	result, err := scanLocation(row)
	if err != nil {
		return nil, fmt.Errorf("upsert location: %w", err)
	}
	return result, nil
}
