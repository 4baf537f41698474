// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"cheko/internal/models"
)

// BranchStore manages restaurant branches in the database.
type BranchStore struct {
	db *sql.DB
}

// NewBranchStore returns a new BranchStore.
func NewBranchStore(db *sql.DB) *BranchStore {
	return &BranchStore{db: db}
}

const branchColumns = `id, name, description, phone, opening_hours, is_active,
	created_at, updated_at, deleted_at`

// scanBranch scans a row into a Branch struct.
func scanBranch(scanner interface{ Scan(...any) error }) (*models.Branch, error) {
	var b models.Branch
	err := scanner.Scan(
		&b.ID, &b.Name, &b.Description, &b.Phone, &b.OpeningHours, &b.IsActive,
		&b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListWithLocations returns live branches with their live locations
// joined in a single query. A branch without a location carries nil.
func (s *BranchStore) ListWithLocations(activeOnly bool) ([]models.Branch, error) {
	query := `
		SELECT b.id, b.name, b.description, b.phone, b.opening_hours, b.is_active,
		       b.created_at, b.updated_at, b.deleted_at,
		       l.id, l.address, l.city, l.state, l.postal_code, l.country,
		       l.latitude, l.longitude, l.map_zoom_level, l.created_at, l.updated_at
		FROM branches b
		LEFT JOIN locations l ON l.branch_id = b.id AND l.deleted_at IS NULL
		WHERE b.deleted_at IS NULL`
	if activeOnly {
		query += ` AND b.is_active = true`
	}
	query += ` ORDER BY b.name, b.id`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list branches with locations: %w", err)
	}
	defer rows.Close()

	var branches []models.Branch
	for rows.Next() {
		var b models.Branch
		var locID uuid.NullUUID
		var addr, city, state, postal, country sql.NullString
		var lat, lng sql.NullFloat64
		var zoom sql.NullInt64
		var locCreated, locUpdated sql.NullTime
		err := rows.Scan(
			&b.ID, &b.Name, &b.Description, &b.Phone, &b.OpeningHours, &b.IsActive,
			&b.CreatedAt, &b.UpdatedAt, &b.DeletedAt,
			&locID, &addr, &city, &state, &postal, &country,
			&lat, &lng, &zoom, &locCreated, &locUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("scan branch with location: %w", err)
		}
		if locID.Valid {
			b.Location = &models.Location{
				ID:           locID.UUID,
				BranchID:     b.ID,
				Address:      addr.String,
				City:         city.String,
				State:        state.String,
				PostalCode:   postal.String,
				Country:      country.String,
				Latitude:     lat.Float64,
				Longitude:    lng.Float64,
				MapZoomLevel: int(zoom.Int64),
				CreatedAt:    locCreated.Time,
				UpdatedAt:    locUpdated.Time,
			}
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

// FindByID retrieves a live branch by ID. Returns nil if not found.
func (s *BranchStore) FindByID(id uuid.UUID) (*models.Branch, error) {
	row := s.db.QueryRow(
		`SELECT `+branchColumns+` FROM branches WHERE id = $1 AND deleted_at IS NULL`, id)
	b, err := scanBranch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find branch by id: %w", err)
	}
	return b, nil
}

// ExistsByName reports whether a live branch with the given name exists,
// case-insensitively, optionally excluding one branch.
func (s *BranchStore) ExistsByName(name string, exclude *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if exclude == nil {
		err = s.db.QueryRow(`
			SELECT EXISTS (
				SELECT 1 FROM branches WHERE deleted_at IS NULL AND lower(name) = lower($1)
			)`, name).Scan(&exists)
	} else {
		err = s.db.QueryRow(`
			SELECT EXISTS (
				SELECT 1 FROM branches WHERE deleted_at IS NULL AND lower(name) = lower($1) AND id <> $2
			)`, name, *exclude).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("branch exists by name: %w", err)
	}
	return exists, nil
}

// Create inserts a new branch and returns it.
func (s *BranchStore) Create(b *models.Branch) (*models.Branch, error) {
	row := s.db.QueryRow(`
		INSERT INTO branches (name, description, phone, opening_hours, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+branchColumns,
		b.Name, b.Description, b.Phone, b.OpeningHours, b.IsActive,
	)
	result, err := scanBranch(row)
	if err != nil {
		return nil, fmt.Errorf("create branch: %w", err)
	}
	return result, nil
}

// Update modifies an existing live branch.
func (s *BranchStore) Update(b *models.Branch) error {
	res, err := s.db.Exec(`
		UPDATE branches SET
			name = $1, description = $2, phone = $3, opening_hours = $4,
			is_active = $5, updated_at = now()
		WHERE id = $6 AND deleted_at IS NULL
	`, b.Name, b.Description, b.Phone, b.OpeningHours, b.IsActive, b.ID)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update branch rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete marks a branch deleted along with its location.
func (s *BranchStore) SoftDelete(id uuid.UUID) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, fmt.Errorf("delete branch begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE branches SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete branch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete branch rows: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	if _, err := tx.Exec(`
		UPDATE locations SET deleted_at = now(), updated_at = now()
		WHERE branch_id = $1 AND deleted_at IS NULL
	`, id); err != nil {
		return false, fmt.Errorf("delete branch location: %w", err)
	}

	return true, tx.Commit()
}
