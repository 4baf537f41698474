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

// CategoryStore manages menu categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, description, icon_name, created_at, updated_at, deleted_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.IconName,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all live categories ordered by name, with live item counts.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.name, c.description, c.icon_name,
		       c.created_at, c.updated_at, c.deleted_at,
		       COUNT(i.id) AS item_count
		FROM categories c
		LEFT JOIN items i ON i.category_id = c.id AND i.deleted_at IS NULL
		WHERE c.deleted_at IS NULL
		GROUP BY c.id
		ORDER BY c.name, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Description, &c.IconName,
			&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt,
			&c.ItemCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a live category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1 AND deleted_at IS NULL`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindByName retrieves a live category by name, case-insensitively.
// Returns nil if not found.
func (s *CategoryStore) FindByName(name string) (*models.Category, error) {
	row := s.db.QueryRow(
		`SELECT `+categoryColumns+` FROM categories
		 WHERE deleted_at IS NULL AND lower(name) = lower($1)`, name)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by name: %w", err)
	}
	return c, nil
}

// ExistsByName reports whether a live category with the given name
// exists, case-insensitively, optionally excluding one category.
func (s *CategoryStore) ExistsByName(name string, exclude *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if exclude == nil {
		err = s.db.QueryRow(`
			SELECT EXISTS (
				SELECT 1 FROM categories WHERE deleted_at IS NULL AND lower(name) = lower($1)
			)`, name).Scan(&exists)
	} else {
		err = s.db.QueryRow(`
			SELECT EXISTS (
				SELECT 1 FROM categories WHERE deleted_at IS NULL AND lower(name) = lower($1) AND id <> $2
			)`, name, *exclude).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("category exists by name: %w", err)
	}
	return exists, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (name, description, icon_name)
		VALUES ($1, $2, $3)
		RETURNING `+categoryColumns,
		c.Name, c.Description, c.IconName,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update modifies an existing live category.
func (s *CategoryStore) Update(c *models.Category) error {
	res, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, description = $2, icon_name = $3, updated_at = now()
		WHERE id = $4 AND deleted_at IS NULL
	`, c.Name, c.Description, c.IconName, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete marks a category deleted. Items referencing it are left
// untouched; the service layer refuses the delete while live items
// still reference the category.
func (s *CategoryStore) SoftDelete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE categories SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category rows: %w", err)
	}
	return n > 0, nil
}

// LiveItemCount returns the number of live items referencing a category.
func (s *CategoryStore) LiveItemCount(id uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM items WHERE category_id = $1 AND deleted_at IS NULL
	`, id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("live item count: %w", err)
	}
	return count, nil
}
