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

// ItemStore handles all menu-item database operations: filtered listing,
// calorie ranking, order counting, and the best-seller recalculation.
type ItemStore struct {
	db *sql.DB
}

// NewItemStore creates a new ItemStore with the given database connection.
func NewItemStore(db *sql.DB) *ItemStore {
	return &ItemStore{db: db}
}

// itemColumns is the select list shared by every item query. The category
// name is joined in for display convenience.
const itemColumns = `i.id, i.name, i.description, i.price, i.calories, i.image_url,
	i.category_id, i.is_available, i.total_orders, i.is_best_seller,
	i.created_at, i.updated_at, i.deleted_at, c.name AS category_name`

const itemFrom = ` FROM items i JOIN categories c ON i.category_id = c.id AND c.deleted_at IS NULL `

// scanItem scans a row into an Item struct.
func scanItem(scanner interface{ Scan(...any) error }) (*models.Item, error) {
	var it models.Item
	err := scanner.Scan(
		&it.ID, &it.Name, &it.Description, &it.Price, &it.Calories, &it.ImageURL,
		&it.CategoryID, &it.IsAvailable, &it.TotalOrders, &it.IsBestSeller,
		&it.CreatedAt, &it.UpdatedAt, &it.DeletedAt, &it.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Find returns one page of live items matching the filter, plus totals.
// Result ordering is deterministic for identical inputs.
func (s *ItemStore) Find(f ItemFilter) (*models.ItemPage, error) {
	where, args, orderBy, err := buildItemFilter(f)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.QueryRow(`SELECT COUNT(*)`+itemFrom+`WHERE `+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	size := f.pageSize()
	pageArgs := append(args, size, f.Page*size)
	rows, err := s.db.Query(
		`SELECT `+itemColumns+itemFrom+`WHERE `+where+
			` ORDER BY `+orderBy+
			fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		pageArgs...,
	)
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	return &models.ItemPage{
		Items:      items,
		Page:       f.Page,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// FindByID retrieves a live item by ID. Returns nil if not found or
// soft-deleted.
func (s *ItemStore) FindByID(id uuid.UUID) (*models.Item, error) {
	row := s.db.QueryRow(
		`SELECT `+itemColumns+itemFrom+`WHERE i.id = $1 AND i.deleted_at IS NULL`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find item by id: %w", err)
	}
	return it, nil
}

// ExistsByName reports whether a live item with the given name exists,
// case-insensitively. exclude, when non-nil, skips that item (used when
// checking rename conflicts against everything but the item itself).
func (s *ItemStore) ExistsByName(name string, exclude *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if exclude == nil {
		err = s.db.QueryRow(`
			SELECT EXISTS (
				SELECT 1 FROM items WHERE deleted_at IS NULL AND lower(name) = lower($1)
			)`, name).Scan(&exists)
	} else {
		err = s.db.QueryRow(`
			SELECT EXISTS (
				SELECT 1 FROM items WHERE deleted_at IS NULL AND lower(name) = lower($1) AND id <> $2
			)`, name, *exclude).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("item exists by name: %w", err)
	}
	return exists, nil
}

// Create inserts a new item and returns it with the generated ID and the
// joined category name.
func (s *ItemStore) Create(it *models.Item) (*models.Item, error) {
	var id uuid.UUID
	err := s.db.QueryRow(`
		INSERT INTO items (name, description, price, calories, image_url, category_id, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, it.Name, it.Description, it.Price, it.Calories, it.ImageURL, it.CategoryID, it.IsAvailable).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return s.FindByID(id)
}

// Update modifies an existing live item's editable fields. The order
// count and best-seller flag are deliberately not touched here; they
// belong to RecordOrder and RecalculateBestSellers.
func (s *ItemStore) Update(it *models.Item) error {
	res, err := s.db.Exec(`
		UPDATE items SET
			name = $1, description = $2, price = $3, calories = $4,
			image_url = $5, category_id = $6, is_available = $7,
			updated_at = now()
		WHERE id = $8 AND deleted_at IS NULL
	`, it.Name, it.Description, it.Price, it.Calories, it.ImageURL,
		it.CategoryID, it.IsAvailable, it.ID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetImageURL updates just the image reference for a live item.
func (s *ItemStore) SetImageURL(id uuid.UUID, url string) error {
	res, err := s.db.Exec(`
		UPDATE items SET image_url = $1, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
	`, url, id)
	if err != nil {
		return fmt.Errorf("set item image: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set item image rows: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDelete marks an item deleted by setting its deletion timestamp.
// The row is retained; its name becomes reusable.
func (s *ItemStore) SoftDelete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE items SET deleted_at = now(), updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete item rows: %w", err)
	}
	return n > 0, nil
}

// IncrementOrderCount atomically adds one to a live item's cumulative
// order count. Returns false if the item does not exist or is deleted.
// The best-seller flag is not updated here; that happens on the next
// recalculation.
func (s *ItemStore) IncrementOrderCount(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE items SET total_orders = total_orders + 1, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
	`, id)
	if err != nil {
		return false, fmt.Errorf("increment order count: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment order count rows: %w", err)
	}
	return n > 0, nil
}

// BestSellers returns all live items currently flagged as best sellers,
// most-ordered first.
func (s *ItemStore) BestSellers() ([]models.Item, error) {
	rows, err := s.db.Query(
		`SELECT ` + itemColumns + itemFrom +
			`WHERE i.deleted_at IS NULL AND i.is_best_seller = true
			 ORDER BY i.total_orders DESC, i.name ASC, i.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list best sellers: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan best seller: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// RecalculateBestSellers replaces the best-seller set in one transaction:
// every live item's flag is cleared, then the top-k live items by order
// count (ties broken by name, then id) are flagged. With zero live items
// the reset alone commits. The transaction keeps the reset and the assign
// atomic with respect to concurrent recalculations and readers.
func (s *ItemStore) RecalculateBestSellers(k int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("recalculate begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE items SET is_best_seller = false
		WHERE deleted_at IS NULL AND is_best_seller = true
	`); err != nil {
		return fmt.Errorf("recalculate reset: %w", err)
	}

	if _, err := tx.Exec(`
		UPDATE items SET is_best_seller = true
		WHERE id IN (
			SELECT id FROM items
			WHERE deleted_at IS NULL
			ORDER BY total_orders DESC, name ASC, id ASC
			LIMIT $1
		)
	`, k); err != nil {
		return fmt.Errorf("recalculate assign: %w", err)
	}

	return tx.Commit()
}

// SecondHighestCalorie returns the item ranked second by calorie count
// among the named category's live items with known calories. Ranking is
// by value descending with the id tie-break, so two items sharing the
// top value occupy ranks one and two. Returns nil when the category has
// fewer than two qualifying items or does not exist.
func (s *ItemStore) SecondHighestCalorie(categoryName string) (*models.Item, error) {
	row := s.db.QueryRow(
		`SELECT `+itemColumns+itemFrom+
			`WHERE lower(c.name) = lower($1)
			   AND i.deleted_at IS NULL AND i.calories IS NOT NULL
			 ORDER BY i.calories DESC, i.id ASC
			 LIMIT 1 OFFSET 1`, categoryName)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("second highest calorie: %w", err)
	}
	return it, nil
}

// CategoriesWithQualifyingItems returns the names of live categories
// having at least min live items with known calorie values.
func (s *ItemStore) CategoriesWithQualifyingItems(min int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT c.name
		FROM categories c
		JOIN items i ON i.category_id = c.id
		WHERE c.deleted_at IS NULL AND i.deleted_at IS NULL AND i.calories IS NOT NULL
		GROUP BY c.id, c.name
		HAVING COUNT(i.id) >= $1
		ORDER BY c.name
	`, min)
	if err != nil {
		return nil, fmt.Errorf("categories with qualifying items: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// QualifyingCountsByCategory returns, for every live category, how many
// of its live items carry a calorie value. Categories with no qualifying
// items appear with count 0, which explains why a category is missing
// from the calorie ranking.
func (s *ItemStore) QualifyingCountsByCategory() (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT c.name, COUNT(i.id)
		FROM categories c
		LEFT JOIN items i ON i.category_id = c.id
			AND i.deleted_at IS NULL AND i.calories IS NOT NULL
		WHERE c.deleted_at IS NULL
		GROUP BY c.id, c.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("qualifying counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan qualifying count: %w", err)
		}
		counts[name] = count
	}
	return counts, rows.Err()
}

// CountsByCategory returns the number of live items in every live
// category. Categories with zero live items appear with count 0.
func (s *ItemStore) CountsByCategory() (map[string]int, error) {
	rows, err := s.db.Query(`
		SELECT c.name, COUNT(i.id)
		FROM categories c
		LEFT JOIN items i ON i.category_id = c.id AND i.deleted_at IS NULL
		WHERE c.deleted_at IS NULL
		GROUP BY c.id, c.name
		ORDER BY c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("counts by category: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts[name] = count
	}
	return counts, rows.Err()
}
