// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"fmt"
	"strings"
)

// Pagination bounds. Size falls back to DefaultPageSize when the caller
// passes zero; anything above MaxPageSize is an error rather than being
// silently clamped.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ItemFilter describes one filtered, sorted, paginated item query.
// Zero-value fields impose no constraint; all supplied predicates are
// combined with AND.
type ItemFilter struct {
	Query       string // case-insensitive substring over name OR description
	Category    string // exact category name, case-insensitive
	BestSeller  *bool
	Available   *bool
	MinCalories *int
	MaxCalories *int
	Page        int    // 0-based page index
	Size        int    // page size; 0 means DefaultPageSize
	Sort        string // one of itemSortKeys; "" means "name"
}

// itemSortKeys maps caller-facing sort keys to ORDER BY fragments. Each
// fragment ends with the id tie-break so pagination stays deterministic
// when the primary key has duplicate values.
var itemSortKeys = map[string]string{
	"name":         "i.name ASC, i.id ASC",
	"price":        "i.price ASC, i.id ASC",
	"calories":     "i.calories DESC, i.id ASC",
	"total_orders": "i.total_orders DESC, i.name ASC, i.id ASC",
	"created_at":   "i.created_at DESC, i.id ASC",
}

// ValidSortKey reports whether key names a supported item sort order.
func ValidSortKey(key string) bool {
	_, ok := itemSortKeys[key]
	return ok
}

// buildItemFilter translates an ItemFilter into a WHERE clause, its
// arguments, and an ORDER BY fragment. The WHERE clause always includes
// the soft-delete guard. Returns an error for unknown sort keys or
// malformed pagination.
func buildItemFilter(f ItemFilter) (where string, args []any, orderBy string, err error) {
	if f.Page < 0 {
		return "", nil, "", fmt.Errorf("page index must not be negative: %d", f.Page)
	}
	if f.Size < 0 {
		return "", nil, "", fmt.Errorf("page size must not be negative: %d", f.Size)
	}
	if f.Size > MaxPageSize {
		return "", nil, "", fmt.Errorf("page size must not exceed %d: %d", MaxPageSize, f.Size)
	}

	sort := f.Sort
	if sort == "" {
		sort = "name"
	}
	orderBy, ok := itemSortKeys[sort]
	if !ok {
		return "", nil, "", fmt.Errorf("unknown sort key: %q", f.Sort)
	}

	conds := []string{"i.deleted_at IS NULL"}

	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(i.name ILIKE $%d OR i.description ILIKE $%d)", n, n))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("lower(c.name) = lower($%d)", len(args)))
	}
	if f.BestSeller != nil {
		args = append(args, *f.BestSeller)
		conds = append(conds, fmt.Sprintf("i.is_best_seller = $%d", len(args)))
	}
	if f.Available != nil {
		args = append(args, *f.Available)
		conds = append(conds, fmt.Sprintf("i.is_available = $%d", len(args)))
	}
	if f.MinCalories != nil {
		args = append(args, *f.MinCalories)
		conds = append(conds, fmt.Sprintf("i.calories >= $%d", len(args)))
	}
	if f.MaxCalories != nil {
		args = append(args, *f.MaxCalories)
		conds = append(conds, fmt.Sprintf("i.calories <= $%d", len(args)))
	}

	return strings.Join(conds, " AND "), args, orderBy, nil
}

// pageSize resolves the effective page size for a filter.
func (f ItemFilter) pageSize() int {
	if f.Size == 0 {
		return DefaultPageSize
	}
	return f.Size
}

// escapeLike escapes LIKE/ILIKE metacharacters so a user query matches
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
