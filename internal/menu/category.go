// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package menu

import (
	"strings"

	"github.com/google/uuid"

	"cheko/internal/apperr"
	"cheko/internal/models"
)

// TotalCountKey is the synthetic key carrying the overall live item
// count in ItemCountsByCategory results.
const TotalCountKey = "total"

// CategoryInput carries the caller-editable category fields.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IconName    string `json:"icon_name"`
}

// Categories returns all live categories with their live item counts.
func (s *Service) Categories() ([]models.Category, error) {
	cats, err := s.categories.List()
	if err != nil {
		return nil, storeErr(err)
	}
	return cats, nil
}

// GetCategory returns a single live category.
func (s *Service) GetCategory(id uuid.UUID) (*models.Category, error) {
	cat, err := s.categories.FindByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if cat == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "category %s", id)
	}
	return cat, nil
}

// CreateCategory inserts a new category, enforcing live-name uniqueness.
func (s *Service) CreateCategory(in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "name is required")
	}

	exists, err := s.categories.ExistsByName(name, nil)
	if err != nil {
		return nil, storeErr(err)
	}
	if exists {
		return nil, apperr.Wrap(apperr.ErrConflict, "category %q already exists", name)
	}

	created, err := s.categories.Create(&models.Category{
		Name:        name,
		Description: in.Description,
		IconName:    in.IconName,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return created, nil
}

// UpdateCategory renames or redescribes an existing live category.
func (s *Service) UpdateCategory(id uuid.UUID, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "name is required")
	}

	existing, err := s.categories.FindByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if existing == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "category %s", id)
	}

	exists, err := s.categories.ExistsByName(name, &id)
	if err != nil {
		return nil, storeErr(err)
	}
	if exists {
		return nil, apperr.Wrap(apperr.ErrConflict, "category %q already exists", name)
	}

	existing.Name = name
	existing.Description = in.Description
	existing.IconName = in.IconName
	if err := s.categories.Update(existing); err != nil {
		return nil, storeErr(err)
	}
	return s.GetCategory(id)
}

// DeleteCategory soft-deletes a category. A category still referenced
// by live items cannot be deleted; reassign or delete the items first.
func (s *Service) DeleteCategory(id uuid.UUID) error {
	cat, err := s.categories.FindByID(id)
	if err != nil {
		return storeErr(err)
	}
	if cat == nil {
		return apperr.Wrap(apperr.ErrNotFound, "category %s", id)
	}

	n, err := s.categories.LiveItemCount(id)
	if err != nil {
		return storeErr(err)
	}
	if n > 0 {
		return apperr.Wrap(apperr.ErrConflict,
			"category %q still has %d live items", cat.Name, n)
	}

	ok, err := s.categories.SoftDelete(id)
	if err != nil {
		return storeErr(err)
	}
	if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "category %s", id)
	}
	return nil
}

// ItemCountsByCategory returns the live item count per live category
// plus a "total" entry summing them. Empty categories appear with zero.
func (s *Service) ItemCountsByCategory() (map[string]int, error) {
	counts, err := s.items.CountsByCategory()
	if err != nil {
		return nil, storeErr(err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	counts[TotalCountKey] = total
	return counts, nil
}
