// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package menu

import (
	"strings"

	"cheko/internal/apperr"
	"cheko/internal/models"
)

// minQualifyingItems is the number of calorie-carrying items a category
// needs before a second-highest rank exists.
const minQualifyingItems = 2

// SecondHighestForCategory returns the item ranked second by calorie
// count among the named category's live items. Items without a calorie
// value never participate. Ranking is by value, so two items sharing
// the top value occupy ranks one and two and the second of them (by id)
// is returned. NotFound when the category does not exist or has fewer
// than two qualifying items.
func (s *Service) SecondHighestForCategory(category string) (*models.Item, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "category is required")
	}

	cat, err := s.categories.FindByName(category)
	if err != nil {
		return nil, storeErr(err)
	}
	if cat == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "category %q", category)
	}

	it, err := s.items.SecondHighestCalorie(category)
	if err != nil {
		return nil, storeErr(err)
	}
	if it == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound,
			"category %q has fewer than %d items with calorie data", category, minQualifyingItems)
	}
	return it, nil
}

// SecondHighestPerCategory computes the second-highest-calorie item for
// every category that has one. Categories with fewer than two
// qualifying items are simply absent from the result.
func (s *Service) SecondHighestPerCategory() (map[string]models.Item, error) {
	names, err := s.items.CategoriesWithQualifyingItems(minQualifyingItems)
	if err != nil {
		return nil, storeErr(err)
	}

	result := make(map[string]models.Item, len(names))
	for _, name := range names {
		it, err := s.items.SecondHighestCalorie(name)
		if err != nil {
			return nil, storeErr(err)
		}
		if it != nil {
			result[name] = *it
		}
	}
	return result, nil
}

// CategoryQualificationCounts reports, per live category, how many live
// items carry a calorie value. Zero-count categories are included so
// callers can see why a category is missing from the ranking.
func (s *Service) CategoryQualificationCounts() (map[string]int, error) {
	counts, err := s.items.QualifyingCountsByCategory()
	if err != nil {
		return nil, storeErr(err)
	}
	return counts, nil
}
