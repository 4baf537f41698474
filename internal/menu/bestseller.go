// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package menu

import (
	"github.com/google/uuid"

	"cheko/internal/apperr"
	"cheko/internal/models"
)

// BestSellers returns the live items currently flagged as best sellers,
// most-ordered first. The set reflects the last recalculation, not the
// live order counts.
func (s *Service) BestSellers() ([]models.Item, error) {
	items, err := s.items.BestSellers()
	if err != nil {
		return nil, storeErr(err)
	}
	return items, nil
}

// RecordOrder atomically adds one to an item's cumulative order count.
// Concurrent calls never lose increments. The best-seller set is left
// alone until the next recalculation.
func (s *Service) RecordOrder(id uuid.UUID) error {
	ok, err := s.items.IncrementOrderCount(id)
	if err != nil {
		return storeErr(err)
	}
	if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "item %s", id)
	}
	return nil
}

// RecalculateBestSellers clears every best-seller flag and re-flags the
// top items by order count, ties broken by name then id. The reset and
// assign run in one transaction, and the mutex serializes overlapping
// triggers so runs queue instead of interleaving.
func (s *Service) RecalculateBestSellers() error {
	s.recalcMu.Lock()
	defer s.recalcMu.Unlock()

	if err := s.items.RecalculateBestSellers(s.bestSellerCount); err != nil {
		return storeErr(err)
	}
	return nil
}
