// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package menu implements the menu query and ranking engine: item
// listing with search and multi-predicate filtering, the per-category
// calorie ranking, the best-seller recalculation, and the order
// counter. It sits between the HTTP handlers and the SQL stores and
// owns every business rule the stores do not express.
package menu

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"cheko/internal/apperr"
	"cheko/internal/models"
	"cheko/internal/store"
)

// Service wires the item and category stores together with the engine
// configuration. All methods are safe for concurrent use.
type Service struct {
	items      *store.ItemStore
	categories *store.CategoryStore

	bestSellerCount int
	defaultPageSize int

	// recalcMu serializes best-seller recalculations so a timer-driven
	// run and a manual refresh never interleave their reset and assign
	// phases.
	recalcMu sync.Mutex
}

// NewService creates the menu engine. bestSellerCount is the top-N size
// for recalculation; defaultPageSize applies when a caller omits one.
func NewService(items *store.ItemStore, categories *store.CategoryStore, bestSellerCount, defaultPageSize int) *Service {
	return &Service{
		items:           items,
		categories:      categories,
		bestSellerCount: bestSellerCount,
		defaultPageSize: defaultPageSize,
	}
}

// PageRequest carries pagination and sorting for item listings.
// Page is 0-based; Size 0 means the configured default; Sort "" means
// name ascending.
type PageRequest struct {
	Page int
	Size int
	Sort string
}

// ItemInput carries the caller-editable item fields for create/update.
type ItemInput struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Calories    *int      `json:"calories"`
	ImageURL    string    `json:"image_url"`
	CategoryID  uuid.UUID `json:"category_id"`
	IsAvailable bool      `json:"is_available"`
}

// validatePage rejects malformed pagination and unknown sort keys
// before anything reaches the store.
func (s *Service) validatePage(p PageRequest) error {
	if p.Page < 0 {
		return apperr.Wrap(apperr.ErrInvalidArgument, "page index must not be negative")
	}
	if p.Size < 0 {
		return apperr.Wrap(apperr.ErrInvalidArgument, "page size must not be negative")
	}
	if p.Size > store.MaxPageSize {
		return apperr.Wrap(apperr.ErrInvalidArgument, "page size must not exceed %d", store.MaxPageSize)
	}
	if p.Sort != "" && !store.ValidSortKey(p.Sort) {
		return apperr.Wrap(apperr.ErrInvalidArgument, "unknown sort key %q", p.Sort)
	}
	return nil
}

// filterFor builds the store filter for a page request.
func (s *Service) filterFor(p PageRequest) store.ItemFilter {
	size := p.Size
	if size == 0 {
		size = s.defaultPageSize
	}
	return store.ItemFilter{Page: p.Page, Size: size, Sort: p.Sort}
}

// List returns one page of all live items.
func (s *Service) List(p PageRequest) (*models.ItemPage, error) {
	if err := s.validatePage(p); err != nil {
		return nil, err
	}
	page, err := s.items.Find(s.filterFor(p))
	if err != nil {
		return nil, storeErr(err)
	}
	return page, nil
}

// Search returns live items whose name or description contains the
// query, case-insensitively. An empty or whitespace-only query is
// treated as no filter, so Search("") equals List.
func (s *Service) Search(query string, p PageRequest) (*models.ItemPage, error) {
	if err := s.validatePage(p); err != nil {
		return nil, err
	}
	f := s.filterFor(p)
	f.Query = strings.TrimSpace(query)
	page, err := s.items.Find(f)
	if err != nil {
		return nil, storeErr(err)
	}
	return page, nil
}

// SearchAndFilter combines the free-text query with the category,
// best-seller, and availability predicates. Every supplied predicate
// must hold; omitted ones impose no constraint.
func (s *Service) SearchAndFilter(query, category string, bestSeller, available *bool, p PageRequest) (*models.ItemPage, error) {
	if err := s.validatePage(p); err != nil {
		return nil, err
	}
	f := s.filterFor(p)
	f.Query = strings.TrimSpace(query)
	f.Category = category
	f.BestSeller = bestSeller
	f.Available = available
	page, err := s.items.Find(f)
	if err != nil {
		return nil, storeErr(err)
	}
	return page, nil
}

// FilterByCalorieRange returns live items with a known calorie value
// inside the given bounds, highest calories first.
func (s *Service) FilterByCalorieRange(min, max *int, p PageRequest) (*models.ItemPage, error) {
	if err := s.validatePage(p); err != nil {
		return nil, err
	}
	f := s.filterFor(p)
	if f.Sort == "" {
		f.Sort = "calories"
	}
	f.MinCalories = min
	f.MaxCalories = max
	page, err := s.items.Find(f)
	if err != nil {
		return nil, storeErr(err)
	}
	return page, nil
}

// GetItem returns a single live item.
func (s *Service) GetItem(id uuid.UUID) (*models.Item, error) {
	it, err := s.items.FindByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if it == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "item %s", id)
	}
	return it, nil
}

// CreateItem validates the input, enforces live-name uniqueness, and
// inserts the item. The order count and best-seller flag always start
// at zero/false.
func (s *Service) CreateItem(in ItemInput) (*models.Item, error) {
	if err := validateItemInput(in); err != nil {
		return nil, err
	}

	cat, err := s.categories.FindByID(in.CategoryID)
	if err != nil {
		return nil, storeErr(err)
	}
	if cat == nil {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "category %s does not exist", in.CategoryID)
	}

	exists, err := s.items.ExistsByName(in.Name, nil)
	if err != nil {
		return nil, storeErr(err)
	}
	if exists {
		return nil, apperr.Wrap(apperr.ErrConflict, "item %q already exists", in.Name)
	}

	created, err := s.items.Create(&models.Item{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Calories:    in.Calories,
		ImageURL:    in.ImageURL,
		CategoryID:  in.CategoryID,
		IsAvailable: in.IsAvailable,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return created, nil
}

// UpdateItem applies the input to an existing live item with the same
// validation as create; the name-conflict check excludes the item itself.
func (s *Service) UpdateItem(id uuid.UUID, in ItemInput) (*models.Item, error) {
	if err := validateItemInput(in); err != nil {
		return nil, err
	}

	existing, err := s.items.FindByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if existing == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "item %s", id)
	}

	if in.CategoryID != existing.CategoryID {
		cat, err := s.categories.FindByID(in.CategoryID)
		if err != nil {
			return nil, storeErr(err)
		}
		if cat == nil {
			return nil, apperr.Wrap(apperr.ErrInvalidArgument, "category %s does not exist", in.CategoryID)
		}
	}

	exists, err := s.items.ExistsByName(in.Name, &id)
	if err != nil {
		return nil, storeErr(err)
	}
	if exists {
		return nil, apperr.Wrap(apperr.ErrConflict, "item %q already exists", in.Name)
	}

	existing.Name = strings.TrimSpace(in.Name)
	existing.Description = in.Description
	existing.Price = in.Price
	existing.Calories = in.Calories
	existing.ImageURL = in.ImageURL
	existing.CategoryID = in.CategoryID
	existing.IsAvailable = in.IsAvailable

	if err := s.items.Update(existing); err != nil {
		return nil, storeErr(err)
	}
	return s.GetItem(id)
}

// SetItemImage stores the uploaded image URL on a live item.
func (s *Service) SetItemImage(id uuid.UUID, url string) error {
	it, err := s.items.FindByID(id)
	if err != nil {
		return storeErr(err)
	}
	if it == nil {
		return apperr.Wrap(apperr.ErrNotFound, "item %s", id)
	}
	if err := s.items.SetImageURL(id, url); err != nil {
		return storeErr(err)
	}
	return nil
}

// DeleteItem soft-deletes a live item. The name becomes reusable.
func (s *Service) DeleteItem(id uuid.UUID) error {
	ok, err := s.items.SoftDelete(id)
	if err != nil {
		return storeErr(err)
	}
	if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "item %s", id)
	}
	return nil
}

// validateItemInput checks the caller-supplied fields.
func validateItemInput(in ItemInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Wrap(apperr.ErrInvalidArgument, "name is required")
	}
	if in.Price < 0 {
		return apperr.Wrap(apperr.ErrInvalidArgument, "price must not be negative")
	}
	if in.Calories != nil && *in.Calories < 0 {
		return apperr.Wrap(apperr.ErrInvalidArgument, "calories must not be negative")
	}
	if in.CategoryID == uuid.Nil {
		return apperr.Wrap(apperr.ErrInvalidArgument, "category_id is required")
	}
	return nil
}

// storeErr maps storage-layer failures to the Unavailable kind so
// callers can treat them as retriable. Validation never reaches here;
// it happens before the store is touched.
func storeErr(err error) error {
	return apperr.Wrap(apperr.ErrUnavailable, "%v", err)
}
