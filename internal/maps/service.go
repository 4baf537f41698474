// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package maps serves the branch map: marker listing, text search,
// city/state filtering, and the nearest-branch radius lookup. Branch
// and location management lives here too since the map is their only
// consumer.
package maps

import (
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"cheko/internal/apperr"
	"cheko/internal/models"
	"cheko/internal/store"
)

// Marker presentation defaults for the Mapbox frontend.
const (
	markerColor      = "#FF6B35"
	markerIcon       = "restaurant"
	defaultZoomLevel = 15
	maxRadiusKm      = 500
)

// Service wraps the branch and location stores with the map business
// rules.
type Service struct {
	branches  *store.BranchStore
	locations *store.LocationStore
}

// NewService creates the map service.
func NewService(branches *store.BranchStore, locations *store.LocationStore) *Service {
	return &Service{branches: branches, locations: locations}
}

// BranchInput carries the caller-editable branch fields.
type BranchInput struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Phone        string `json:"phone"`
	OpeningHours string `json:"opening_hours"`
	IsActive     bool   `json:"is_active"`
}

// LocationInput carries the caller-editable location fields.
type LocationInput struct {
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postal_code"`
	Country      string  `json:"country"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	MapZoomLevel int     `json:"map_zoom_level"`
}

// decorate fills in the presentation fields the store does not persist.
func decorate(markers []models.MapMarker) []models.MapMarker {
	for i := range markers {
		m := &markers[i]
		m.MarkerColor = markerColor
		m.MarkerIcon = markerIcon
		if m.MapZoomLevel == 0 {
			m.MapZoomLevel = defaultZoomLevel
		}
		m.PopupContent = popupHTML(m)
	}
	return markers
}

// popupHTML renders the marker popup. All user-controlled fields are
// escaped.
func popupHTML(m *models.MapMarker) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="marker-popup"><h3>%s</h3>`, html.EscapeString(m.BranchName))
	if m.Address != "" {
		fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(m.Address))
	}
	if m.Phone != "" {
		fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(m.Phone))
	}
	if m.OpeningHours != "" {
		fmt.Fprintf(&b, `<p>%s</p>`, html.EscapeString(m.OpeningHours))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// Markers returns all active-branch markers for the public map.
func (s *Service) Markers() ([]models.MapMarker, error) {
	markers, err := s.locations.Markers()
	if err != nil {
		return nil, storeErr(err)
	}
	return decorate(markers), nil
}

// SearchMarkers matches the query against branch name, address, and
// description. An empty query returns all markers.
func (s *Service) SearchMarkers(query string) ([]models.MapMarker, error) {
	if strings.TrimSpace(query) == "" {
		return s.Markers()
	}
	markers, err := s.locations.SearchMarkers(query)
	if err != nil {
		return nil, storeErr(err)
	}
	return decorate(markers), nil
}

// SearchMarkersByBranchName matches only branch names.
func (s *Service) SearchMarkersByBranchName(query string) ([]models.MapMarker, error) {
	if strings.TrimSpace(query) == "" {
		return s.Markers()
	}
	markers, err := s.locations.SearchMarkersByBranchName(query)
	if err != nil {
		return nil, storeErr(err)
	}
	return decorate(markers), nil
}

// SearchMarkersByAddress matches only addresses.
func (s *Service) SearchMarkersByAddress(query string) ([]models.MapMarker, error) {
	if strings.TrimSpace(query) == "" {
		return s.Markers()
	}
	markers, err := s.locations.SearchMarkersByAddress(query)
	if err != nil {
		return nil, storeErr(err)
	}
	return decorate(markers), nil
}

// FilterMarkers AND-combines the optional query, city, state, and
// active predicates.
func (s *Service) FilterMarkers(query, city, state string, active *bool) ([]models.MapMarker, error) {
	markers, err := s.locations.FilterMarkers(query, city, state, active)
	if err != nil {
		return nil, storeErr(err)
	}
	return decorate(markers), nil
}

// Nearby returns markers within radiusKm of the point, nearest first.
func (s *Service) Nearby(lat, lng, radiusKm float64) ([]models.MapMarker, error) {
	if lat < -90 || lat > 90 {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "latitude out of range: %v", lat)
	}
	if lng < -180 || lng > 180 {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "longitude out of range: %v", lng)
	}
	if radiusKm <= 0 || radiusKm > maxRadiusKm {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument,
			"radius must be between 0 and %d km: %v", maxRadiusKm, radiusKm)
	}
	markers, err := s.locations.Nearby(lat, lng, radiusKm)
	if err != nil {
		return nil, storeErr(err)
	}
	return decorate(markers), nil
}

// Cities returns the distinct cities with an active branch.
func (s *Service) Cities() ([]string, error) {
	cities, err := s.locations.Cities()
	if err != nil {
		return nil, storeErr(err)
	}
	return cities, nil
}

// States returns the distinct states with an active branch.
func (s *Service) States() ([]string, error) {
	states, err := s.locations.States()
	if err != nil {
		return nil, storeErr(err)
	}
	return states, nil
}

// Branches lists live branches with their locations joined in.
// activeOnly hides inactive branches for public callers.
func (s *Service) Branches(activeOnly bool) ([]models.Branch, error) {
	branches, err := s.branches.ListWithLocations(activeOnly)
	if err != nil {
		return nil, storeErr(err)
	}
	return branches, nil
}

// GetBranch returns one live branch with its location.
func (s *Service) GetBranch(id uuid.UUID) (*models.Branch, error) {
	b, err := s.branches.FindByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if b == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "branch %s", id)
	}
	loc, err := s.locations.FindByBranchID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	b.Location = loc
	return b, nil
}

// CreateBranch inserts a new branch, enforcing live-name uniqueness.
func (s *Service) CreateBranch(in BranchInput) (*models.Branch, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "name is required")
	}

	exists, err := s.branches.ExistsByName(name, nil)
	if err != nil {
		return nil, storeErr(err)
	}
	if exists {
		return nil, apperr.Wrap(apperr.ErrConflict, "branch %q already exists", name)
	}

	created, err := s.branches.Create(&models.Branch{
		Name:         name,
		Description:  in.Description,
		Phone:        in.Phone,
		OpeningHours: in.OpeningHours,
		IsActive:     in.IsActive,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return created, nil
}

// UpdateBranch modifies an existing live branch.
func (s *Service) UpdateBranch(id uuid.UUID, in BranchInput) (*models.Branch, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "name is required")
	}

	existing, err := s.branches.FindByID(id)
	if err != nil {
		return nil, storeErr(err)
	}
	if existing == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "branch %s", id)
	}

	exists, err := s.branches.ExistsByName(name, &id)
	if err != nil {
		return nil, storeErr(err)
	}
	if exists {
		return nil, apperr.Wrap(apperr.ErrConflict, "branch %q already exists", name)
	}

	existing.Name = name
	existing.Description = in.Description
	existing.Phone = in.Phone
	existing.OpeningHours = in.OpeningHours
	existing.IsActive = in.IsActive
	if err := s.branches.Update(existing); err != nil {
		return nil, storeErr(err)
	}
	return s.GetBranch(id)
}

// DeleteBranch soft-deletes a branch and its location.
func (s *Service) DeleteBranch(id uuid.UUID) error {
	ok, err := s.branches.SoftDelete(id)
	if err != nil {
		return storeErr(err)
	}
	if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "branch %s", id)
	}
	return nil
}

// SetLocation creates or replaces a branch's location.
func (s *Service) SetLocation(branchID uuid.UUID, in LocationInput) (*models.Location, error) {
	if in.Latitude < -90 || in.Latitude > 90 {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "latitude out of range: %v", in.Latitude)
	}
	if in.Longitude < -180 || in.Longitude > 180 {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "longitude out of range: %v", in.Longitude)
	}
	if strings.TrimSpace(in.Address) == "" {
		return nil, apperr.Wrap(apperr.ErrInvalidArgument, "address is required")
	}

	b, err := s.branches.FindByID(branchID)
	if err != nil {
		return nil, storeErr(err)
	}
	if b == nil {
		return nil, apperr.Wrap(apperr.ErrNotFound, "branch %s", branchID)
	}

	zoom := in.MapZoomLevel
	if zoom == 0 {
		zoom = defaultZoomLevel
	}

	loc, err := s.locations.Upsert(&models.Location{
		BranchID:     branchID,
		Address:      strings.TrimSpace(in.Address),
		City:         in.City,
		State:        in.State,
		PostalCode:   in.PostalCode,
		Country:      in.Country,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		MapZoomLevel: zoom,
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return loc, nil
}

// storeErr maps storage failures to the Unavailable kind.
func storeErr(err error) error {
	return apperr.Wrap(apperr.ErrUnavailable, "%v", err)
}
