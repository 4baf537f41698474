// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Branch represents a restaurant branch. A branch has at most one
// location; inactive branches are kept but hidden from the public map.
type Branch struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Phone        string     `json:"phone"`
	OpeningHours string     `json:"opening_hours"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`

	// Location is joined in by store methods when requested.
	Location *Location `json:"location,omitempty"`
}

// Location carries the geographic data for a branch, used by the map
// endpoints. Coordinates are decimal degrees (WGS84).
type Location struct {
	ID           uuid.UUID  `json:"id"`
	BranchID     uuid.UUID  `json:"branch_id"`
	Address      string     `json:"address"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	PostalCode   string     `json:"postal_code"`
	Country      string     `json:"country"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	MapZoomLevel int        `json:"map_zoom_level"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`
}

// MapMarker is the flattened branch+location shape served to the map
// frontend (Mapbox GL JS).
type MapMarker struct {
	ID           uuid.UUID `json:"id"`
	BranchID     uuid.UUID `json:"branch_id"`
	BranchName   string    `json:"branch_name"`
	Address      string    `json:"address"`
	Description  string    `json:"description"`
	Phone        string    `json:"phone"`
	OpeningHours string    `json:"opening_hours"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	MapZoomLevel int       `json:"map_zoom_level"`
	IsActive     bool      `json:"is_active"`
	MarkerColor  string    `json:"marker_color"`
	MarkerIcon   string    `json:"marker_icon"`
	PopupContent string    `json:"popup_content"`
}
