// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"cheko/internal/apperr"
	"cheko/internal/cache"
	"cheko/internal/maps"
	"cheko/internal/models"
)

// Map groups all branch map HTTP handlers.
type Map struct {
	svc   *maps.Service
	cache *cache.ResponseCache
}

// NewMap creates a new Map handler group.
func NewMap(svc *maps.Service, rc *cache.ResponseCache) *Map {
	return &Map{svc: svc, cache: rc}
}

// Markers serves GET /api/map/markers: all active branches as map
// markers. The unfiltered set is cached.
func (h *Map) Markers(w http.ResponseWriter, r *http.Request) {
	if serveCached(w, r, h.cache, cache.KeyMapMarkers) {
		return
	}
	markers, err := h.svc.Markers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeAndCache(w, r, h.cache, cache.KeyMapMarkers, markers)
}

// SearchMarkers serves GET /api/map/markers/search?q=...&by=name|address.
// Without by, the query matches name, address, and description.
func (h *Map) SearchMarkers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	var markers []models.MapMarker
	var err error
	switch by := r.URL.Query().Get("by"); by {
	case "name":
		markers, err = h.svc.SearchMarkersByBranchName(q)
	case "address":
		markers, err = h.svc.SearchMarkersByAddress(q)
	case "":
		markers, err = h.svc.SearchMarkers(q)
	default:
		writeError(w, apperr.Wrap(apperr.ErrInvalidArgument, "by must be \"name\" or \"address\": %q", by))
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markers)
}

// FilterMarkers serves GET /api/map/markers/filter with optional q,
// city, state, and active parameters, AND-combined.
func (h *Map) FilterMarkers(w http.ResponseWriter, r *http.Request) {
	active, err := queryBoolPtr(r, "active")
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	markers, err := h.svc.FilterMarkers(q.Get("q"), q.Get("city"), q.Get("state"), active)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markers)
}

// Nearby serves GET /api/map/nearby?lat=...&lng=...&radius=... with the
// radius in kilometres, nearest branch first.
func (h *Map) Nearby(w http.ResponseWriter, r *http.Request) {
	lat, err := queryFloat(r, "lat")
	if err != nil {
		writeError(w, err)
		return
	}
	lng, err := queryFloat(r, "lng")
	if err != nil {
		writeError(w, err)
		return
	}
	radius, err := queryFloat(r, "radius")
	if err != nil {
		writeError(w, err)
		return
	}

	markers, err := h.svc.Nearby(lat, lng, radius)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markers)
}

// Cities serves GET /api/map/cities.
func (h *Map) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.svc.Cities()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cities)
}

// States serves GET /api/map/states.
func (h *Map) States(w http.ResponseWriter, r *http.Request) {
	states, err := h.svc.States()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

// Branches serves GET /api/map/branches. Public callers see only
// active branches; authenticated staff see all live ones.
func (h *Map) Branches(w http.ResponseWriter, r *http.Request) {
	includeInactive, err := queryBoolPtr(r, "include_inactive")
	if err != nil {
		writeError(w, err)
		return
	}
	activeOnly := includeInactive == nil || !*includeInactive

	branches, err := h.svc.Branches(activeOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branches)
}

// GetBranch serves GET /api/map/branches/{id}.
func (h *Map) GetBranch(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	branch, err := h.svc.GetBranch(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, branch)
}

// CreateBranch serves POST /api/map/branches.
func (h *Map) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var in maps.BranchInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	branch, err := h.svc.CreateBranch(in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateMap(r.Context())
	writeJSON(w, http.StatusCreated, branch)
}

// UpdateBranch serves PUT /api/map/branches/{id}.
func (h *Map) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in maps.BranchInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	branch, err := h.svc.UpdateBranch(id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateMap(r.Context())
	writeJSON(w, http.StatusOK, branch)
}

// DeleteBranch serves DELETE /api/map/branches/{id}.
func (h *Map) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.DeleteBranch(id); err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateMap(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// SetLocation serves PUT /api/map/branches/{id}/location.
func (h *Map) SetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in maps.LocationInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	loc, err := h.svc.SetLocation(id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateMap(r.Context())
	writeJSON(w, http.StatusOK, loc)
}
