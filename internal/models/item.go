// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Item represents a single menu item. An item always belongs to exactly
// one category while it is live. Calories may be unknown (nil), in which
// case the item is excluded from calorie ranking.
type Item struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Price        float64    `json:"price"`
	Calories     *int       `json:"calories"`
	ImageURL     string     `json:"image_url"`
	CategoryID   uuid.UUID  `json:"category_id"`
	IsAvailable  bool       `json:"is_available"`
	TotalOrders  int        `json:"total_orders"`
	IsBestSeller bool       `json:"is_best_seller"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"-"`

	// CategoryName is joined in by store queries for display convenience.
	CategoryName string `json:"category_name"`
}

// ItemPage is one page of a paginated item listing.
type ItemPage struct {
	Items      []Item `json:"items"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	TotalItems int64  `json:"total_items"`
	TotalPages int    `json:"total_pages"`
}
