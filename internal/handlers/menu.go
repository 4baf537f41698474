// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"cheko/internal/apperr"
	"cheko/internal/cache"
	"cheko/internal/menu"
	"cheko/internal/storage"
)

// maxImageSize caps item image uploads at 10 MiB.
const maxImageSize = 10 << 20

// Menu groups all menu-related HTTP handlers.
type Menu struct {
	svc     *menu.Service
	cache   *cache.ResponseCache
	storage *storage.Client // nil when object storage is not configured
}

// NewMenu creates a new Menu handler group.
func NewMenu(svc *menu.Service, rc *cache.ResponseCache, st *storage.Client) *Menu {
	return &Menu{svc: svc, cache: rc, storage: st}
}

// pageRequest pulls pagination and sorting off the query string.
func pageRequest(r *http.Request) (menu.PageRequest, error) {
	page, err := queryInt(r, "page", 0)
	if err != nil {
		return menu.PageRequest{}, err
	}
	size, err := queryInt(r, "size", 0)
	if err != nil {
		return menu.PageRequest{}, err
	}
	return menu.PageRequest{
		Page: page,
		Size: size,
		Sort: r.URL.Query().Get("sort"),
	}, nil
}

// ListItems serves GET /api/menu/items. The q, category, best_seller,
// and available parameters are optional and AND-combined.
func (h *Menu) ListItems(w http.ResponseWriter, r *http.Request) {
	p, err := pageRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bestSeller, err := queryBoolPtr(r, "best_seller")
	if err != nil {
		writeError(w, err)
		return
	}
	available, err := queryBoolPtr(r, "available")
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	result, err := h.svc.SearchAndFilter(q.Get("q"), q.Get("category"), bestSeller, available, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SearchItems serves GET /api/menu/items/search?q=...: free-text search
// over item names and descriptions. A blank query returns the full list.
func (h *Menu) SearchItems(w http.ResponseWriter, r *http.Request) {
	p, err := pageRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	result, err := h.svc.Search(r.URL.Query().Get("q"), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ItemsByCalories serves GET /api/menu/items/calories with optional min
// and max bounds, highest calories first.
func (h *Menu) ItemsByCalories(w http.ResponseWriter, r *http.Request) {
	p, err := pageRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	min, err := queryIntPtr(r, "min")
	if err != nil {
		writeError(w, err)
		return
	}
	max, err := queryIntPtr(r, "max")
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.svc.FilterByCalorieRange(min, max, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetItem serves GET /api/menu/items/{id}.
func (h *Menu) GetItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.svc.GetItem(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateItem serves POST /api/menu/items.
func (h *Menu) CreateItem(w http.ResponseWriter, r *http.Request) {
	var in menu.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.svc.CreateItem(in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateMenu(r.Context())
	writeJSON(w, http.StatusCreated, item)
}

// UpdateItem serves PUT /api/menu/items/{id}.
func (h *Menu) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in menu.ItemInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.svc.UpdateItem(id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateMenu(r.Context())
	writeJSON(w, http.StatusOK, item)
}

// DeleteItem serves DELETE /api/menu/items/{id}.
func (h *Menu) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.DeleteItem(id); err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateMenu(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// UploadItemImage serves POST /api/menu/items/{id}/image. The image
// goes to object storage and its public URL is saved on the item.
func (h *Menu) UploadItemImage(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeError(w, apperr.Wrap(apperr.ErrUnavailable, "object storage not configured"))
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, apperr.Wrap(apperr.ErrInvalidArgument, "invalid multipart form: %v", err))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperr.Wrap(apperr.ErrInvalidArgument, "image field is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, apperr.Wrap(apperr.ErrInvalidArgument, "file must be an image, got %q", contentType))
		return
	}

	key := fmt.Sprintf("items/%s/%s%s", id, uuid.NewString(), path.Ext(header.Filename))
	if err := h.storage.Upload(r.Context(), key, contentType, file, header.Size); err != nil {
		slog.Error("image upload failed", "item", id, "error", err)
		writeError(w, apperr.Wrap(apperr.ErrUnavailable, "image upload failed"))
		return
	}

	url := h.storage.FileURL(key)
	if err := h.svc.SetItemImage(id, url); err != nil {
		// The item vanished between upload and save; drop the orphan.
		if delErr := h.storage.Delete(r.Context(), key); delErr != nil {
			slog.Warn("orphan image cleanup failed", "key", key, "error", delErr)
		}
		writeError(w, err)
		return
	}

	h.cache.InvalidateMenu(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"image_url": url})
}

// RecordOrder serves POST /api/menu/items/{id}/order. Each call adds
// exactly one to the item's cumulative order count.
func (h *Menu) RecordOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.RecordOrder(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BestSellers serves GET /api/menu/best-sellers.
func (h *Menu) BestSellers(w http.ResponseWriter, r *http.Request) {
	if serveCached(w, r, h.cache, cache.KeyBestSellers) {
		return
	}
	items, err := h.svc.BestSellers()
	if err != nil {
		writeError(w, err)
		return
	}
	writeAndCache(w, r, h.cache, cache.KeyBestSellers, items)
}

// RecalculateBestSellers serves POST /api/menu/best-sellers/recalculate,
// the manual trigger for the periodic refresh.
func (h *Menu) RecalculateBestSellers(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RecalculateBestSellers(); err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateMenu(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// CalorieRanking serves GET /api/menu/calorie-ranking: the second-
// highest-calorie item per category that has one.
func (h *Menu) CalorieRanking(w http.ResponseWriter, r *http.Request) {
	if serveCached(w, r, h.cache, cache.KeyCalorieRanking) {
		return
	}
	ranking, err := h.svc.SecondHighestPerCategory()
	if err != nil {
		writeError(w, err)
		return
	}
	writeAndCache(w, r, h.cache, cache.KeyCalorieRanking, ranking)
}

// CalorieRankingForCategory serves GET /api/menu/calorie-ranking/{category}.
func (h *Menu) CalorieRankingForCategory(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.SecondHighestForCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// QualifyingCounts serves GET /api/menu/calorie-ranking-counts: how
// many calorie-carrying items each category has.
func (h *Menu) QualifyingCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.svc.CategoryQualificationCounts()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// Categories serves GET /api/menu/categories.
func (h *Menu) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// CategoryCounts serves GET /api/menu/categories/counts: live item
// count per category plus the "total" entry.
func (h *Menu) CategoryCounts(w http.ResponseWriter, r *http.Request) {
	if serveCached(w, r, h.cache, cache.KeyCategoryCounts) {
		return
	}
	counts, err := h.svc.ItemCountsByCategory()
	if err != nil {
		writeError(w, err)
		return
	}
	writeAndCache(w, r, h.cache, cache.KeyCategoryCounts, counts)
}

// CreateCategory serves POST /api/menu/categories.
func (h *Menu) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in menu.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	cat, err := h.svc.CreateCategory(in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateMenu(r.Context())
	writeJSON(w, http.StatusCreated, cat)
}

// UpdateCategory serves PUT /api/menu/categories/{id}.
func (h *Menu) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var in menu.CategoryInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	cat, err := h.svc.UpdateCategory(id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateMenu(r.Context())
	writeJSON(w, http.StatusOK, cat)
}

// DeleteCategory serves DELETE /api/menu/categories/{id}.
func (h *Menu) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.svc.DeleteCategory(id); err != nil {
		writeError(w, err)
		return
	}
	h.cache.InvalidateMenu(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// serveCached writes a cached response body if one exists.
func serveCached(w http.ResponseWriter, r *http.Request, rc *cache.ResponseCache, key string) bool {
	body, ok := rc.Get(r.Context(), key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Error("cached response write failed", "key", key, "error", err)
	}
	return true
}

// writeAndCache encodes v, stores it under key, and writes it out.
func writeAndCache(w http.ResponseWriter, r *http.Request, rc *cache.ResponseCache, key string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("response encode failed", "key", key, "error", err)
		writeError(w, err)
		return
	}
	rc.Set(r.Context(), key, body)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Error("response write failed", "key", key, "error", err)
	}
}
