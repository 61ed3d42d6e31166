package media

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aperture-backend/internal/cache"
	"aperture-backend/internal/httpx"
	"aperture-backend/internal/middleware"
	"aperture-backend/internal/transport"
	"aperture-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service  *Service
	val      *validation.Validator
	log      *slog.Logger
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, c cache.Cache, cacheTTL time.Duration) *Handler {
	return &Handler{
		service:  service,
		val:      val,
		log:      log,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 24, 100)
	if err != nil {
		log.Warn("media list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Type:     strings.TrimSpace(r.URL.Query().Get("type")),
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}
	if filter.Type != "" && filter.Type != TypeImage && filter.Type != TypeVideo {
		log.Warn("media list: invalid type filter", slog.String("type", filter.Type))
		transport.WriteError(w, http.StatusBadRequest, "invalid type filter", nil)
		return
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			log.Warn("media list: invalid featured filter", slog.String("featured", raw))
			transport.WriteError(w, http.StatusBadRequest, "invalid featured filter", nil)
			return
		}
		filter.Featured = &featured
	}

	cacheKey := "media:list:" + r.URL.RawQuery
	if h.cache != nil {
		if cached, ok, err := h.cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("media list: cache hit", slog.String("key", cacheKey))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, page, limit, filter)
	if err != nil {
		log.Error("media list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	meta := transport.NewMeta(page, limit, total)
	if h.cache != nil {
		if payload, err := json.Marshal(map[string]interface{}{"data": items, "meta": meta}); err == nil {
			_ = h.cache.Set(r.Context(), cacheKey, payload, h.cacheTTL)
		}
	}

	log.Info("media list: ok", slog.Int("count", len(items)))
	transport.WriteList(w, http.StatusOK, items, meta)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("media get: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("media get: not found", slog.String("media_id", id))
			transport.WriteError(w, http.StatusNotFound, "media item not found", nil)
			return
		}
		log.Error("media get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin media create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin media create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		log.Error("admin media create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.invalidateLists(r.Context())

	log.Info("admin media create: ok", slog.String("media_id", item.ID), slog.String("type", item.Type))
	transport.WriteData(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin media update: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin media update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin media update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin media update: not found", slog.String("media_id", id))
			transport.WriteError(w, http.StatusNotFound, "media item not found", nil)
			return
		}
		log.Error("admin media update: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.invalidateLists(r.Context())

	log.Info("admin media update: ok", slog.String("media_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin media delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin media delete: not found", slog.String("media_id", id))
			transport.WriteError(w, http.StatusNotFound, "media item not found", nil)
			return
		}
		log.Error("admin media delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.invalidateLists(r.Context())

	log.Info("admin media delete: ok", slog.String("media_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) invalidateLists(ctx context.Context) {
	if h.cache != nil {
		_ = h.cache.DeletePrefix(ctx, "media:")
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
