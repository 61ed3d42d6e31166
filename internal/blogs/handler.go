package blogs

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

// PublicList serves published posts only, regardless of query parameters.
func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 10, 50)
	if err != nil {
		log.Warn("blogs public list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	published := true
	filter := ListFilter{
		Category:  strings.TrimSpace(r.URL.Query().Get("category")),
		Published: &published,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("featured")); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			log.Warn("blogs public list: invalid featured filter", slog.String("featured", raw))
			transport.WriteError(w, http.StatusBadRequest, "invalid featured filter", nil)
			return
		}
		filter.Featured = &featured
	}

	cacheKey := "blogs:list:" + r.URL.RawQuery
	if h.cache != nil {
		if cached, ok, err := h.cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("blogs public list: cache hit", slog.String("key", cacheKey))
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
		log.Error("blogs public list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	meta := transport.NewMeta(page, limit, total)
	if h.cache != nil {
		if payload, err := json.Marshal(map[string]interface{}{"data": items, "meta": meta}); err == nil {
			_ = h.cache.Set(r.Context(), cacheKey, payload, h.cacheTTL)
		}
	}

	log.Info("blogs public list: ok", slog.Int("count", len(items)))
	transport.WriteList(w, http.StatusOK, items, meta)
}

func (h *Handler) PublicGetBySlug(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	slug := strings.TrimSpace(chi.URLParam(r, "slug"))
	if slug == "" {
		log.Warn("blogs get by slug: missing slug")
		transport.WriteError(w, http.StatusBadRequest, "missing slug", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("blogs get by slug: not found", slog.String("slug", slug))
			transport.WriteError(w, http.StatusNotFound, "blog not found", nil)
			return
		}
		log.Error("blogs get by slug: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if !item.Published {
		log.Warn("blogs get by slug: not published", slog.String("slug", slug))
		transport.WriteError(w, http.StatusNotFound, "blog not found", nil)
		return
	}

	log.Info("blogs get by slug: ok", slog.String("blog_id", item.ID))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin blogs list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("published")); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			log.Warn("admin blogs list: invalid published filter", slog.String("published", raw))
			transport.WriteError(w, http.StatusBadRequest, "invalid published filter", nil)
			return
		}
		filter.Published = &published
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, page, limit, filter)
	if err != nil {
		log.Error("admin blogs list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin blogs list: ok", slog.Int("count", len(items)))
	transport.WriteList(w, http.StatusOK, items, transport.NewMeta(page, limit, total))
}

func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin blogs get: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin blogs get: not found", slog.String("blog_id", id))
			transport.WriteError(w, http.StatusNotFound, "blog not found", nil)
			return
		}
		log.Error("admin blogs get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminCreate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin blogs create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin blogs create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		if errors.Is(err, ErrDuplicateSlug) {
			log.Warn("admin blogs create: duplicate slug", slog.String("title", req.Title))
			transport.WriteError(w, http.StatusConflict, "a blog with this title already exists", nil)
			return
		}
		log.Error("admin blogs create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.invalidateLists(r.Context())

	log.Info("admin blogs create: ok", slog.String("blog_id", item.ID), slog.String("slug", item.Slug))
	transport.WriteData(w, http.StatusCreated, item)
}

func (h *Handler) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin blogs update: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpsertRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin blogs update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin blogs update: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("admin blogs update: not found", slog.String("blog_id", id))
			transport.WriteError(w, http.StatusNotFound, "blog not found", nil)
		case errors.Is(err, ErrDuplicateSlug):
			log.Warn("admin blogs update: duplicate slug", slog.String("blog_id", id))
			transport.WriteError(w, http.StatusConflict, "a blog with this title already exists", nil)
		default:
			log.Error("admin blogs update: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	h.invalidateLists(r.Context())

	log.Info("admin blogs update: ok", slog.String("blog_id", id))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) AdminDelete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin blogs delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin blogs delete: not found", slog.String("blog_id", id))
			transport.WriteError(w, http.StatusNotFound, "blog not found", nil)
			return
		}
		log.Error("admin blogs delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.invalidateLists(r.Context())

	log.Info("admin blogs delete: ok", slog.String("blog_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) invalidateLists(ctx context.Context) {
	if h.cache != nil {
		_ = h.cache.DeletePrefix(ctx, "blogs:")
	}
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		log.Error("admin blogs stats: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteData(w, http.StatusOK, stats)
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
