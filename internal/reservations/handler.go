package reservations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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

// ReservationMailer sends the booking confirmation after a successful create.
type ReservationMailer interface {
	SendReservationConfirmation(ctx context.Context, reservation Reservation) (string, error)
}

type Handler struct {
	service  *Service
	val      *validation.Validator
	log      *slog.Logger
	cache    cache.Cache
	cacheTTL time.Duration
	mailer   ReservationMailer
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, c cache.Cache, cacheTTL time.Duration, mailer ReservationMailer) *Handler {
	return &Handler{
		service:  service,
		val:      val,
		log:      log,
		cache:    c,
		cacheTTL: cacheTTL,
		mailer:   mailer,
	}
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("reservations create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("reservations create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	item, err := h.service.Create(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPastDate):
			log.Warn("reservations create: date in the past", slog.Time("event_date", req.EventDate))
			transport.WriteError(w, http.StatusBadRequest, "date in the past", nil)
		case errors.Is(err, ErrDateUnavailable):
			log.Warn("reservations create: date already booked", slog.Time("event_date", req.EventDate))
			transport.WriteError(w, http.StatusConflict, "date already booked", nil)
		default:
			log.Error("reservations create: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	h.invalidateCalendar(r.Context())

	if h.mailer != nil {
		go h.sendConfirmationEmail(log, item)
	}

	log.Info("reservations create: booked",
		slog.String("reservation_id", item.ID),
		slog.String("service_type", item.ServiceType),
		slog.Time("event_date", item.EventDate),
	)
	transport.WriteData(w, http.StatusCreated, item)
}

func (h *Handler) sendConfirmationEmail(log *slog.Logger, item Reservation) {
	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()

	messageID, err := h.mailer.SendReservationConfirmation(ctx, item)
	if err != nil {
		log.Warn("reservations email: send failed",
			slog.String("reservation_id", item.ID),
			slog.String("email", item.Contact.Email),
			slog.String("error", err.Error()),
		)
		return
	}

	log.Info("reservations email: sent",
		slog.String("reservation_id", item.ID),
		slog.String("email", item.Contact.Email),
		slog.String("message_id", messageID),
	)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	page, limit, err := httpx.ParsePageLimit(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("reservations list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Status:      strings.TrimSpace(r.URL.Query().Get("status")),
		ServiceType: strings.TrimSpace(r.URL.Query().Get("serviceType")),
		Date:        strings.TrimSpace(r.URL.Query().Get("date")),
		Search:      strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if filter.Status != "" && !ValidStatus(filter.Status) {
		log.Warn("reservations list: invalid status filter", slog.String("status", filter.Status))
		transport.WriteError(w, http.StatusBadRequest, "invalid status filter", nil)
		return
	}
	if filter.Date != "" {
		if _, err := time.Parse("2006-01-02", filter.Date); err != nil {
			log.Warn("reservations list: invalid date filter", slog.String("date", filter.Date))
			transport.WriteError(w, http.StatusBadRequest, "invalid date filter", nil)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, page, limit, filter)
	if err != nil {
		log.Error("reservations list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("reservations list: ok", slog.Int("count", len(items)))
	transport.WriteList(w, http.StatusOK, items, transport.NewMeta(page, limit, total))
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	now := time.Now().In(h.service.location)
	year := now.Year()
	month := now.Month()

	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1970 || parsed > 9999 {
			log.Warn("reservations calendar: invalid year", slog.String("year", raw))
			transport.WriteError(w, http.StatusBadRequest, "invalid year", nil)
			return
		}
		year = parsed
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			log.Warn("reservations calendar: invalid month", slog.String("month", raw))
			transport.WriteError(w, http.StatusBadRequest, "invalid month", nil)
			return
		}
		month = time.Month(parsed)
	}

	cacheKey := fmt.Sprintf("calendar:%04d-%02d", year, int(month))
	if h.cache != nil {
		if cached, ok, err := h.cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("reservations calendar: cache hit", slog.String("key", cacheKey))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	days, err := h.service.MonthGrid(ctx, year, month, now)
	if err != nil {
		log.Error("reservations calendar: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	response := map[string]interface{}{
		"year":  year,
		"month": int(month),
		"days":  days,
	}
	if h.cache != nil {
		if payload, err := json.Marshal(map[string]interface{}{"data": response}); err == nil {
			_ = h.cache.Set(r.Context(), cacheKey, payload, h.cacheTTL)
		}
	}

	log.Info("reservations calendar: ok", slog.Int("year", year), slog.Int("month", int(month)))
	transport.WriteData(w, http.StatusOK, response)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("reservations status: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req statusRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("reservations status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("reservations status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	item, err := h.service.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			log.Warn("reservations status: not found", slog.String("reservation_id", id))
			transport.WriteError(w, http.StatusNotFound, "reservation not found", nil)
		case errors.Is(err, ErrInvalidTransition):
			log.Warn("reservations status: invalid transition", slog.String("reservation_id", id), slog.String("status", req.Status))
			transport.WriteError(w, http.StatusConflict, "invalid status transition", nil)
		default:
			log.Error("reservations status: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	h.invalidateCalendar(r.Context())

	log.Info("reservations status: ok", slog.String("reservation_id", id), slog.String("status", req.Status))
	transport.WriteData(w, http.StatusOK, item)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("reservations delete: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("reservations delete: not found", slog.String("reservation_id", id))
			transport.WriteError(w, http.StatusNotFound, "reservation not found", nil)
			return
		}
		log.Error("reservations delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	h.invalidateCalendar(r.Context())

	log.Info("reservations delete: ok", slog.String("reservation_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) invalidateCalendar(ctx context.Context) {
	if h.cache != nil {
		_ = h.cache.DeletePrefix(ctx, "calendar:")
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
