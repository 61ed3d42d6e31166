package admin

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"aperture-backend/internal/auth"
	"aperture-backend/internal/httpx"
	"aperture-backend/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Register bootstraps the first admin account. It is gated by a setup key
// rather than a session so a fresh deployment can create its owner.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req RegisterRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin register: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	req.Username = normalizeUsername(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin register: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	if h.users == nil || h.manager == nil {
		log.Warn("admin register: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
		return
	}
	if h.setupKey == "" {
		log.Warn("admin register: setup key missing")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin registration not configured", nil)
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.SetupKey), []byte(h.setupKey)) != 1 {
		log.Warn("admin register: invalid setup key", slog.String("username", req.Username))
		transport.WriteError(w, http.StatusUnauthorized, "invalid setup key", nil)
		return
	}

	user, err := h.insertUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn("admin register: duplicate", slog.String("username", req.Username))
			transport.WriteError(w, http.StatusConflict, "username already exists", nil)
			return
		}
		log.Error("admin register: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	if err := h.issueSession(w); err != nil {
		log.Error("admin register: token error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "token error", nil)
		return
	}

	log.Info("admin register: ok", slog.String("user_id", user.ID), slog.String("username", user.Username))
	transport.WriteData(w, http.StatusCreated, user)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateUserRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin users create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	req.Username = normalizeUsername(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin users create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	if h.users == nil {
		log.Warn("admin users create: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin users not configured", nil)
		return
	}

	user, err := h.insertUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Warn("admin users create: duplicate", slog.String("username", req.Username))
			transport.WriteError(w, http.StatusConflict, "username already exists", nil)
			return
		}
		log.Error("admin users create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin users create: ok", slog.String("user_id", user.ID), slog.String("username", user.Username))
	transport.WriteData(w, http.StatusCreated, user)
}

func (h *Handler) UpdateUserPassword(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		log.Warn("admin users password: missing id")
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req PasswordRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin users password: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		log.Warn("admin users password: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	if h.users == nil {
		log.Warn("admin users password: not configured")
		transport.WriteError(w, http.StatusServiceUnavailable, "admin users not configured", nil)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Error("admin users password: hash error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "password error", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"passwordHash": hash,
			"updatedAt":    time.Now().In(h.location),
		},
	}
	res, err := h.users.UpdateOne(ctx, bson.M{"_id": id, "role": RoleAdmin}, update)
	if err != nil {
		log.Error("admin users password: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if res.MatchedCount == 0 {
		log.Warn("admin users password: not found", slog.String("user_id", id))
		transport.WriteError(w, http.StatusNotFound, "user not found", nil)
		return
	}

	log.Info("admin users password: ok", slog.String("user_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) insertUser(ctx context.Context, username, email, password string) (User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	now := time.Now().In(h.location)
	user := User{
		ID:           primitive.NewObjectID().Hex(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	insertCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := h.users.InsertOne(insertCtx, user); err != nil {
		return User{}, err
	}
	return user, nil
}
