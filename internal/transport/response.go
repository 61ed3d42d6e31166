package transport

import (
	"encoding/json"
	"net/http"
)

// Meta mirrors the pagination envelope the front end consumes.
type Meta struct {
	CurrentPage  int64 `json:"currentPage"`
	TotalPages   int64 `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int64 `json:"itemsPerPage"`
}

func NewMeta(page, limit, total int64) Meta {
	pages := int64(0)
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Meta{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteData wraps a single record in the {data} envelope.
func WriteData(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, map[string]interface{}{"data": data})
}

// WriteList wraps a page of records in the {data, meta} envelope.
func WriteList(w http.ResponseWriter, status int, data interface{}, meta Meta) {
	WriteJSON(w, status, map[string]interface{}{"data": data, "meta": meta})
}

func WriteError(w http.ResponseWriter, status int, message string, details map[string]string) {
	WriteJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
