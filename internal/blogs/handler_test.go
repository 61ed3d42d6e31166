package blogs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"aperture-backend/internal/validation"

	"github.com/go-chi/chi/v5"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.entries[key]
	return val, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memCache) DeletePrefix(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func TestPublicListCachesAndInvalidates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(svc, validation.New(), log, newMemCache(), time.Minute)

	router := chi.NewRouter()
	router.Get("/blogs", h.PublicList)
	router.Delete("/admin/blogs/{id}", h.AdminDelete)

	item, err := svc.Create(context.Background(), UpsertRequest{
		Title: "Shooting in Low Light", Content: "x", Author: "Adam", Category: "tutorials",
		Published: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blogs?category=tutorials", nil))
		return rec
	}

	first := get()
	if first.Code != http.StatusOK {
		t.Fatalf("first list: status %d", first.Code)
	}
	second := get()
	if second.Code != http.StatusOK {
		t.Fatalf("second list: status %d", second.Code)
	}
	if repo.pageCalls != 1 {
		t.Fatalf("expected second list served from cache, got %d repository calls", repo.pageCalls)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("cached body differs from original")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/blogs/"+item.ID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: status %d", rec.Code)
	}

	third := get()
	if third.Code != http.StatusOK {
		t.Fatalf("third list: status %d", third.Code)
	}
	if repo.pageCalls != 2 {
		t.Fatalf("expected delete to invalidate the cached list, got %d repository calls", repo.pageCalls)
	}
	if strings.Contains(third.Body.String(), item.Slug) {
		t.Fatalf("deleted post still present in list")
	}
}
