package media

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
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items     map[string]Item
	pageCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Item)}
}

func (r *fakeRepo) Insert(ctx context.Context, item Item) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeRepo) Page(ctx context.Context, filter ListFilter, page, limit int64) ([]Item, int64, error) {
	r.pageCalls++
	items := make([]Item, 0)
	for _, item := range r.items {
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Featured != nil && item.Featured != *filter.Featured {
			continue
		}
		items = append(items, item)
	}
	return items, int64(len(items)), nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (Item, error) {
	item, ok := r.items[id]
	if !ok {
		return Item{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Item, error) {
	item, ok := r.items[id]
	if !ok {
		return Item{}, mongo.ErrNoDocuments
	}
	if title, ok := set["title"].(string); ok {
		item.Title = title
	}
	r.items[id] = item
	return item, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

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

func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/media", h.List)
	r.Delete("/admin/media/{id}", h.AdminDelete)
	return r
}

func TestListCachesAndInvalidates(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(svc, validation.New(), log, newMemCache(), time.Minute)
	router := newTestRouter(h)

	item, err := svc.Create(context.Background(), UpsertRequest{
		Title:    "Sunset Session",
		Type:     TypeImage,
		Category: CategoryPortrait,
		URL:      "https://cdn.example.com/sunset.jpg",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media?featured=false", nil))
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
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/media/"+item.ID, nil))
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
	if strings.Contains(third.Body.String(), item.ID) {
		t.Fatalf("deleted item still present in list")
	}
}

func TestListWithoutCache(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(svc, validation.New(), log, nil, 0)
	router := newTestRouter(h)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/media", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("list %d: status %d", i, rec.Code)
		}
	}
	if repo.pageCalls != 2 {
		t.Fatalf("expected every list to hit the repository, got %d calls", repo.pageCalls)
	}
}
