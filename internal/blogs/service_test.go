package blogs

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items     map[string]Blog
	pageCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]Blog)}
}

func (r *fakeRepo) Insert(ctx context.Context, item Blog) error {
	for _, existing := range r.items {
		if existing.Slug == item.Slug {
			return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeRepo) Page(ctx context.Context, filter ListFilter, page, limit int64) ([]Blog, int64, error) {
	r.pageCalls++
	items := make([]Blog, 0)
	for _, item := range r.items {
		if filter.Published != nil && item.Published != *filter.Published {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		items = append(items, item)
	}
	return items, int64(len(items)), nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (Blog, error) {
	item, ok := r.items[id]
	if !ok {
		return Blog{}, mongo.ErrNoDocuments
	}
	return item, nil
}

func (r *fakeRepo) FindBySlug(ctx context.Context, slug string) (Blog, error) {
	for _, item := range r.items {
		if item.Slug == slug {
			return item, nil
		}
	}
	return Blog{}, mongo.ErrNoDocuments
}

func (r *fakeRepo) IncrementViews(ctx context.Context, id string) error {
	item, ok := r.items[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	item.Views++
	r.items[id] = item
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, set bson.M) (Blog, error) {
	item, ok := r.items[id]
	if !ok {
		return Blog{}, mongo.ErrNoDocuments
	}
	if title, ok := set["title"].(string); ok {
		item.Title = title
	}
	if slug, ok := set["slug"].(string); ok {
		item.Slug = slug
	}
	if published, ok := set["published"].(bool); ok {
		item.Published = published
	}
	if publishedAt, ok := set["publishedAt"].(time.Time); ok {
		item.PublishedAt = &publishedAt
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

func (r *fakeRepo) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	for _, item := range r.items {
		if item.Published {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CountDrafts(ctx context.Context) (int64, error) {
	var n int64
	for _, item := range r.items {
		if !item.Published {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) SumViews(ctx context.Context) (int64, error) {
	var total int64
	for _, item := range r.items {
		total += item.Views
	}
	return total, nil
}

func boolPtr(v bool) *bool { return &v }

func TestCreateSlugsTitle(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)

	item, err := svc.Create(context.Background(), UpsertRequest{
		Title:    "Golden Hour: Tips & Tricks",
		Content:  "some content",
		Author:   "Adam",
		Category: "tutorials",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if item.Slug != "golden-hour-tips-and-tricks" {
		t.Fatalf("unexpected slug %q", item.Slug)
	}
	if item.Published {
		t.Fatalf("new posts default to draft")
	}
	if item.PublishedAt != nil {
		t.Fatalf("draft should have no publishedAt")
	}
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)
	req := UpsertRequest{Title: "Same Title", Content: "x", Author: "Adam", Category: "news"}

	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(context.Background(), req); err != ErrDuplicateSlug {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}
}

func TestPublishStampsPublishedAt(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)

	item, err := svc.Create(context.Background(), UpsertRequest{
		Title: "Draft Post", Content: "x", Author: "Adam", Category: "news",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), item.ID, UpsertRequest{
		Title: "Draft Post", Content: "x", Author: "Adam", Category: "news",
		Published: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Published || updated.PublishedAt == nil {
		t.Fatalf("expected published with timestamp, got %+v", updated)
	}
}

func TestGetBySlugIncrementsViews(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC)

	item, err := svc.Create(context.Background(), UpsertRequest{
		Title: "Viewed Post", Content: "x", Author: "Adam", Category: "news",
		Published: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.GetBySlug(context.Background(), item.Slug)
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("expected 1 view, got %d", got.Views)
	}
}

func TestReadTimeDerivedFromContent(t *testing.T) {
	if got := readTime(UpsertRequest{Content: "one two three"}); got != 1 {
		t.Fatalf("short content: got %d", got)
	}
	long := ""
	for i := 0; i < 450; i++ {
		long += "word "
	}
	if got := readTime(UpsertRequest{Content: long}); got != 3 {
		t.Fatalf("450 words: got %d, expected 3", got)
	}
	explicit := 7
	if got := readTime(UpsertRequest{Content: long, ReadTime: &explicit}); got != 7 {
		t.Fatalf("explicit readTime: got %d", got)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{" Wedding ", "wedding", "", "Portrait"})
	if len(got) != 2 || got[0] != "wedding" || got[1] != "portrait" {
		t.Fatalf("unexpected tags: %v", got)
	}
}
