package blogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"aperture-backend/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("blog not found")
	ErrDuplicateSlug = errors.New("slug already exists")
)

// fallback reading speed used when the author does not supply readTime.
const wordsPerMinute = 200

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Blog, error) {
	now := time.Now().In(s.location)
	published := false
	if req.Published != nil {
		published = *req.Published
	}
	featured := false
	if req.Featured != nil {
		featured = *req.Featured
	}

	item := Blog{
		ID:              primitive.NewObjectID().Hex(),
		Title:           strings.TrimSpace(req.Title),
		Slug:            utils.Slugify(req.Title),
		Content:         req.Content,
		Excerpt:         strings.TrimSpace(req.Excerpt),
		Author:          strings.TrimSpace(req.Author),
		Category:        strings.TrimSpace(req.Category),
		Tags:            normalizeTags(req.Tags),
		Published:       published,
		Featured:        featured,
		Views:           0,
		ReadTime:        readTime(req),
		MetaDescription: strings.TrimSpace(req.MetaDescription),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if published {
		item.PublishedAt = &now
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return Blog{}, ErrDuplicateSlug
		}
		return Blog{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Blog, error) {
	id = strings.TrimSpace(id)

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Blog{}, ErrNotFound
		}
		return Blog{}, err
	}

	now := time.Now().In(s.location)
	published := current.Published
	if req.Published != nil {
		published = *req.Published
	}
	featured := current.Featured
	if req.Featured != nil {
		featured = *req.Featured
	}

	set := bson.M{
		"title":           strings.TrimSpace(req.Title),
		"slug":            utils.Slugify(req.Title),
		"content":         req.Content,
		"excerpt":         strings.TrimSpace(req.Excerpt),
		"author":          strings.TrimSpace(req.Author),
		"category":        strings.TrimSpace(req.Category),
		"tags":            normalizeTags(req.Tags),
		"published":       published,
		"featured":        featured,
		"readTime":        readTime(req),
		"metaDescription": strings.TrimSpace(req.MetaDescription),
		"updatedAt":       now,
	}
	// stamp publishedAt on the draft-to-published transition only
	if published && !current.Published {
		set["publishedAt"] = now
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Blog{}, ErrNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return Blog{}, ErrDuplicateSlug
		}
		return Blog{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *Service) List(ctx context.Context, page, limit int64, filter ListFilter) ([]Blog, int64, error) {
	filter.Category = strings.TrimSpace(filter.Category)
	return s.repo.Page(ctx, filter, page, limit)
}

func (s *Service) Get(ctx context.Context, id string) (Blog, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Blog{}, ErrNotFound
		}
		return Blog{}, err
	}
	return item, nil
}

// GetBySlug is the public read path; each hit counts as a view.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Blog, error) {
	item, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Blog{}, ErrNotFound
		}
		return Blog{}, err
	}
	if err := s.repo.IncrementViews(ctx, item.ID); err == nil {
		item.Views++
	}
	return item, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	published, err := s.repo.CountPublished(ctx)
	if err != nil {
		return Stats{}, err
	}
	drafts, err := s.repo.CountDrafts(ctx)
	if err != nil {
		return Stats{}, err
	}
	views, err := s.repo.SumViews(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Published: published, Drafts: drafts, TotalViews: views}, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func readTime(req UpsertRequest) int {
	if req.ReadTime != nil {
		return *req.ReadTime
	}
	words := len(strings.Fields(req.Content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
