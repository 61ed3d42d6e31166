package media

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("media item not found")

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

func (s *Service) Create(ctx context.Context, req UpsertRequest) (Item, error) {
	now := time.Now().In(s.location)
	featured := false
	if req.Featured != nil {
		featured = *req.Featured
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	item := Item{
		ID:           primitive.NewObjectID().Hex(),
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Type:         req.Type,
		Category:     req.Category,
		URL:          strings.TrimSpace(req.URL),
		ThumbnailURL: strings.TrimSpace(req.ThumbnailURL),
		Featured:     featured,
		SortOrder:    sortOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpsertRequest) (Item, error) {
	id = strings.TrimSpace(id)
	featured := false
	if req.Featured != nil {
		featured = *req.Featured
	}
	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	}

	set := bson.M{
		"title":        strings.TrimSpace(req.Title),
		"description":  strings.TrimSpace(req.Description),
		"type":         req.Type,
		"category":     req.Category,
		"url":          strings.TrimSpace(req.URL),
		"thumbnailUrl": strings.TrimSpace(req.ThumbnailURL),
		"featured":     featured,
		"sortOrder":    sortOrder,
		"updatedAt":    time.Now().In(s.location),
	}

	updated, err := s.repo.Update(ctx, id, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
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

func (s *Service) List(ctx context.Context, page, limit int64, filter ListFilter) ([]Item, int64, error) {
	filter.Type = strings.TrimSpace(filter.Type)
	filter.Category = strings.TrimSpace(filter.Category)
	return s.repo.Page(ctx, filter, page, limit)
}

func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Item{}, ErrNotFound
		}
		return Item{}, err
	}
	return item, nil
}
