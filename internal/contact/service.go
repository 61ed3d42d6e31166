package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("contact message not found")

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

func (s *Service) Create(ctx context.Context, req CreateRequest) (Message, error) {
	now := time.Now().In(s.location)

	item := Message{
		ID:        primitive.NewObjectID().Hex(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
		Subject:   strings.TrimSpace(req.Subject),
		Body:      strings.TrimSpace(req.Body),
		Status:    StatusUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		return Message{}, err
	}
	return item, nil
}

func (s *Service) List(ctx context.Context, page, limit int64, filter ListFilter) ([]Message, int64, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.Page(ctx, filter, page, limit)
}

// Get marks an unread message as read on first open.
func (s *Service) Get(ctx context.Context, id string) (Message, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Message{}, ErrNotFound
		}
		return Message{}, err
	}
	if item.Status == StatusUnread {
		updated, err := s.UpdateStatus(ctx, item.ID, StatusRead)
		if err == nil {
			return updated, nil
		}
	}
	return item, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Message, error) {
	set := bson.M{
		"status":    status,
		"updatedAt": time.Now().In(s.location),
	}

	updated, err := s.repo.UpdateStatus(ctx, strings.TrimSpace(id), status, set)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Message{}, ErrNotFound
		}
		return Message{}, err
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

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		Unread:  counts[StatusUnread],
		Read:    counts[StatusRead],
		Replied: counts[StatusReplied],
	}
	stats.Total = stats.Unread + stats.Read + stats.Replied
	return stats, nil
}
