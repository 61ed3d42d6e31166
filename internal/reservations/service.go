package reservations

import (
	"context"
	"errors"
	"strings"
	"time"

	"aperture-backend/internal/calendar"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound          = errors.New("reservation not found")
	ErrPastDate          = errors.New("event date is in the past")
	ErrDateUnavailable   = errors.New("date already booked")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type CreateRequest struct {
	ServiceType string    `json:"serviceType" validate:"required,oneof=wedding portrait event other"`
	EventDate   time.Time `json:"eventDate" validate:"required"`
	Contact     struct {
		FirstName string `json:"firstName" validate:"required,min=2"`
		LastName  string `json:"lastName" validate:"required,min=2"`
		Email     string `json:"email" validate:"required,email"`
		Phone     string `json:"phone" validate:"required,phone"`
	} `json:"contactInfo"`
	Message string `json:"message" validate:"omitempty,max=500"`
	// Clients send status:"pending"; anything else is rejected so the
	// public flow can never pre-confirm a booking.
	Status string `json:"status" validate:"omitempty,oneof=pending"`
}

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

// Create stores a new pending reservation. The date must not be in the past
// and must not already carry a non-cancelled reservation.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Reservation, error) {
	now := time.Now()
	dayStart := calendar.StartOfDay(req.EventDate, s.location)
	if dayStart.Before(calendar.StartOfDay(now, s.location)) {
		return Reservation{}, ErrPastDate
	}

	active, err := s.repo.ActiveOnDay(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return Reservation{}, err
	}
	if active > 0 {
		return Reservation{}, ErrDateUnavailable
	}

	item := Reservation{
		ID:          primitive.NewObjectID().Hex(),
		ServiceType: req.ServiceType,
		EventDate:   req.EventDate,
		Contact: ContactInfo{
			FirstName: strings.TrimSpace(req.Contact.FirstName),
			LastName:  strings.TrimSpace(req.Contact.LastName),
			Email:     strings.TrimSpace(req.Contact.Email),
			Phone:     strings.TrimSpace(req.Contact.Phone),
		},
		Message:   strings.TrimSpace(req.Message),
		Status:    StatusPending,
		CreatedAt: now.In(s.location),
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		return Reservation{}, err
	}
	return item, nil
}

// List fetches one server-paginated page, then narrows it in memory with the
// staff filters. The total in the second return value counts the unfiltered
// collection, matching the pagination the store performed.
func (s *Service) List(ctx context.Context, page, limit int64, filter ListFilter) ([]Reservation, int64, error) {
	items, total, err := s.repo.Page(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	return ApplyFilter(items, filter, s.location), total, nil
}

func (s *Service) Get(ctx context.Context, id string) (Reservation, error) {
	item, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Reservation{}, ErrNotFound
		}
		return Reservation{}, err
	}
	return item, nil
}

// UpdateStatus applies a staff status change behind the transition guard.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (Reservation, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Reservation{}, err
	}
	if !CanTransition(current.Status, status) {
		return Reservation{}, ErrInvalidTransition
	}
	if current.Status == status {
		return current, nil
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Reservation{}, ErrNotFound
		}
		return Reservation{}, err
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

// MonthGrid renders the 42-cell booking calendar for (year, month). The
// fetch window is padded a week on both sides so out-of-month cells see the
// right reservations even though they always render unavailable.
func (s *Service) MonthGrid(ctx context.Context, year int, month time.Month, now time.Time) ([]calendar.Day, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, s.location).AddDate(0, 0, -7)
	to := time.Date(year, month+1, 1, 0, 0, 0, 0, s.location).AddDate(0, 0, 7)

	items, err := s.repo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	unavailable := UnavailableDates(items, s.location)
	return calendar.MonthGrid(year, month, now, unavailable, s.location), nil
}
