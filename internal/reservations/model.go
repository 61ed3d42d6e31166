package reservations

import (
	"time"

	"aperture-backend/internal/calendar"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	ServiceWedding  = "wedding"
	ServicePortrait = "portrait"
	ServiceEvent    = "event"
	ServiceOther    = "other"
)

type ContactInfo struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
	Email     string `bson:"email" json:"email"`
	Phone     string `bson:"phone" json:"phone"`
}

type Reservation struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	ServiceType string      `bson:"serviceType" json:"serviceType"`
	EventDate   time.Time   `bson:"eventDate" json:"eventDate"`
	Contact     ContactInfo `bson:"contactInfo" json:"contactInfo"`
	Message     string      `bson:"message,omitempty" json:"message,omitempty"`
	Status      string      `bson:"status" json:"status"`
	CreatedAt   time.Time   `bson:"createdAt" json:"createdAt"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition encodes the staff lifecycle. Writing the current status back
// is treated as a no-op and allowed; completed and cancelled are terminal.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCompleted || to == StatusCancelled
	}
	return false
}

// UnavailableDates derives the set of day keys blocked by active
// reservations. Cancelled records free their date, and records with a zero
// event date are skipped rather than blocking the calendar.
func UnavailableDates(items []Reservation, loc *time.Location) map[string]bool {
	unavailable := make(map[string]bool)
	for _, r := range items {
		if r.Status == StatusCancelled {
			continue
		}
		if r.EventDate.IsZero() {
			continue
		}
		unavailable[calendar.DayKey(r.EventDate, loc)] = true
	}
	return unavailable
}
