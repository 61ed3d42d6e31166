package reservations

import (
	"strings"
	"time"

	"aperture-backend/internal/calendar"
)

// ListFilter narrows an already-fetched page of reservations. The base page
// comes paginated from the store; filters combine with AND and run in order
// status, service type, exact date, free-text search.
type ListFilter struct {
	Status      string
	ServiceType string
	Date        string // "2006-01-02", matched against the event's calendar date
	Search      string
}

func (f ListFilter) IsZero() bool {
	return f.Status == "" && f.ServiceType == "" && f.Date == "" && f.Search == ""
}

func ApplyFilter(items []Reservation, filter ListFilter, loc *time.Location) []Reservation {
	if filter.IsZero() {
		return items
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]Reservation, 0, len(items))
	for _, r := range items {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.ServiceType != "" && r.ServiceType != filter.ServiceType {
			continue
		}
		if filter.Date != "" && calendar.DayKey(r.EventDate, loc) != filter.Date {
			continue
		}
		if search != "" && !matchesSearch(r, search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesSearch(r Reservation, search string) bool {
	for _, field := range []string{
		r.Contact.FirstName,
		r.Contact.LastName,
		r.Contact.Email,
		r.ServiceType,
	} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
