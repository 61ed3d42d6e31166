package reservations

import (
	"testing"
	"time"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusPending, StatusPending, true},
		{StatusCompleted, StatusCompleted, true},
		{StatusPending, "archived", false},
		{"unknown", StatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("CanTransition(%q, %q)=%v, expected %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestUnavailableDates(t *testing.T) {
	loc := time.UTC
	items := []Reservation{
		{EventDate: time.Date(2025, 12, 25, 10, 0, 0, 0, loc), Status: StatusPending},
		{EventDate: time.Date(2025, 12, 26, 0, 0, 0, 0, loc), Status: StatusCancelled},
		{EventDate: time.Date(2025, 12, 27, 23, 0, 0, 0, loc), Status: StatusConfirmed},
		{Status: StatusPending}, // zero event date, skipped
	}

	unavailable := UnavailableDates(items, loc)

	if !unavailable["2025-12-25"] {
		t.Fatalf("pending reservation should block its date")
	}
	if unavailable["2025-12-26"] {
		t.Fatalf("cancelled reservation must not block its date")
	}
	if !unavailable["2025-12-27"] {
		t.Fatalf("confirmed reservation should block its date")
	}
	if len(unavailable) != 2 {
		t.Fatalf("expected 2 blocked dates, got %d: %v", len(unavailable), unavailable)
	}
}

func TestUnavailableDatesFreedByCancellation(t *testing.T) {
	loc := time.UTC
	booked := Reservation{EventDate: time.Date(2025, 12, 25, 0, 0, 0, 0, loc), Status: StatusPending}

	if !UnavailableDates([]Reservation{booked}, loc)["2025-12-25"] {
		t.Fatalf("date should be blocked while pending")
	}

	booked.Status = StatusCancelled
	if UnavailableDates([]Reservation{booked}, loc)["2025-12-25"] {
		t.Fatalf("date should be free after cancellation")
	}
}
