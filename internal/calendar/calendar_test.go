package calendar

import (
	"testing"
	"time"
)

func TestMonthGridSize(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	for year := 2024; year <= 2026; year++ {
		for month := time.January; month <= time.December; month++ {
			days := MonthGrid(year, month, now, nil, time.UTC)
			if len(days) != GridSize {
				t.Fatalf("%d-%02d: expected %d cells, got %d", year, month, GridSize, len(days))
			}
		}
	}
}

func TestMonthGridCurrentMonthRun(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	days := MonthGrid(2025, time.December, now, nil, time.UTC)

	// December 1 2025 is a Monday, so the run starts at index 1.
	firstWeekday := int(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC).Weekday())
	if firstWeekday != 1 {
		t.Fatalf("expected Dec 1 2025 on Monday, got weekday %d", firstWeekday)
	}

	for i, day := range days {
		inMonth := i >= firstWeekday && i < firstWeekday+31
		if day.CurrentMonth != inMonth {
			t.Fatalf("cell %d: CurrentMonth=%v, expected %v", i, day.CurrentMonth, inMonth)
		}
	}
	if days[firstWeekday].Number != 1 || days[firstWeekday+30].Number != 31 {
		t.Fatalf("current month run has wrong day numbers: %d..%d",
			days[firstWeekday].Number, days[firstWeekday+30].Number)
	}
}

func TestMonthGridLeadingCellsArePreviousMonth(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	days := MonthGrid(2025, time.December, now, nil, time.UTC)

	first := days[0]
	if first.CurrentMonth || !first.Past || first.Available {
		t.Fatalf("leading cell flags wrong: %+v", first)
	}
	if first.Date.Month() != time.November || first.Date.Day() != 30 {
		t.Fatalf("expected Nov 30 as leading cell, got %s", first.Date.Format("2006-01-02"))
	}
}

func TestMonthGridDecemberToJanuaryRollover(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	days := MonthGrid(2025, time.December, now, nil, time.UTC)

	last := days[len(days)-1]
	if last.CurrentMonth || last.Past || last.Available {
		t.Fatalf("trailing cell flags wrong: %+v", last)
	}
	if last.Date.Year() != 2026 || last.Date.Month() != time.January {
		t.Fatalf("expected January 2026 trailing cell, got %s", last.Date.Format("2006-01-02"))
	}
}

func TestMonthGridPastFlag(t *testing.T) {
	now := time.Date(2025, 12, 10, 15, 30, 0, 0, time.UTC)
	days := MonthGrid(2025, time.December, now, nil, time.UTC)

	for _, day := range days {
		if !day.CurrentMonth {
			continue
		}
		wantPast := day.Number < 10
		if day.Past != wantPast {
			t.Fatalf("Dec %d: Past=%v, expected %v", day.Number, day.Past, wantPast)
		}
		// Today itself is not past.
		if day.Number == 10 && day.Past {
			t.Fatalf("today flagged as past")
		}
	}
}

func TestMonthGridUnavailableDates(t *testing.T) {
	now := time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC)
	unavailable := map[string]bool{"2025-12-25": true}
	days := MonthGrid(2025, time.December, now, unavailable, time.UTC)

	for _, day := range days {
		if !day.CurrentMonth {
			continue
		}
		switch day.Number {
		case 25:
			if day.Available {
				t.Fatalf("Dec 25 should be unavailable")
			}
		case 26:
			if !day.Available {
				t.Fatalf("Dec 26 should be available")
			}
		}
	}
}

func TestFebruaryLeapYear(t *testing.T) {
	now := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	days := MonthGrid(2024, time.February, now, nil, time.UTC)

	count := 0
	for _, day := range days {
		if day.CurrentMonth {
			count++
		}
	}
	if count != 29 {
		t.Fatalf("expected 29 days in Feb 2024, got %d", count)
	}
}

func TestIsAvailable(t *testing.T) {
	loc := time.UTC
	now := time.Date(2025, 12, 10, 12, 0, 0, 0, loc)
	unavailable := map[string]bool{"2025-12-25": true}

	cases := []struct {
		name string
		date time.Time
		want bool
	}{
		{"past date", time.Date(2025, 12, 9, 0, 0, 0, 0, loc), false},
		{"today", time.Date(2025, 12, 10, 0, 0, 0, 0, loc), true},
		{"booked date", time.Date(2025, 12, 25, 0, 0, 0, 0, loc), false},
		{"free future date", time.Date(2025, 12, 26, 0, 0, 0, 0, loc), true},
		{"booked date with time-of-day", time.Date(2025, 12, 25, 18, 30, 0, 0, loc), false},
	}
	for _, tc := range cases {
		if got := IsAvailable(tc.date, now, unavailable, loc); got != tc.want {
			t.Fatalf("%s: IsAvailable=%v, expected %v", tc.name, got, tc.want)
		}
	}
}
