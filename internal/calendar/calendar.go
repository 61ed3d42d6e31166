package calendar

import "time"

// GridSize is the fixed 6-row by 7-column month view.
const GridSize = 42

// Day is one cell of the month grid. Cells are recomputed on every render
// and never persisted.
type Day struct {
	Date         time.Time `json:"date"`
	Number       int       `json:"day"`
	CurrentMonth bool      `json:"isCurrentMonth"`
	Available    bool      `json:"isAvailable"`
	Past         bool      `json:"isPast"`
}

// DayKey reduces an instant to its calendar date in loc. Time-of-day and
// sub-day offsets are ignored when matching reservations to cells.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// StartOfDay returns local midnight of t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// MonthGrid builds the Sunday-first 42-cell view for (year, month): trailing
// days of the previous month, every day of the target month, then enough
// leading days of the next month to fill the grid. Out-of-month cells are
// never available. time.Date normalizes day/month overflow, so December and
// year rollovers need no special casing.
func MonthGrid(year int, month time.Month, now time.Time, unavailable map[string]bool, loc *time.Location) []Day {
	days := make([]Day, 0, GridSize)
	startToday := StartOfDay(now, loc)

	firstWeekday := int(time.Date(year, month, 1, 0, 0, 0, 0, loc).Weekday())
	for i := firstWeekday - 1; i >= 0; i-- {
		date := time.Date(year, month, -i, 0, 0, 0, 0, loc)
		days = append(days, Day{
			Date:         date,
			Number:       date.Day(),
			CurrentMonth: false,
			Available:    false,
			Past:         true,
		})
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, loc)
		past := date.Before(startToday)
		days = append(days, Day{
			Date:         date,
			Number:       day,
			CurrentMonth: true,
			Available:    !past && !unavailable[DayKey(date, loc)],
			Past:         past,
		})
	}

	for day := 1; len(days) < GridSize; day++ {
		date := time.Date(year, month+1, day, 0, 0, 0, 0, loc)
		days = append(days, Day{
			Date:         date,
			Number:       date.Day(),
			CurrentMonth: false,
			Available:    false,
			Past:         false,
		})
	}

	return days
}

// IsAvailable reports whether a single date is bookable: not in the past and
// not present in the unavailable set.
func IsAvailable(date time.Time, now time.Time, unavailable map[string]bool, loc *time.Location) bool {
	day := StartOfDay(date, loc)
	if day.Before(StartOfDay(now, loc)) {
		return false
	}
	return !unavailable[DayKey(day, loc)]
}
