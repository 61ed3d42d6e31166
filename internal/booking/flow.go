package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"aperture-backend/internal/calendar"
	"aperture-backend/internal/reservations"
	"aperture-backend/internal/validation"
)

type State int

const (
	StateIdle State = iota
	StateDaySelected
	StateFormOpen
	StateSubmitting
	StateSubmitSucceeded
	StateSubmitFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDaySelected:
		return "day_selected"
	case StateFormOpen:
		return "form_open"
	case StateSubmitting:
		return "submitting"
	case StateSubmitSucceeded:
		return "submit_succeeded"
	case StateSubmitFailed:
		return "submit_failed"
	}
	return "unknown"
}

// CloseDelay is how long the success notice stays up before the form closes
// on its own.
const CloseDelay = 3 * time.Second

const (
	SubmitFailedNotice    = "Failed to submit reservation. Please try again."
	SubmitSucceededNotice = "Reservation submitted successfully! I will contact you within 24 hours to confirm your booking."
)

var (
	ErrNoFormOpen     = errors.New("no form open")
	ErrSubmitInFlight = errors.New("submission already in progress")
)

const fetchPageLimit = 100

// Flow drives one booking interaction: pick an available day on the
// calendar, fill the capture form, submit, and reconcile local state with
// the backend. State changes are announced on the bus.
type Flow struct {
	client *Client
	val    *validation.Validator
	bus    *Bus
	loc    *time.Location

	now        func() time.Time
	closeDelay time.Duration

	mu           sync.Mutex
	state        State
	selectedDate time.Time
	items        []reservations.Reservation
	unavailable  map[string]bool
	notice       string
	submitting   bool
	fetch        Fetcher
	closeTimer   *time.Timer
}

func NewFlow(client *Client, val *validation.Validator, bus *Bus, loc *time.Location) *Flow {
	return &Flow{
		client:      client,
		val:         val,
		bus:         bus,
		loc:         loc,
		now:         time.Now,
		closeDelay:  CloseDelay,
		state:       StateIdle,
		unavailable: make(map[string]bool),
	}
}

// Refresh re-fetches the reservation list and recomputes the unavailable
// set. Responses of superseded fetches are discarded.
func (f *Flow) Refresh(ctx context.Context) error {
	seq := f.fetch.Begin()

	items, _, err := f.client.ListReservations(ctx, 1, fetchPageLimit)
	if err != nil {
		return err
	}

	f.mu.Lock()
	if !f.fetch.Latest(seq) {
		f.mu.Unlock()
		return nil
	}
	f.items = items
	f.unavailable = reservations.UnavailableDates(items, f.loc)
	f.mu.Unlock()

	f.bus.Publish(Event{Type: EventReservationsLoaded, Count: len(items)})
	return nil
}

// MonthGrid renders the 42-cell view from the current snapshot.
func (f *Flow) MonthGrid(year int, month time.Month) []calendar.Day {
	f.mu.Lock()
	unavailable := f.unavailable
	f.mu.Unlock()
	return calendar.MonthGrid(year, month, f.now(), unavailable, f.loc)
}

// SelectDay reacts to a calendar cell activation. Unavailable, past and
// out-of-month cells are no-ops.
func (f *Flow) SelectDay(day calendar.Day) bool {
	if !day.Available || !day.CurrentMonth {
		return false
	}

	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return false
	}
	f.state = StateDaySelected
	f.selectedDate = day.Date
	f.mu.Unlock()

	f.bus.Publish(Event{Type: EventDaySelected, Date: day.Date})
	return true
}

// OpenForm opens the capture form bound to the selected date.
func (f *Flow) OpenForm() bool {
	f.mu.Lock()
	if f.state != StateDaySelected {
		f.mu.Unlock()
		return false
	}
	f.state = StateFormOpen
	date := f.selectedDate
	f.mu.Unlock()

	f.bus.Publish(Event{Type: EventFormOpened, Date: date})
	return true
}

// Submit validates the form and posts the reservation. Validation failures
// make no network call. On success the reservation list is re-fetched and
// the form auto-closes after the close delay; on failure the form stays
// open for a manual retry.
func (f *Flow) Submit(ctx context.Context, form Form) (ValidationResult, error) {
	f.mu.Lock()
	if f.state != StateFormOpen && f.state != StateSubmitFailed {
		f.mu.Unlock()
		return ValidationResult{}, ErrNoFormOpen
	}
	if f.submitting {
		f.mu.Unlock()
		return ValidationResult{}, ErrSubmitInFlight
	}

	result := form.Validate(f.val)
	if !result.Valid {
		f.mu.Unlock()
		return result, nil
	}

	f.state = StateSubmitting
	f.submitting = true
	f.notice = ""
	date := f.selectedDate
	f.mu.Unlock()

	payload := CreatePayload{
		ServiceType: form.ServiceType,
		EventDate:   date.UTC(),
		Contact: reservations.ContactInfo{
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Email:     form.Email,
			Phone:     form.Phone,
		},
		Message: form.Message,
		Status:  reservations.StatusPending,
	}

	_, err := f.client.CreateReservation(ctx, payload)

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.state = StateSubmitFailed
		f.notice = SubmitFailedNotice
		f.mu.Unlock()
		f.bus.Publish(Event{Type: EventSubmitFailed, Date: date, Notice: SubmitFailedNotice})
		return result, err
	}

	f.state = StateSubmitSucceeded
	f.notice = SubmitSucceededNotice
	f.closeTimer = time.AfterFunc(f.closeDelay, f.Close)
	f.mu.Unlock()

	f.bus.Publish(Event{Type: EventSubmitSucceeded, Date: date, Notice: SubmitSucceededNotice})

	if err := f.Refresh(ctx); err != nil {
		// The booking itself went through; a failed refresh only delays
		// the calendar update until the next fetch.
		return result, nil
	}
	return result, nil
}

// Close discards the in-progress interaction and returns to idle. It is
// both the explicit cancel action and the delayed close after success.
func (f *Flow) Close() {
	f.mu.Lock()
	if f.state == StateIdle {
		f.mu.Unlock()
		return
	}
	if f.closeTimer != nil {
		f.closeTimer.Stop()
		f.closeTimer = nil
	}
	f.state = StateIdle
	f.selectedDate = time.Time{}
	f.notice = ""
	f.submitting = false
	f.mu.Unlock()

	f.bus.Publish(Event{Type: EventFlowClosed})
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) SelectedDate() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selectedDate
}

func (f *Flow) Notice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

func (f *Flow) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

func (f *Flow) Reservations() []reservations.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]reservations.Reservation, len(f.items))
	copy(out, f.items)
	return out
}
