package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"aperture-backend/internal/calendar"
	"aperture-backend/internal/reservations"
	"aperture-backend/internal/validation"
)

type fakeBackend struct {
	mu      sync.Mutex
	items   []reservations.Reservation
	failing bool
	nextID  int
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reservations", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		items := make([]reservations.Reservation, len(b.items))
		copy(items, b.items)
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"data": items})
	})
	mux.HandleFunc("POST /api/reservations", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failing {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "database error"})
			return
		}
		var payload CreatePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.nextID++
		item := reservations.Reservation{
			ID:          "res-" + strconv.Itoa(b.nextID),
			ServiceType: payload.ServiceType,
			EventDate:   payload.EventDate,
			Contact:     payload.Contact,
			Message:     payload.Message,
			Status:      reservations.StatusPending,
			CreatedAt:   time.Now(),
		}
		b.items = append(b.items, item)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{"data": item})
	})
	return mux
}

func newTestFlow(t *testing.T, backend *fakeBackend) (*Flow, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	flow := NewFlow(NewClient(server.URL, ""), validation.New(), NewBus(), time.UTC)
	flow.now = func() time.Time { return time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC) }
	return flow, server
}

func findDay(t *testing.T, days []calendar.Day, number int) calendar.Day {
	t.Helper()
	for _, day := range days {
		if day.CurrentMonth && day.Number == number {
			return day
		}
	}
	t.Fatalf("day %d not found in grid", number)
	return calendar.Day{}
}

func TestBookingRoundTrip(t *testing.T) {
	backend := &fakeBackend{}
	flow, _ := newTestFlow(t, backend)
	flow.closeDelay = 10 * time.Millisecond

	if err := flow.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	day := findDay(t, flow.MonthGrid(2025, time.December), 25)
	if !day.Available {
		t.Fatalf("Dec 25 should start available")
	}
	if !flow.SelectDay(day) {
		t.Fatalf("selecting an available day should succeed")
	}
	if !flow.OpenForm() {
		t.Fatalf("opening the form should succeed")
	}

	result, err := flow.Submit(context.Background(), validForm())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid form, got %v", result.Errors)
	}
	if notice := flow.Notice(); notice != SubmitSucceededNotice {
		t.Fatalf("unexpected notice: %q", notice)
	}

	// Submit triggered a re-fetch, so the booked date is now unavailable.
	day = findDay(t, flow.MonthGrid(2025, time.December), 25)
	if day.Available {
		t.Fatalf("Dec 25 should be unavailable after booking")
	}

	// The form auto-closes shortly after success.
	deadline := time.Now().Add(time.Second)
	for flow.State() != StateIdle {
		if time.Now().After(deadline) {
			t.Fatalf("flow did not auto-close, state=%s", flow.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSelectUnavailableDayIsNoop(t *testing.T) {
	backend := &fakeBackend{items: []reservations.Reservation{{
		ID:          "existing",
		ServiceType: reservations.ServiceWedding,
		EventDate:   time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
		Status:      reservations.StatusPending,
	}}}
	flow, _ := newTestFlow(t, backend)

	if err := flow.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	day := findDay(t, flow.MonthGrid(2025, time.December), 25)
	if day.Available {
		t.Fatalf("Dec 25 should be unavailable")
	}
	if flow.SelectDay(day) {
		t.Fatalf("selecting an unavailable day must be a no-op")
	}
	if flow.State() != StateIdle {
		t.Fatalf("state should stay idle, got %s", flow.State())
	}

	past := findDay(t, flow.MonthGrid(2025, time.November), 15)
	if flow.SelectDay(past) {
		t.Fatalf("selecting a past day must be a no-op")
	}
}

func TestSubmitFailureKeepsFormOpen(t *testing.T) {
	backend := &fakeBackend{failing: true}
	flow, _ := newTestFlow(t, backend)

	if err := flow.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	day := findDay(t, flow.MonthGrid(2025, time.December), 25)
	flow.SelectDay(day)
	flow.OpenForm()

	_, err := flow.Submit(context.Background(), validForm())
	if err == nil {
		t.Fatalf("expected submit error")
	}
	if flow.State() != StateSubmitFailed {
		t.Fatalf("expected submit_failed, got %s", flow.State())
	}
	if flow.Notice() != SubmitFailedNotice {
		t.Fatalf("unexpected notice: %q", flow.Notice())
	}
	if flow.Submitting() {
		t.Fatalf("isSubmitting should be cleared after failure")
	}

	// Manual retry from the failed state works once the backend recovers.
	backend.mu.Lock()
	backend.failing = false
	backend.mu.Unlock()

	if _, err := flow.Submit(context.Background(), validForm()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if flow.State() != StateSubmitSucceeded {
		t.Fatalf("expected submit_succeeded, got %s", flow.State())
	}
}

func TestSubmitInvalidFormMakesNoRequest(t *testing.T) {
	backend := &fakeBackend{}
	flow, _ := newTestFlow(t, backend)

	if err := flow.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	flow.SelectDay(findDay(t, flow.MonthGrid(2025, time.December), 25))
	flow.OpenForm()

	form := validForm()
	form.Phone = "123"
	result, err := flow.Submit(context.Background(), form)
	if err != nil {
		t.Fatalf("local validation failure is not a flow error: %v", err)
	}
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if flow.State() != StateFormOpen {
		t.Fatalf("form should remain open, got %s", flow.State())
	}

	backend.mu.Lock()
	created := len(backend.items)
	backend.mu.Unlock()
	if created != 0 {
		t.Fatalf("no reservation should have been created, got %d", created)
	}
}

func TestCancelReturnsToIdle(t *testing.T) {
	backend := &fakeBackend{}
	flow, _ := newTestFlow(t, backend)

	flow.SelectDay(calendar.Day{
		Date:         time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
		Number:       25,
		CurrentMonth: true,
		Available:    true,
	})
	flow.OpenForm()
	flow.Close()

	if flow.State() != StateIdle {
		t.Fatalf("expected idle after cancel, got %s", flow.State())
	}
	if !flow.SelectedDate().IsZero() {
		t.Fatalf("selected date should be cleared")
	}
}

func TestBusDeliversInOrderAndUnsubscribes(t *testing.T) {
	bus := NewBus()
	var got []string

	first := bus.Subscribe(func(e Event) { got = append(got, "first:"+string(e.Type)) })
	bus.Subscribe(func(e Event) { got = append(got, "second:"+string(e.Type)) })

	bus.Publish(Event{Type: EventDaySelected})
	if len(got) != 2 || got[0] != "first:day_selected" || got[1] != "second:day_selected" {
		t.Fatalf("unexpected delivery order: %v", got)
	}

	bus.Unsubscribe(first)
	bus.Publish(Event{Type: EventFlowClosed})
	if len(got) != 3 || got[2] != "second:flow_closed" {
		t.Fatalf("unsubscribe failed: %v", got)
	}
}

func TestFetcherDiscardsStaleResults(t *testing.T) {
	var f Fetcher
	first := f.Begin()
	second := f.Begin()

	if f.Latest(first) {
		t.Fatalf("superseded fetch should not be latest")
	}
	if !f.Latest(second) {
		t.Fatalf("newest fetch should be latest")
	}
}
