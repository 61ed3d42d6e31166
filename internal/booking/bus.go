package booking

import (
	"sync"
	"time"
)

type EventType string

const (
	EventReservationsLoaded EventType = "reservations_loaded"
	EventDaySelected        EventType = "day_selected"
	EventFormOpened         EventType = "form_opened"
	EventSubmitSucceeded    EventType = "submit_succeeded"
	EventSubmitFailed       EventType = "submit_failed"
	EventFlowClosed         EventType = "flow_closed"
)

type Event struct {
	Type   EventType
	Date   time.Time
	Notice string
	Count  int
}

type subscriber struct {
	id int
	fn func(Event)
}

// Bus is a synchronous pub/sub channel. Events are delivered in subscription
// order, on the publisher's goroutine; subscribers must unsubscribe on
// teardown.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   []subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(fn func(Event)) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.subs = append(b.subs, subscriber{id: b.nextID, fn: fn})
	return b.nextID
}

func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	subs := make([]subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(e)
	}
}
