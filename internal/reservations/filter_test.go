package reservations

import (
	"testing"
	"time"
)

func testPage() []Reservation {
	loc := time.UTC
	return []Reservation{
		{ID: "1", ServiceType: ServiceWedding, Status: StatusPending,
			EventDate: time.Date(2026, 1, 10, 0, 0, 0, 0, loc),
			Contact:   ContactInfo{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"}},
		{ID: "2", ServiceType: ServicePortrait, Status: StatusPending,
			EventDate: time.Date(2026, 1, 11, 0, 0, 0, 0, loc),
			Contact:   ContactInfo{FirstName: "Alan", LastName: "Smith", Email: "alan@x.com"}},
		{ID: "3", ServiceType: ServiceWedding, Status: StatusConfirmed,
			EventDate: time.Date(2026, 1, 12, 0, 0, 0, 0, loc),
			Contact:   ContactInfo{FirstName: "Mia", LastName: "Chen", Email: "mia@x.com"}},
		{ID: "4", ServiceType: ServiceEvent, Status: StatusPending,
			EventDate: time.Date(2026, 1, 12, 0, 0, 0, 0, loc),
			Contact:   ContactInfo{FirstName: "Omar", LastName: "Ali", Email: "omar@x.com"}},
		{ID: "5", ServiceType: ServiceOther, Status: StatusConfirmed,
			EventDate: time.Date(2026, 1, 14, 0, 0, 0, 0, loc),
			Contact:   ContactInfo{FirstName: "Lena", LastName: "Janeway", Email: "lena@x.com"}},
	}
}

func ids(items []Reservation) []string {
	out := make([]string, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}

func TestApplyFilterStatus(t *testing.T) {
	got := ApplyFilter(testPage(), ListFilter{Status: StatusConfirmed}, time.UTC)
	if len(got) != 2 || got[0].ID != "3" || got[1].ID != "5" {
		t.Fatalf("expected records 3 and 5, got %v", ids(got))
	}
}

func TestApplyFilterCombinesWithAnd(t *testing.T) {
	filter := ListFilter{Status: StatusPending, ServiceType: ServiceWedding}
	got := ApplyFilter(testPage(), filter, time.UTC)
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only record 1, got %v", ids(got))
	}
}

func TestApplyFilterExactDate(t *testing.T) {
	got := ApplyFilter(testPage(), ListFilter{Date: "2026-01-12"}, time.UTC)
	if len(got) != 2 || got[0].ID != "3" || got[1].ID != "4" {
		t.Fatalf("expected records 3 and 4, got %v", ids(got))
	}
}

func TestApplyFilterSearchCaseInsensitive(t *testing.T) {
	// "jane" matches Jane Doe's first name and Lena Janeway's last name.
	got := ApplyFilter(testPage(), ListFilter{Search: "JANE"}, time.UTC)
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "5" {
		t.Fatalf("expected records 1 and 5, got %v", ids(got))
	}
}

func TestApplyFilterSearchMatchesServiceType(t *testing.T) {
	got := ApplyFilter(testPage(), ListFilter{Search: "portrait"}, time.UTC)
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected record 2, got %v", ids(got))
	}
}

func TestApplyFilterEmpty(t *testing.T) {
	page := testPage()
	got := ApplyFilter(page, ListFilter{}, time.UTC)
	if len(got) != len(page) {
		t.Fatalf("empty filter should keep all records, got %d", len(got))
	}
}
