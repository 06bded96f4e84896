package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/streamerd/cocoso/internal/application"
)

func TestFeedRendersOccurrencesAndBookings(t *testing.T) {
	feed := NewFeed("Test Community")

	activities := []application.Activity{{
		ID:    "act-1",
		Title: "Pottery Workshop",
		Room:  "Studio",
		Occurrences: []application.Occurrence{
			{StartDate: "2024-04-01", EndDate: "2024-04-01", StartTime: "10:00", EndTime: "12:00"},
			{StartDate: "2024-04-08", EndDate: "2024-04-08", StartTime: "10:00", EndTime: "12:00"},
		},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}}
	bookings := []application.Booking{{
		ID:        "bkg-1",
		Title:     "Board Meeting",
		Room:      "Office",
		StartDate: "2024-04-02",
		EndDate:   "2024-04-02",
		StartTime: "09:00",
		EndTime:   "10:30",
	}}

	output := feed.Render(activities, bookings)

	if !strings.Contains(output, "BEGIN:VCALENDAR") || !strings.Contains(output, "END:VCALENDAR") {
		t.Fatalf("output is not a calendar: %q", output)
	}
	if got := strings.Count(output, "BEGIN:VEVENT"); got != 3 {
		t.Fatalf("expected 3 events, got %d", got)
	}
	if !strings.Contains(output, "SUMMARY:Pottery Workshop") {
		t.Errorf("activity summary missing")
	}
	if !strings.Contains(output, "SUMMARY:Board Meeting") {
		t.Errorf("booking summary missing")
	}
	if !strings.Contains(output, "act-1-0@cocoso") || !strings.Contains(output, "act-1-1@cocoso") {
		t.Errorf("occurrence UIDs missing")
	}
}

func TestFeedSkipsMalformedEntries(t *testing.T) {
	feed := NewFeed("")

	activities := []application.Activity{{
		ID:    "act-broken",
		Title: "Broken",
		Occurrences: []application.Occurrence{
			{StartDate: "not-a-date", StartTime: "10:00", EndTime: "11:00"},
		},
	}}
	bookings := []application.Booking{{
		ID:        "bkg-ok",
		Title:     "Valid Booking",
		StartDate: "2024-04-05",
		StartTime: "14:00",
		EndTime:   "15:00",
	}}

	output := feed.Render(activities, bookings)

	if got := strings.Count(output, "BEGIN:VEVENT"); got != 1 {
		t.Fatalf("expected the malformed occurrence to be skipped, got %d events", got)
	}
	if !strings.Contains(output, "SUMMARY:Valid Booking") {
		t.Errorf("valid booking missing from feed")
	}
}

func TestFeedFullDayBookingSpansWholeDays(t *testing.T) {
	feed := NewFeed("Test")

	bookings := []application.Booking{{
		ID:        "bkg-full",
		Title:     "Retreat",
		StartDate: "2024-04-10",
		EndDate:   "2024-04-11",
		IsFullDay: true,
	}}

	output := feed.Render(nil, bookings)

	if !strings.Contains(output, "DTSTART:20240410T000000Z") {
		t.Errorf("full day start not at midnight: %q", output)
	}
	// End is exclusive, so a two day retreat ends at midnight on the 12th.
	if !strings.Contains(output, "DTEND:20240412T000000Z") {
		t.Errorf("full day end not extended past the last day: %q", output)
	}
}
