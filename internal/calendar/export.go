// Package calendar renders the public schedule as an iCalendar feed.
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/streamerd/cocoso/internal/application"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

// Feed assembles an iCalendar document from public activity occurrences and
// room bookings. Entries whose dates cannot be parsed are skipped so one
// malformed record never breaks the whole feed.
type Feed struct {
	name string
}

func NewFeed(name string) *Feed {
	if name == "" {
		name = "Cocoso"
	}
	return &Feed{name: name}
}

// Render serializes the feed. Each occurrence of an activity becomes its own
// event so recurring activities show every date they run on.
func (f *Feed) Render(activities []application.Activity, bookings []application.Booking) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + f.name + "//Cocoso//EN")
	cal.SetName(f.name)

	for _, activity := range activities {
		for i, occ := range activity.Occurrences {
			start, end, ok := occurrenceInterval(occ)
			if !ok {
				continue
			}

			event := cal.AddEvent(fmt.Sprintf("%s-%d@cocoso", activity.ID, i))
			event.SetSummary(activity.Title)
			event.SetStartAt(start)
			event.SetEndAt(end)
			if activity.LongDescription != "" {
				event.SetDescription(activity.LongDescription)
			}
			if activity.Room != "" {
				event.SetLocation(activity.Room)
			}
			if !activity.CreatedAt.IsZero() {
				event.SetCreatedTime(activity.CreatedAt)
			}
		}
	}

	for _, booking := range bookings {
		start, end, ok := bookingInterval(booking)
		if !ok {
			continue
		}

		event := cal.AddEvent(booking.ID + "@cocoso")
		event.SetSummary(booking.Title)
		event.SetStartAt(start)
		event.SetEndAt(end)
		if booking.LongDescription != "" {
			event.SetDescription(booking.LongDescription)
		}
		if booking.Room != "" {
			event.SetLocation(booking.Room)
		}
		if !booking.CreatedAt.IsZero() {
			event.SetCreatedTime(booking.CreatedAt)
		}
	}

	return cal.Serialize()
}

func occurrenceInterval(occ application.Occurrence) (time.Time, time.Time, bool) {
	return interval(occ.StartDate, occ.StartTime, occ.EndDate, occ.EndTime, false)
}

func bookingInterval(booking application.Booking) (time.Time, time.Time, bool) {
	return interval(booking.StartDate, booking.StartTime, booking.EndDate, booking.EndTime, booking.IsFullDay)
}

// interval parses the string date/time pairs carried on the models. Full day
// entries span from midnight to midnight of the following day.
func interval(startDate, startTime, endDate, endTime string, fullDay bool) (time.Time, time.Time, bool) {
	if endDate == "" {
		endDate = startDate
	}

	if fullDay || startTime == "" || endTime == "" {
		start, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		end, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, false
		}
		return start, end.AddDate(0, 0, 1), true
	}

	start, err := time.ParseInLocation(dateTimeLayout, startDate+" "+startTime, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.ParseInLocation(dateTimeLayout, endDate+" "+endTime, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
