package draft

import (
	"strconv"
	"time"
)

// DefaultCapacity is the capacity assigned to a freshly added occurrence.
const DefaultCapacity = 40

// dateLayout is the calendar-date precision used throughout the editor.
const dateLayout = "2006-01-02"

// Recurrence is one scheduled occurrence belonging to an activity draft: a
// calendar date range, a clock-time window, and a capacity. Times are held as
// free-form HH:MM strings; the editor never validates their ordering or
// granularity, mirroring the authoring surface it backs.
type Recurrence struct {
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
	Capacity  int
	Attendees []string
}

func (r Recurrence) clone() Recurrence {
	out := r
	out.Attendees = append([]string(nil), r.Attendees...)
	return out
}

// RecurrenceList maintains the ordered occurrence sequence for a single
// activity draft. Every mutation replaces the whole sequence (copy-on-write);
// callers holding an earlier snapshot never observe later edits.
//
// The list always contains at least one entry and the first entry cannot be
// removed.
type RecurrenceList struct {
	entries []Recurrence
	today   func() time.Time
}

// NewRecurrenceList seeds an editor with a single default occurrence: today's
// date as both ends of the range, empty times, and the default capacity. The
// today func may be nil, in which case the wall clock is used.
func NewRecurrenceList(today func() time.Time) *RecurrenceList {
	if today == nil {
		today = time.Now
	}
	l := &RecurrenceList{today: today}
	l.entries = []Recurrence{l.emptyEntry()}
	return l
}

func (l *RecurrenceList) emptyEntry() Recurrence {
	day := l.today().Format(dateLayout)
	return Recurrence{
		StartDate: day,
		EndDate:   day,
		Capacity:  DefaultCapacity,
		Attendees: []string{},
	}
}

// Len reports the number of occurrences in the draft.
func (l *RecurrenceList) Len() int {
	return len(l.entries)
}

// Entries returns a snapshot of the occurrence sequence.
func (l *RecurrenceList) Entries() []Recurrence {
	out := make([]Recurrence, len(l.entries))
	for i, entry := range l.entries {
		out[i] = entry.clone()
	}
	return out
}

// Add appends a fresh default occurrence. There is no upper bound on the
// number of occurrences.
func (l *RecurrenceList) Add() {
	next := make([]Recurrence, 0, len(l.entries)+1)
	for _, entry := range l.entries {
		next = append(next, entry.clone())
	}
	l.entries = append(next, l.emptyEntry())
}

// Remove deletes the occurrence at index. The first occurrence is protected:
// Remove(0) is a no-op, as is any out-of-range index.
func (l *RecurrenceList) Remove(index int) {
	if index <= 0 || index >= len(l.entries) {
		return
	}
	next := make([]Recurrence, 0, len(l.entries)-1)
	for i, entry := range l.entries {
		if i == index {
			continue
		}
		next = append(next, entry.clone())
	}
	l.entries = next
}

// SetDate applies a single-date selection to the occurrence at index. Picking
// the current start date collapses the range onto the end date; picking the
// current end date collapses it onto the start date. A date matching neither
// end leaves the occurrence unchanged.
func (l *RecurrenceList) SetDate(index int, date string) {
	l.mutate(index, func(entry *Recurrence) {
		switch date {
		case entry.StartDate:
			entry.StartDate = entry.EndDate
		case entry.EndDate:
			entry.EndDate = entry.StartDate
		}
	})
}

// SetDateRange replaces both ends of the occurrence's date range atomically.
// Inputs are truncated to calendar-date precision, so full ISO timestamps are
// accepted.
func (l *RecurrenceList) SetDateRange(index int, start, end string) {
	l.mutate(index, func(entry *Recurrence) {
		entry.StartDate = truncateToDate(start)
		entry.EndDate = truncateToDate(end)
	})
}

// SetStartTime stores the start time verbatim. No ordering check is performed
// against the end time.
func (l *RecurrenceList) SetStartTime(index int, value string) {
	l.mutate(index, func(entry *Recurrence) {
		entry.StartTime = value
	})
}

// SetEndTime stores the end time verbatim.
func (l *RecurrenceList) SetEndTime(index int, value string) {
	l.mutate(index, func(entry *Recurrence) {
		entry.EndTime = value
	})
}

// SetCapacity parses value as an integer capacity. Non-numeric input is
// silently ignored and the occurrence keeps its previous capacity.
func (l *RecurrenceList) SetCapacity(index int, value string) {
	capacity, err := strconv.Atoi(value)
	if err != nil {
		return
	}
	l.mutate(index, func(entry *Recurrence) {
		entry.Capacity = capacity
	})
}

// mutate rebuilds the sequence with fn applied to the entry at index. An
// out-of-range index leaves the sequence untouched.
func (l *RecurrenceList) mutate(index int, fn func(*Recurrence)) {
	if index < 0 || index >= len(l.entries) {
		return
	}
	next := make([]Recurrence, 0, len(l.entries))
	for i, entry := range l.entries {
		clone := entry.clone()
		if i == index {
			fn(&clone)
		}
		next = append(next, clone)
	}
	l.entries = next
}

func truncateToDate(value string) string {
	if len(value) > len(dateLayout) {
		return value[:len(dateLayout)]
	}
	return value
}
