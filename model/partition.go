package model

import (
	"sort"
	"time"
)

// StartOfDay truncates now to local midnight.
func StartOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// PartitionEvents splits events into upcoming (effective end on or after today,
// or no parseable date at all) and past ones. Upcoming events are ordered by
// start ascending, past events by start descending.
func PartitionEvents(events []Event, now time.Time) (upcoming, past []Event) {
	today := StartOfDay(now)
	upcoming = []Event{}
	past = []Event{}

	for _, event := range events {
		end := event.EffectiveEnd()
		if !end.Valid || !end.Time.Before(today) {
			upcoming = append(upcoming, event)
		} else {
			past = append(past, event)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartDate.UnixMilli() < upcoming[j].StartDate.UnixMilli()
	})
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].StartDate.UnixMilli() > past[j].StartDate.UnixMilli()
	})
	return upcoming, past
}

// OpenEvents keeps only events with a parseable effective end on or after today,
// ordered by start ascending. Used where a visitor must pick an event to apply to.
func OpenEvents(events []Event, now time.Time) []Event {
	today := StartOfDay(now)
	open := []Event{}
	for _, event := range events {
		end := event.EffectiveEnd()
		if end.Valid && !end.Time.Before(today) {
			open = append(open, event)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].StartDate.UnixMilli() < open[j].StartDate.UnixMilli()
	})
	return open
}
