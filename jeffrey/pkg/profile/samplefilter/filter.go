package samplefilter

import (
	"github.com/pbouda/jeffrey/jeffrey/pkg/foreach"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

// EventFilter decides whether an event is handed to the frame tree builder.
type EventFilter interface {
	Matches(event *record.Event) bool
}

type FilterFunc func(event *record.Event) bool

func (f FilterFunc) Matches(event *record.Event) bool {
	return f(event)
}

// FilterEvents keeps the events matching every filter.
func FilterEvents(events []*record.Event, filters ...EventFilter) []*record.Event {
	if len(filters) == 0 {
		return events
	}
	return foreach.Filter(events, func(event *record.Event) bool {
		for _, filter := range filters {
			if !filter.Matches(event) {
				return false
			}
		}
		return true
	})
}
