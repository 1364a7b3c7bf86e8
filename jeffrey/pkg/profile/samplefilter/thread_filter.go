package samplefilter

import (
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

type threadFilter map[string]struct{}

func (tf threadFilter) Matches(event *record.Event) bool {
	if len(tf) == 0 {
		return true
	}
	if event.Thread == nil {
		return false
	}
	_, ok := tf[event.Thread.Name]
	return ok
}

// Threads keeps events sampled on one of the named threads. No names matches every event.
func Threads(names ...string) EventFilter {
	res := make(threadFilter, len(names))
	for _, name := range names {
		res[name] = struct{}{}
	}
	return res
}
