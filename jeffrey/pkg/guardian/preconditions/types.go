package preconditions

import (
	"fmt"
	"strings"
)

type EventSource int

const (
	EventSourceUnknown EventSource = iota
	EventSourceJDK
	EventSourceAsyncProfiler
)

var eventSourceNames = map[EventSource]string{
	EventSourceJDK:           "jdk",
	EventSourceAsyncProfiler: "async-profiler",
}

func (s EventSource) String() string {
	if name, ok := eventSourceNames[s]; ok {
		return name
	}
	return "unknown"
}

func ParseEventSource(value string) (EventSource, error) {
	for source, name := range eventSourceNames {
		if strings.EqualFold(name, value) {
			return source, nil
		}
	}
	return EventSourceUnknown, fmt.Errorf("unknown event source %q", value)
}

////////////////////////////////////////////////////////////////////////////////

type GarbageCollector int

const (
	GarbageCollectorUnknown GarbageCollector = iota
	GarbageCollectorSerial
	GarbageCollectorParallel
	GarbageCollectorG1
	GarbageCollectorShenandoah
	GarbageCollectorZ
	GarbageCollectorZGenerational
)

type collectorInfo struct {
	name string
	// Name of the old generation collector reported by the GCConfiguration event.
	oldGen string
}

var collectors = map[GarbageCollector]collectorInfo{
	GarbageCollectorSerial:        {"Serial", "SerialOld"},
	GarbageCollectorParallel:      {"Parallel", "ParallelOld"},
	GarbageCollectorG1:            {"G1", "G1Old"},
	GarbageCollectorShenandoah:    {"Shenandoah", "Shenandoah"},
	GarbageCollectorZ:             {"Z", "Z"},
	GarbageCollectorZGenerational: {"ZGenerational", "ZGC Major"},
}

func (gc GarbageCollector) String() string {
	if info, ok := collectors[gc]; ok {
		return info.name
	}
	return "Unknown"
}

// ParseGarbageCollector accepts collector names like "G1" or "ZGenerational", case insensitive.
func ParseGarbageCollector(value string) (GarbageCollector, error) {
	for gc, info := range collectors {
		if strings.EqualFold(info.name, value) {
			return gc, nil
		}
	}
	return GarbageCollectorUnknown, fmt.Errorf("unknown garbage collector %q", value)
}

// FromOldGenCollector resolves the collector from the old generation collector name of a recording.
func FromOldGenCollector(name string) GarbageCollector {
	for gc, info := range collectors {
		if info.oldGen == name {
			return gc
		}
	}
	return GarbageCollectorUnknown
}
