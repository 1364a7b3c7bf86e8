package record

import (
	"fmt"
	"time"
)

////////////////////////////////////////////////////////////////////////////////

// Kind is the recording event type a stack-based record originates from.
type Kind int

const (
	KindUnknown Kind = iota
	KindExecutionSample
	KindWallClockSample
	KindMallocSample
	KindObjectAllocationInNewTLAB
	KindObjectAllocationOutsideTLAB
	KindObjectAllocationSample
	KindJavaMonitorEnter
	KindJavaMonitorWait
	KindThreadPark
	KindThreadSleep
)

type extractor func(e *Event) (samples, weight uint64)

type kindInfo struct {
	code    string
	extract extractor
}

var kinds = map[Kind]kindInfo{
	KindExecutionSample:             {"jdk.ExecutionSample", countWeighted},
	KindWallClockSample:             {"profiler.WallClockSample", countWeighted},
	KindMallocSample:                {"profiler.Malloc", bytesWeighted},
	KindObjectAllocationInNewTLAB:   {"jdk.ObjectAllocationInNewTLAB", bytesWeighted},
	KindObjectAllocationOutsideTLAB: {"jdk.ObjectAllocationOutsideTLAB", bytesWeighted},
	KindObjectAllocationSample:      {"jdk.ObjectAllocationSample", bytesWeighted},
	KindJavaMonitorEnter:            {"jdk.JavaMonitorEnter", durationWeighted},
	KindJavaMonitorWait:             {"jdk.JavaMonitorWait", durationWeighted},
	KindThreadPark:                  {"jdk.ThreadPark", durationWeighted},
	KindThreadSleep:                 {"jdk.ThreadSleep", durationWeighted},
}

func countWeighted(e *Event) (uint64, uint64) {
	samples := e.samples()
	return samples, samples
}

func bytesWeighted(e *Event) (uint64, uint64) {
	return e.samples(), e.Bytes
}

func durationWeighted(e *Event) (uint64, uint64) {
	if e.Duration < 0 {
		return e.samples(), 0
	}
	return e.samples(), uint64(e.Duration.Nanoseconds())
}

// Code returns the JFR event name of the kind.
func (k Kind) Code() string {
	return kinds[k].code
}

func (k Kind) String() string {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Extract returns samples and weight the event contributes to a frame tree.
// A preset Event.Weight wins over the weight derived from the kind.
func (k Kind) Extract(e *Event) (samples, weight uint64) {
	extract := countWeighted
	if info, ok := kinds[k]; ok {
		extract = info.extract
	}
	samples, weight = extract(e)
	if e.Weight != 0 {
		weight = e.Weight
	}
	return samples, weight
}

func ParseKind(code string) (Kind, error) {
	for kind, info := range kinds {
		if info.code == code {
			return kind, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown event type %q", code)
}

////////////////////////////////////////////////////////////////////////////////

// Event is a single stack-based record. Stack is ordered from the root to the leaf.
type Event struct {
	Kind     Kind
	Stack    []StackFrame
	Thread   *Thread
	Count    uint64
	Duration time.Duration
	Bytes    uint64
	Weight   uint64
}

func (e *Event) samples() uint64 {
	if e.Count == 0 {
		return 1
	}
	return e.Count
}

// Extract is a shortcut for e.Kind.Extract(e).
func (e *Event) Extract() (samples, weight uint64) {
	return e.Kind.Extract(e)
}

// Summary aggregates all events of one kind in a recording.
type Summary struct {
	Kind    Kind
	Samples uint64
	Weight  uint64
}

func Summarize(kind Kind, events []*Event) Summary {
	res := Summary{Kind: kind}
	for _, e := range events {
		samples, weight := e.Extract()
		res.Samples += samples
		res.Weight += weight
	}
	return res
}
