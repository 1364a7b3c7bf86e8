package samplefilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

func frames(names ...string) []record.StackFrame {
	res := make([]record.StackFrame, 0, len(names))
	for _, name := range names {
		res = append(res, record.StackFrame{MethodName: name})
	}
	return res
}

func TestIsIdle(t *testing.T) {
	tests := []struct {
		name     string
		stack    []record.StackFrame
		expected bool
	}{
		{
			name:     "Empty",
			expected: false,
		},
		{
			name:     "Running",
			stack:    frames("java.lang.Thread.run", "pbouda.App.compute"),
			expected: false,
		},
		{
			name:     "ParkedLeaf",
			stack:    frames("java.lang.Thread.run", "jdk.internal.misc.Unsafe.park"),
			expected: true,
		},
		{
			name:     "ParkInTheMiddle",
			stack:    frames("jdk.internal.misc.Unsafe.park", "pbouda.App.compute"),
			expected: false,
		},
		{
			name: "WaitingForTask",
			stack: frames(
				"java.lang.Thread.run",
				"java.util.concurrent.ThreadPoolExecutor.runWorker",
				"java.util.concurrent.ThreadPoolExecutor.getTask",
				"java.util.concurrent.LinkedBlockingQueue.take",
			),
			expected: true,
		},
		{
			name:     "NativeWait",
			stack:    frames("start_thread", "epoll_wait"),
			expected: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, IsIdle(test.stack))
		})
	}
}

func TestFilterEvents(t *testing.T) {
	running := &record.Event{
		Kind:   record.KindExecutionSample,
		Stack:  frames("main", "compute"),
		Thread: &record.Thread{Name: "main"},
	}
	parked := &record.Event{
		Kind:   record.KindExecutionSample,
		Stack:  frames("worker", "java.lang.Object.wait"),
		Thread: &record.Thread{Name: "worker-1"},
	}
	allocation := &record.Event{
		Kind:   record.KindObjectAllocationSample,
		Stack:  frames("main", "alloc"),
		Thread: &record.Thread{Name: "main"},
	}
	anonymous := &record.Event{
		Kind:  record.KindExecutionSample,
		Stack: frames("gc"),
	}
	events := []*record.Event{running, parked, allocation, anonymous}

	require.Equal(t, events, FilterEvents(events))
	require.Equal(t, []*record.Event{running, allocation, anonymous}, FilterEvents(events, ExcludeIdle()))
	require.Equal(t, []*record.Event{running, allocation}, FilterEvents(events, Threads("main")))
	require.Equal(t, events, FilterEvents(events, Threads()))
	require.Equal(t, []*record.Event{running}, FilterEvents(events,
		ExcludeIdle(),
		Threads("main", "worker-1"),
		FilterFunc(func(event *record.Event) bool { return event.Kind == record.KindExecutionSample }),
	))
}
