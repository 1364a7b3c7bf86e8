package preconditions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

func TestMatches(t *testing.T) {
	current := NewBuilder().
		WithEventSource(EventSourceAsyncProfiler).
		WithGarbageCollector(GarbageCollectorG1).
		WithDebugSymbolsAvailable(true).
		WithEventKinds(record.KindExecutionSample, record.KindThreadPark).
		Build()

	for _, test := range []struct {
		name     string
		required Preconditions
		matches  bool
	}{
		{"empty", Preconditions{}, true},
		{"same_gc", NewBuilder().WithGarbageCollector(GarbageCollectorG1).Build(), true},
		{"other_gc", NewBuilder().WithGarbageCollector(GarbageCollectorZ).Build(), false},
		{"event_source", NewBuilder().WithEventSource(EventSourceAsyncProfiler).Build(), true},
		{"other_event_source", NewBuilder().WithEventSource(EventSourceJDK).Build(), false},
		{"debug_symbols", NewBuilder().WithDebugSymbolsAvailable(true).Build(), true},
		{"missing_debug_symbols", NewBuilder().WithDebugSymbolsAvailable(false).Build(), false},
		{"unknown_kernel_symbols", NewBuilder().WithKernelSymbolsAvailable(true).Build(), false},
		{"event_kinds", NewBuilder().WithEventKinds(record.KindThreadPark).Build(), true},
		{"missing_event_kind", NewBuilder().WithEventKinds(record.KindJavaMonitorEnter).Build(), false},
		{
			"everything",
			NewBuilder().
				WithEventSource(EventSourceAsyncProfiler).
				WithGarbageCollector(GarbageCollectorG1).
				WithDebugSymbolsAvailable(true).
				WithEventKinds(record.KindExecutionSample).
				Build(),
			true,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.matches, test.required.Matches(current))
		})
	}

	require.True(t, Preconditions{}.Matches(Preconditions{}))
	require.False(t, NewBuilder().WithGarbageCollector(GarbageCollectorG1).Build().Matches(Preconditions{}))
}

func TestParse(t *testing.T) {
	p, err := Parse(map[string]string{
		"gc_algorithm":   "g1",
		"event_source":   "async-profiler",
		"debug_symbols":  "true",
		"kernel_symbols": "false",
		"event_kinds":    "jdk.ExecutionSample, jdk.ThreadPark",
	})
	require.NoError(t, err)
	require.Equal(t, GarbageCollectorG1, p.GarbageCollector())
	require.Equal(t, EventSourceAsyncProfiler, p.EventSource())

	available, known := p.DebugSymbolsAvailable()
	require.True(t, known)
	require.True(t, available)

	available, known = p.KernelSymbolsAvailable()
	require.True(t, known)
	require.False(t, available)

	require.Equal(t, []record.Kind{record.KindExecutionSample, record.KindThreadPark}, p.EventKinds())
	require.Equal(t,
		"{gc_algorithm=G1, event_source=async-profiler, debug_symbols=true, kernel_symbols=false, event_kinds=jdk.ExecutionSample,jdk.ThreadPark}",
		p.String(),
	)

	oldGen, err := Parse(map[string]string{"gc_old_collector": "ZGC Major"})
	require.NoError(t, err)
	require.Equal(t, GarbageCollectorZGenerational, oldGen.GarbageCollector())

	explicit, err := Parse(map[string]string{"gc_algorithm": "Parallel", "gc_old_collector": "G1Old"})
	require.NoError(t, err)
	require.Equal(t, GarbageCollectorParallel, explicit.GarbageCollector())

	for _, values := range []map[string]string{
		{"gc_algorithm": "CMS"},
		{"gc_old_collector": "ConcurrentMarkSweep"},
		{"event_source": "perf"},
		{"debug_symbols": "maybe"},
		{"event_kinds": "jdk.Unknown"},
		{"heap_size": "1G"},
	} {
		_, err := Parse(values)
		require.Error(t, err, values)
	}

	empty, err := Parse(nil)
	require.NoError(t, err)
	require.True(t, empty.IsEmpty())
}

func TestFromOldGenCollector(t *testing.T) {
	for name, expected := range map[string]GarbageCollector{
		"SerialOld":   GarbageCollectorSerial,
		"ParallelOld": GarbageCollectorParallel,
		"G1Old":       GarbageCollectorG1,
		"Shenandoah":  GarbageCollectorShenandoah,
		"Z":           GarbageCollectorZ,
		"ZGC Major":   GarbageCollectorZGenerational,
		"CMS":         GarbageCollectorUnknown,
	} {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, expected, FromOldGenCollector(name))
		})
	}
}

func TestBuilderIsReusable(t *testing.T) {
	b := NewBuilder().WithEventKinds(record.KindExecutionSample)
	first := b.Build()
	b.WithEventKinds(record.KindThreadPark)
	second := b.Build()

	require.Len(t, first.EventKinds(), 1)
	require.Len(t, second.EventKinds(), 2)
}
