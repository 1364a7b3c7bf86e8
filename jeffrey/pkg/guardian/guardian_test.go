package guardian

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pbouda/jeffrey/jeffrey/internal/xmetrics"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/catalog"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/guard"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/preconditions"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
	"github.com/pbouda/jeffrey/jeffrey/pkg/xlog"
)

type fakeRepository struct {
	events map[record.Kind][]*record.Event
	err    error
	calls  map[record.Kind]int
}

func (r *fakeRepository) Stream(ctx context.Context, kind record.Kind, fn func(*record.Event) error) error {
	if r.calls == nil {
		r.calls = make(map[record.Kind]int)
	}
	r.calls[kind]++
	if r.err != nil {
		return r.err
	}
	for _, e := range r.events[kind] {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func stack(frameType record.FrameType, names ...string) []record.StackFrame {
	res := make([]record.StackFrame, 0, len(names))
	for _, name := range names {
		res = append(res, record.StackFrame{MethodName: name, Type: frameType})
	}
	return res
}

func executionEvents() []*record.Event {
	return []*record.Event{
		{
			Kind:  record.KindExecutionSample,
			Stack: stack(record.FrameTypeCPP, "thread_native_entry", "CompileBroker::compiler_thread_loop"),
			Count: 300,
		},
		{
			Kind:  record.KindExecutionSample,
			Stack: stack(record.FrameTypeCPP, "thread_native_entry", "WorkerThread::run", "G1EvacuateRegionsTask::work"),
			Count: 200,
		},
		{
			Kind:  record.KindExecutionSample,
			Stack: stack(record.FrameTypeJITCompiled, "java.lang.Thread.run", "ch.qos.logback.classic.Logger.info"),
			Count: 100,
		},
		{
			Kind:  record.KindExecutionSample,
			Stack: stack(record.FrameTypeJITCompiled, "java.lang.Thread.run", "com.example.App.work"),
			Count: 400,
		},
	}
}

var asyncG1 = preconditions.NewBuilder().
	WithEventSource(preconditions.EventSourceAsyncProfiler).
	WithGarbageCollector(preconditions.GarbageCollectorG1).
	Build()

func testGroup() *Group {
	return &Group{
		Name:           "test",
		Kinds:          []record.Kind{record.KindExecutionSample},
		MinimumSamples: 1000,
		Catalog:        []catalog.Entry{catalog.JITCompilation, catalog.Logback, catalog.G1GC, catalog.ZGC},
	}
}

func names(results []guard.Result) []string {
	res := make([]string, 0, len(results))
	for _, r := range results {
		res = append(res, r.Name)
	}
	return res
}

func TestGroupInsufficientSamples(t *testing.T) {
	repo := &fakeRepository{}
	summary := record.Summary{Kind: record.KindExecutionSample, Samples: 999}

	results, err := testGroup().Execute(context.Background(), repo, summary, asyncG1, guard.ProfileInfo{})
	require.NoError(t, err)
	require.Empty(t, repo.calls, "tree must not be built")

	require.Equal(t, []string{guard.TotalSamplesName, "G1 GC", "ZGC", "JIT Compilation", "Logback"}, names(results))
	require.Equal(t, guard.SeverityWarning, results[0].Severity)
	for _, res := range results[1:] {
		require.Equal(t, guard.SeverityNotApplicable, res.Severity, res.Name)
	}
	require.Equal(t, guard.CategoryGarbageCollection, results[1].Category)
	require.Equal(t, guard.CategoryJIT, results[3].Category)
}

func TestGroupExecute(t *testing.T) {
	repo := &fakeRepository{events: map[record.Kind][]*record.Event{
		record.KindExecutionSample: executionEvents(),
	}}
	summary := record.Summary{Kind: record.KindExecutionSample, Samples: 1000}
	info := guard.ProfileInfo{ProfileID: "profile-1", EventKind: record.KindExecutionSample}

	group := testGroup()
	group.Thresholds = map[string]float64{"Logback": 0.5}

	results, err := group.Execute(context.Background(), repo, summary, asyncG1, info)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls[record.KindExecutionSample])

	require.Equal(t, []string{guard.TotalSamplesName, "G1 GC", "ZGC", "JIT Compilation", "Logback"}, names(results))

	severities := make(map[string]guard.Severity)
	percents := make(map[string]string)
	for _, res := range results {
		severities[res.Name] = res.Severity
		percents[res.Name] = res.MatchedPercent
	}
	assert.Equal(t, guard.SeverityOK, severities[guard.TotalSamplesName])
	assert.Equal(t, guard.SeverityWarning, severities["G1 GC"])
	assert.Equal(t, "20%", percents["G1 GC"])
	assert.Equal(t, guard.SeverityNotApplicable, severities["ZGC"])
	assert.Equal(t, guard.SeverityWarning, severities["JIT Compilation"])
	assert.Equal(t, "30%", percents["JIT Compilation"])
	assert.Equal(t, guard.SeverityOK, severities["Logback"])
	assert.Equal(t, "10%", percents["Logback"])

	require.Equal(t, "profile-1", results[1].Visualization.ProfileID)
}

func TestGroupRepositoryError(t *testing.T) {
	streamErr := errors.New("corrupted recording")
	repo := &fakeRepository{err: streamErr}
	summary := record.Summary{Kind: record.KindExecutionSample, Samples: 1000}

	_, err := testGroup().Execute(context.Background(), repo, summary, asyncG1, guard.ProfileInfo{})
	require.ErrorIs(t, err, streamErr)
}

func TestGroupWithoutApplicableGuards(t *testing.T) {
	repo := &fakeRepository{events: map[record.Kind][]*record.Event{
		record.KindExecutionSample: executionEvents(),
	}}
	group := testGroup()
	group.Catalog = []catalog.Entry{catalog.ZGC}

	results, err := group.Execute(context.Background(), repo, record.Summary{Kind: record.KindExecutionSample, Samples: 1000}, asyncG1, guard.ProfileInfo{})
	require.NoError(t, err)
	require.Equal(t, []string{guard.TotalSamplesName, "ZGC"}, names(results))
	require.Equal(t, guard.SeverityNotApplicable, results[1].Severity)
}

func TestGuardianProcess(t *testing.T) {
	repo := &fakeRepository{events: map[record.Kind][]*record.Event{
		record.KindExecutionSample: executionEvents(),
	}}
	registry := xmetrics.NewRegistry()
	core, logs := observer.New(zapcore.DebugLevel)

	g := New(repo,
		WithLogger(xlog.New(zap.New(core))),
		WithMetrics(registry),
		WithProfileID("recording"),
	)
	require.Len(t, g.Groups(), 3)

	summaries := []record.Summary{
		{Kind: record.KindExecutionSample, Samples: 1000, Weight: 1000},
		{Kind: record.KindThreadPark, Samples: 10, Weight: 1_000_000},
	}
	results, err := g.Process(context.Background(), summaries, asyncG1)
	require.NoError(t, err)

	execution := len(catalog.ExecutionSamples()) + 1
	blocking := len(catalog.Blocking()) + 1
	require.Len(t, results, execution+blocking)

	require.Equal(t, guard.TotalSamplesName, results[0].Name)
	require.Equal(t, guard.SeverityOK, results[0].Severity)
	require.Equal(t, guard.TotalSamplesName, results[execution].Name)
	require.Equal(t, guard.SeverityWarning, results[execution].Severity)

	require.Equal(t, 1, repo.calls[record.KindExecutionSample])
	require.Zero(t, repo.calls[record.KindThreadPark])

	for _, res := range results {
		if res.Visualization != nil {
			require.Equal(t, "recording", res.Visualization.ProfileID)
		}
	}

	families, err := registry.Gather()
	require.NoError(t, err)
	var counted float64
	for _, family := range families {
		if family.GetName() != "guardian_guard_results_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			counted += metric.GetCounter().GetValue()
		}
	}
	require.EqualValues(t, len(results), counted)

	require.Equal(t, 2, logs.FilterMessage("Evaluated guardian group").Len())
	require.Equal(t, 1, logs.FilterMessage("No events for guardian group").Len())
	for _, entry := range logs.All() {
		require.Contains(t, entry.ContextMap(), "request.id")
	}
}

func TestGuardianProcessError(t *testing.T) {
	streamErr := errors.New("broken")
	g := New(&fakeRepository{err: streamErr})

	_, err := g.Process(context.Background(), []record.Summary{{Kind: record.KindExecutionSample, Samples: 5000}}, preconditions.Preconditions{})
	require.ErrorIs(t, err, streamErr)
}
