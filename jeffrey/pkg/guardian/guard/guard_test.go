package guard_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/guard"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/matcher"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/preconditions"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/traverse"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

func buildTree() *frametree.Tree {
	b := frametree.NewBuilder()
	for _, s := range []struct {
		stack   string
		samples uint64
		weight  uint64
	}{
		{"main;log.info;log.append", 4, 400},
		{"main;log.info", 2, 200},
		{"main;work;log.info", 4, 100},
		{"main;work;compute", 10, 300},
	} {
		stack := make([]record.StackFrame, 0)
		for _, name := range strings.Split(s.stack, ";") {
			stack = append(stack, record.StackFrame{MethodName: name, Type: record.FrameTypeJITCompiled})
		}
		b.Accumulate(stack, s.weight, s.samples)
	}
	return b.Build()
}

func walk(tree *frametree.Tree, guards ...guard.Guard) {
	tree.Walk(func(frame frametree.Frame, depth int, path []string) bool {
		for _, g := range guards {
			g.Traverse(frame, depth, path)
		}
		return true
	})
}

func loggingSpec(threshold float64) guard.Spec {
	return guard.Spec{
		Name:            "Logging",
		Category:        guard.CategoryApplication,
		Threshold:       threshold,
		BaseMatcher:     matcher.Prefix("log."),
		TargetFrameType: traverse.TargetJava,
		MatchingType:    traverse.FullMatch,
		Texts: guard.Texts{
			Explanation: "Logging is expensive.",
			Summary: func(e guard.Evaluation) string {
				return fmt.Sprintf("%d of %d", e.ObservedValue, e.TotalValue)
			},
			Solution: func(guard.Evaluation) string {
				return "Log less."
			},
		},
	}
}

func TestEvaluateThresholdBoundary(t *testing.T) {
	require.Equal(t, guard.SeverityOK, guard.Evaluate(100, 5, 0.05).Severity)
	require.Equal(t, guard.SeverityWarning, guard.Evaluate(100, 6, 0.05).Severity)
	require.Equal(t, guard.SeverityOK, guard.Evaluate(1000, 50, 0.05).Severity)
	require.Equal(t, guard.SeverityWarning, guard.Evaluate(1000, 51, 0.05).Severity)

	empty := guard.Evaluate(0, 0, 0.05)
	require.Zero(t, empty.Ratio)
	require.Equal(t, guard.SeverityOK, empty.Severity)
	require.Zero(t, empty.MatchedPercent)
}

func TestRoundSignificant(t *testing.T) {
	for _, test := range []struct {
		value    float64
		expected float64
	}{
		{0, 0},
		{57.142857, 57},
		{0.571428, 0.57},
		{12.5, 13},
		{0.0456, 0.046},
		{99.96, 100},
		{100, 100},
		{3.14159, 3.1},
	} {
		t.Run(fmt.Sprint(test.value), func(t *testing.T) {
			require.InDelta(t, test.expected, guard.RoundSignificant(test.value, 2), 1e-12)
		})
	}

	require.Equal(t, "57%", guard.FormatPercent(57))
	require.Equal(t, "0.57%", guard.FormatPercent(0.57))
	require.Equal(t, "0%", guard.FormatPercent(0))
}

func TestTraversableGuard(t *testing.T) {
	g := guard.New(loggingSpec(0.3), guard.ProfileInfo{ProfileID: "primary", EventKind: record.KindExecutionSample})
	require.Equal(t, "Logging", g.Name())
	require.Equal(t, guard.CategoryApplication, g.Category())
	require.True(t, g.Initialize(preconditions.Preconditions{}))

	walk(buildTree(), g)

	res := g.Result()
	require.Equal(t, guard.SeverityWarning, res.Severity)
	require.Equal(t, "50%", res.MatchedPercent)
	require.Equal(t, &guard.Totals{Total: 20, Observed: 10}, res.Totals)
	require.Equal(t, "10 of 20", res.Summary)
	require.Equal(t, "Log less.", res.Solution)
	require.Equal(t, "Logging is expensive.", res.Explanation)

	require.NotNil(t, res.Visualization)
	require.Equal(t, "primary", res.Visualization.ProfileID)
	require.Equal(t, "jdk.ExecutionSample", res.Visualization.EventKind)
	require.False(t, res.Visualization.UseWeight)
	require.Equal(t, guard.Matched{Severity: guard.SeverityWarning, Percent: 50}, res.Visualization.Matched)
	require.Equal(t, []guard.Marker{
		{Severity: guard.SeverityWarning, Path: []string{"main", "log.info"}},
		{Severity: guard.SeverityWarning, Path: []string{"main", "work", "log.info"}},
	}, res.Visualization.Markers)

	require.Equal(t, res, g.Result(), "result is computed once")
}

func TestTraversableGuardOK(t *testing.T) {
	g := guard.New(loggingSpec(0.5), guard.ProfileInfo{})
	require.True(t, g.Initialize(preconditions.Preconditions{}))
	walk(buildTree(), g)

	res := g.Result()
	require.Equal(t, guard.SeverityOK, res.Severity)
	require.Empty(t, res.Solution)
}

func TestTraversableGuardWeight(t *testing.T) {
	spec := loggingSpec(0.3)
	spec.ResultType = guard.ResultWeight
	g := guard.New(spec, guard.ProfileInfo{})
	require.True(t, g.Initialize(preconditions.Preconditions{}))
	walk(buildTree(), g)

	res := g.Result()
	require.Equal(t, guard.SeverityWarning, res.Severity)
	require.Equal(t, "70%", res.MatchedPercent)
	require.Equal(t, "700 of 1000", res.Summary)
	require.Equal(t, &guard.Totals{Total: 1000, Observed: 700}, res.Totals)
	require.True(t, res.Visualization.UseWeight)
}

func TestTraversableGuardNotApplicable(t *testing.T) {
	spec := loggingSpec(0.3)
	spec.Preconditions = preconditions.NewBuilder().WithGarbageCollector(preconditions.GarbageCollectorG1).Build()
	current := preconditions.NewBuilder().WithGarbageCollector(preconditions.GarbageCollectorZ).Build()

	g := guard.New(spec, guard.ProfileInfo{})
	require.False(t, g.Initialize(current))
	require.Equal(t, traverse.Done, g.Traverse(buildTree().Root(), 0, nil))

	res := g.Result()
	require.Equal(t, guard.NotApplicable("Logging", guard.CategoryApplication), res)
	require.Nil(t, res.Visualization)

	applicable := guard.New(spec, guard.ProfileInfo{})
	require.True(t, applicable.Initialize(
		preconditions.NewBuilder().WithGarbageCollector(preconditions.GarbageCollectorG1).Build(),
	))
}

func TestTraversableGuardNeverStarted(t *testing.T) {
	g := guard.New(loggingSpec(0.3), guard.ProfileInfo{})
	require.True(t, g.Initialize(preconditions.Preconditions{}))
	require.Equal(t, guard.SeverityNotApplicable, g.Result().Severity)
}

func TestTraversableGuardFirstMatch(t *testing.T) {
	spec := loggingSpec(0.3)
	spec.MatchingType = traverse.FirstMatch
	g := guard.New(spec, guard.ProfileInfo{})
	require.True(t, g.Initialize(preconditions.Preconditions{}))

	var last traverse.Next
	buildTree().Walk(func(frame frametree.Frame, depth int, path []string) bool {
		last = g.Traverse(frame, depth, path)
		return true
	})
	require.Equal(t, traverse.Done, last)

	res := g.Result()
	require.Equal(t, "30%", res.MatchedPercent)
	require.Equal(t, guard.SeverityOK, res.Severity)
}

func TestTotalSamplesGuard(t *testing.T) {
	for _, test := range []struct {
		measured uint64
		minimum  uint64
		severity guard.Severity
	}{
		{measured: 1000, minimum: 1000, severity: guard.SeverityOK},
		{measured: 1001, minimum: 1000, severity: guard.SeverityOK},
		{measured: 999, minimum: 1000, severity: guard.SeverityWarning},
		{measured: 0, minimum: 0, severity: guard.SeverityOK},
	} {
		t.Run(fmt.Sprintf("%d/%d", test.measured, test.minimum), func(t *testing.T) {
			g := guard.NewTotalSamplesGuard(test.measured, test.minimum)
			assert.True(t, g.Preconditions().IsEmpty())
			assert.True(t, g.Initialize(preconditions.NewBuilder().WithEventSource(preconditions.EventSourceJDK).Build()))
			assert.Equal(t, traverse.Done, g.Traverse(frametree.Frame{}, 0, nil))

			res := g.Result()
			require.Equal(t, test.severity, res.Severity)
			require.Equal(t, guard.TotalSamplesName, res.Name)
			require.Equal(t, guard.CategoryPrerequisites, res.Category)
			require.Equal(t, test.severity == guard.SeverityWarning, res.Solution != "")
		})
	}
}

func TestResultJSON(t *testing.T) {
	data, err := json.Marshal(guard.NotApplicable("G1 GC", guard.CategoryGarbageCollection))
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"G1 GC","severity":"NOT_APPLICABLE","category":"Garbage Collection"}`, string(data))

	data, err = json.Marshal(guard.Result{
		Name:           "Logging",
		Severity:       guard.SeverityOK,
		MatchedPercent: "25%",
		Totals:         &guard.Totals{Total: 40, Observed: 10},
		Category:       guard.CategoryApplication,
	})
	require.NoError(t, err)
	require.JSONEq(t,
		`{"name":"Logging","severity":"OK","matchedPercent":"25%","totals":{"total":40,"observed":10},"category":"Application"}`,
		string(data),
	)
}
