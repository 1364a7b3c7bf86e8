package catalog

import (
	"fmt"

	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/guard"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/matcher"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/preconditions"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/traverse"
)

// Entry creates a guard spec parameterized by its threshold.
type Entry struct {
	Name             string
	DefaultThreshold float64
	Spec             func(threshold float64) guard.Spec
}

// Build creates the spec with the default threshold unless thresholds override it.
func (e Entry) Build(thresholds map[string]float64) guard.Spec {
	threshold := e.DefaultThreshold
	if value, ok := thresholds[e.Name]; ok {
		threshold = value
	}
	return e.Spec(threshold)
}

// Category of the guard the entry creates.
func (e Entry) Category() guard.Category {
	return e.Spec(e.DefaultThreshold).Category
}

////////////////////////////////////////////////////////////////////////////////

type description struct {
	subject     string
	explanation string
	solution    string
}

func (d description) texts(unit string) guard.Texts {
	return guard.Texts{
		Explanation: d.explanation,
		Summary: func(e guard.Evaluation) string {
			comparison := "lower"
			if e.Severity == guard.SeverityWarning {
				comparison = "higher"
			}
			return fmt.Sprintf(
				"The ratio between the total %s (%d) and %s belonging to %s (%d) is %s than the threshold (%.2f / %.2f).",
				unit, e.TotalValue, unit, d.subject, e.ObservedValue, comparison, e.Ratio, e.Threshold,
			)
		},
		Solution: func(guard.Evaluation) string {
			return d.solution
		},
	}
}

var asyncProfiler = preconditions.NewBuilder().
	WithEventSource(preconditions.EventSourceAsyncProfiler).
	Build()

func gcPreconditions(gc preconditions.GarbageCollector) preconditions.Preconditions {
	return preconditions.NewBuilder().
		WithEventSource(preconditions.EventSourceAsyncProfiler).
		WithGarbageCollector(gc).
		Build()
}

// native creates an entry looking for C++ frames of the JVM, those are recorded by async-profiler only.
func native(name string, category guard.Category, threshold float64, base matcher.FrameMatcher, matching traverse.MatchingType, required preconditions.Preconditions, d description) Entry {
	return Entry{
		Name:             name,
		DefaultThreshold: threshold,
		Spec: func(threshold float64) guard.Spec {
			return guard.Spec{
				Name:            name,
				Category:        category,
				Threshold:       threshold,
				BaseMatcher:     base,
				TargetFrameType: traverse.TargetNative,
				MatchingType:    matching,
				ResultType:      guard.ResultSamples,
				Preconditions:   required,
				Texts:           d.texts("samples"),
			}
		},
	}
}

// java creates an entry looking for Java frames. Such guards apply to any event source.
func java(name string, threshold float64, resultType guard.ResultType, base matcher.FrameMatcher, traversals traverse.Supplier, d description) Entry {
	unit := "samples"
	if resultType == guard.ResultWeight {
		unit = "weight"
	}
	return Entry{
		Name:             name,
		DefaultThreshold: threshold,
		Spec: func(threshold float64) guard.Spec {
			return guard.Spec{
				Name:            name,
				Category:        guard.CategoryApplication,
				Threshold:       threshold,
				BaseMatcher:     base,
				Traversals:      traversals,
				TargetFrameType: traverse.TargetJava,
				MatchingType:    traverse.FullMatch,
				ResultType:      resultType,
				Texts:           d.texts(unit),
			}
		},
	}
}
