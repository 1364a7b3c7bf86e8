package guard

import (
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/matcher"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/preconditions"
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/traverse"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
)

// Guard observes every frame of a single tree walk and reports a Result afterwards.
//
// Initialize is called once before the walk, a guard returning false is not
// fed any frame. Result is called once the walk is over and returns the same
// value on every call.
type Guard interface {
	Name() string
	Category() Category
	Initialize(current preconditions.Preconditions) bool
	Traverse(frame frametree.Frame, depth int, path []string) traverse.Next
	Result() Result
}

// Texts produce the human readable parts of a result.
type Texts struct {
	Explanation string
	Summary     func(e Evaluation) string
	// Solution is asked for warnings only.
	Solution func(e Evaluation) string
}

// Spec describes a guard looking for base frames and comparing the selected part of the tree with its total.
type Spec struct {
	Name            string
	Category        Category
	Threshold       float64
	BaseMatcher     matcher.FrameMatcher
	Traversals      traverse.Supplier
	TargetFrameType traverse.TargetFrameType
	MatchingType    traverse.MatchingType
	ResultType      ResultType
	Preconditions   preconditions.Preconditions
	Texts           Texts
}

// New creates a guard evaluating spec over a profile.
func New(spec Spec, info ProfileInfo) Guard {
	return &traversableGuard{
		spec:       spec,
		info:       info,
		traverser:  traverse.NewTraverser(spec.BaseMatcher, spec.Traversals, spec.TargetFrameType, spec.MatchingType),
		next:       traverse.NotStarted,
		applicable: true,
	}
}

type traversableGuard struct {
	spec      Spec
	info      ProfileInfo
	traverser *traverse.Traverser

	next       traverse.Next
	applicable bool
	result     *Result
}

func (g *traversableGuard) Name() string {
	return g.spec.Name
}

func (g *traversableGuard) Category() Category {
	return g.spec.Category
}

func (g *traversableGuard) Initialize(current preconditions.Preconditions) bool {
	g.applicable = g.spec.Preconditions.Matches(current)
	if !g.applicable {
		g.next = traverse.Done
	}
	return g.applicable
}

func (g *traversableGuard) Traverse(frame frametree.Frame, depth int, path []string) traverse.Next {
	if g.next == traverse.NotStarted {
		g.next = traverse.Continue
	}
	if g.next == traverse.Done {
		return traverse.Done
	}
	g.next = g.traverser.Traverse(frame, depth, path)
	return g.next
}

func (g *traversableGuard) Result() Result {
	if g.result != nil {
		return *g.result
	}

	var res Result
	if !g.applicable || g.next == traverse.NotStarted {
		// Either a different environment or the walk never happened.
		res = NotApplicable(g.spec.Name, g.spec.Category)
	} else {
		res = g.evaluate()
	}
	g.result = &res
	return res
}

func (g *traversableGuard) evaluate() Result {
	useWeight := g.spec.ResultType == ResultWeight

	total := g.traverser.TotalSamples()
	if useWeight {
		total = g.traverser.TotalWeight()
	}

	selected := g.traverser.Selected()
	var observed uint64
	for _, s := range selected {
		if useWeight {
			observed += s.Frame.TotalWeight()
		} else {
			observed += s.Frame.TotalSamples()
		}
	}

	eval := Evaluate(total, observed, g.spec.Threshold)
	eval.Selected = selected

	res := Result{
		Name:           g.spec.Name,
		Severity:       eval.Severity,
		Explanation:    g.spec.Texts.Explanation,
		MatchedPercent: FormatPercent(eval.MatchedPercent),
		Totals:         &Totals{Total: eval.TotalValue, Observed: eval.ObservedValue},
		Category:       g.spec.Category,
		Visualization: &Visualization{
			ProfileID: g.info.ProfileID,
			EventKind: g.info.EventKind.Code(),
			UseWeight: useWeight,
			Matched:   Matched{Severity: eval.Severity, Percent: eval.MatchedPercent},
			Markers:   eval.Markers(),
		},
	}
	if g.spec.Texts.Summary != nil {
		res.Summary = g.spec.Texts.Summary(eval)
	}
	if eval.Severity == SeverityWarning && g.spec.Texts.Solution != nil {
		res.Solution = g.spec.Texts.Solution(eval)
	}
	return res
}
