package traverse

import (
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/matcher"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
)

// Traverser looks for base frames during a depth-first walk and hands them to its traversals.
//
// The first frame it observes must be the root of the tree, its totals are
// the denominators of the guard result. Frames inside the subtree of an
// already accepted base frame are ignored, so nested matches never count the
// same samples twice.
type Traverser struct {
	base       matcher.FrameMatcher
	traversals []Traversal
	target     TargetFrameType
	matching   MatchingType

	started      bool
	done         bool
	totalSamples uint64
	totalWeight  uint64
	matchedDepth int
}

func NewTraverser(base matcher.FrameMatcher, supplier Supplier, target TargetFrameType, matching MatchingType) *Traverser {
	if supplier == nil {
		supplier = Of(CurrentFrame)
	}
	return &Traverser{
		base:         base,
		traversals:   supplier(),
		target:       target,
		matching:     matching,
		matchedDepth: -1,
	}
}

func (t *Traverser) Traverse(frame frametree.Frame, depth int, path []string) Next {
	if !t.started {
		t.started = true
		t.totalSamples = frame.TotalSamples()
		t.totalWeight = frame.TotalWeight()
	}
	if t.done {
		return Done
	}

	if t.matchedDepth >= 0 {
		if depth > t.matchedDepth {
			return Continue
		}
		t.matchedDepth = -1
	}

	if frame.IsRoot() || !t.target.Accepts(frame.Type()) || !t.base.Match(frame) {
		return Continue
	}

	found := false
	for _, traversal := range t.traversals {
		if traversal.Traverse(frame, path) == Done {
			found = true
		}
	}
	if !found {
		return Continue
	}

	if t.matching == FirstMatch {
		t.done = true
		return Done
	}
	t.matchedDepth = depth
	return Continue
}

func (t *Traverser) TotalSamples() uint64 {
	return t.totalSamples
}

func (t *Traverser) TotalWeight() uint64 {
	return t.totalWeight
}

// Selected returns the frames selected by all traversals.
func (t *Traverser) Selected() []Selection {
	res := make([]Selection, 0)
	for _, traversal := range t.traversals {
		res = append(res, traversal.Selected()...)
	}
	return res
}
