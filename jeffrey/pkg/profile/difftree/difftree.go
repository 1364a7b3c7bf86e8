package difftree

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

////////////////////////////////////////////////////////////////////////////////

type Variant int

const (
	Shared Variant = iota
	Added
	Removed
)

func (v Variant) String() string {
	switch v {
	case Shared:
		return "SHARED"
	case Added:
		return "ADDED"
	case Removed:
		return "REMOVED"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

////////////////////////////////////////////////////////////////////////////////

type NodeID int

const Root NodeID = 0

type node struct {
	variant   Variant
	name      string
	frameType record.FrameType

	baselineSamples   uint64
	baselineWeight    uint64
	comparisonSamples uint64
	comparisonWeight  uint64

	// Set for Added and Removed nodes only, the subtree is borrowed from its frame tree.
	source frametree.Frame

	children map[string]NodeID
}

// Tree merges a baseline and a comparison frame tree.
// It is immutable once returned by Generate.
type Tree struct {
	nodes []node
}

func (t *Tree) Root() Frame {
	return Frame{t, Root}
}

func (t *Tree) Len() int {
	return len(t.nodes)
}

// Find resolves a path of method names starting below the root.
func (t *Tree) Find(path ...string) (Frame, bool) {
	current := t.Root()
	for _, name := range path {
		next, ok := current.Child(name)
		if !ok {
			return Frame{}, false
		}
		current = next
	}
	return current, true
}

////////////////////////////////////////////////////////////////////////////////

// Frame is a read-only view of a single node of a diff Tree.
type Frame struct {
	tree *Tree
	id   NodeID
}

func (f Frame) node() *node {
	return &f.tree.nodes[f.id]
}

func (f Frame) ID() NodeID {
	return f.id
}

func (f Frame) Variant() Variant {
	return f.node().variant
}

func (f Frame) Name() string {
	return f.node().name
}

// Type returns the frame type of the baseline side for Shared frames
// and the frame type of the wrapped subtree otherwise.
func (f Frame) Type() record.FrameType {
	return f.node().frameType
}

func (f Frame) BaselineSamples() uint64 {
	return f.node().baselineSamples
}

func (f Frame) BaselineWeight() uint64 {
	return f.node().baselineWeight
}

func (f Frame) ComparisonSamples() uint64 {
	return f.node().comparisonSamples
}

func (f Frame) ComparisonWeight() uint64 {
	return f.node().comparisonWeight
}

// Samples returns baseline plus comparison samples. Added and Removed frames
// have only one side, so it is the total of the wrapped subtree.
func (f Frame) Samples() uint64 {
	n := f.node()
	return n.baselineSamples + n.comparisonSamples
}

func (f Frame) Weight() uint64 {
	n := f.node()
	return n.baselineWeight + n.comparisonWeight
}

// Source returns the wrapped subtree of Added and Removed frames.
func (f Frame) Source() frametree.Frame {
	return f.node().source
}

func (f Frame) Len() int {
	return len(f.node().children)
}

func (f Frame) Child(name string) (Frame, bool) {
	id, ok := f.node().children[name]
	if !ok {
		return Frame{}, false
	}
	return Frame{f.tree, id}, true
}

// Children returns child frames sorted by method name.
func (f Frame) Children() []Frame {
	children := f.node().children
	names := maps.Keys(children)
	slices.Sort(names)

	res := make([]Frame, 0, len(names))
	for _, name := range names {
		res = append(res, Frame{f.tree, children[name]})
	}
	return res
}
