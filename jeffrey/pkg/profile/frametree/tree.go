package frametree

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

const (
	RootName       = "all"
	TruncatedStack = "(truncated stack)"
)

////////////////////////////////////////////////////////////////////////////////

// NodeID addresses a frame inside the arena of its tree.
type NodeID int

const Root NodeID = 0

type counts struct {
	samples uint64
	weight  uint64
}

func (c *counts) add(samples, weight uint64) {
	c.samples += samples
	c.weight += weight
}

type node struct {
	name       string
	frameType  record.FrameType
	lineNumber int32

	total counts
	self  counts

	children map[string]NodeID
}

// Tree is a call tree. All frames live in a single arena owned by the tree,
// frames never get removed once created.
type Tree struct {
	nodes []node
}

func newTree() *Tree {
	t := &Tree{nodes: make([]node, 0, 1024)}
	t.newNode(RootName, record.FrameTypeUnknown, 0)
	return t
}

func (t *Tree) newNode(name string, frameType record.FrameType, line int32) NodeID {
	t.nodes = append(t.nodes, node{
		name:       name,
		frameType:  frameType,
		lineNumber: line,
		children:   make(map[string]NodeID),
	})
	return NodeID(len(t.nodes) - 1)
}

func (t *Tree) child(parent NodeID, name string, frameType record.FrameType, line int32) NodeID {
	id, found := t.nodes[parent].children[name]
	if !found {
		id = t.newNode(name, frameType, line)
		t.nodes[parent].children[name] = id
	}
	return id
}

func (t *Tree) Root() Frame {
	return Frame{t, Root}
}

func (t *Tree) Frame(id NodeID) Frame {
	return Frame{t, id}
}

// Len returns the number of frames including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

func (t *Tree) TotalSamples() uint64 {
	return t.nodes[Root].total.samples
}

func (t *Tree) TotalWeight() uint64 {
	return t.nodes[Root].total.weight
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

// Depth returns the number of layers having at least one frame with cutoff samples.
func (t *Tree) Depth(cutoff uint64) int {
	return t.depth(Root, cutoff)
}

func (t *Tree) depth(id NodeID, cutoff uint64) int {
	depth := 0
	for _, child := range t.nodes[id].children {
		if t.nodes[child].total.samples >= cutoff {
			depth = max(depth, t.depth(child, cutoff))
		}
	}
	return depth + 1
}

// WalkFunc is called for every visited frame. The path slice holds method
// names from the first frame below the root to the frame itself and is reused
// between calls. Returning false skips the children of the frame.
type WalkFunc func(frame Frame, depth int, path []string) bool

// Walk visits the tree depth-first in pre-order, siblings sorted by name.
func (t *Tree) Walk(fn WalkFunc) {
	path := make([]string, 0, 64)
	t.walk(Root, 0, path, fn)
}

func (t *Tree) walk(id NodeID, depth int, path []string, fn WalkFunc) {
	if !fn(Frame{t, id}, depth, path) {
		return
	}
	for _, child := range t.sortedChildren(id) {
		t.walk(child, depth+1, append(path, t.nodes[child].name), fn)
	}
}

func (t *Tree) sortedChildren(id NodeID) []NodeID {
	children := t.nodes[id].children
	if len(children) == 0 {
		return nil
	}

	names := maps.Keys(children)
	slices.Sort(names)

	res := make([]NodeID, 0, len(names))
	for _, name := range names {
		res = append(res, children[name])
	}
	return res
}

////////////////////////////////////////////////////////////////////////////////

// Frame is a read-only view of a single node of a Tree.
type Frame struct {
	tree *Tree
	id   NodeID
}

func (f Frame) IsValid() bool {
	return f.tree != nil
}

func (f Frame) Tree() *Tree {
	return f.tree
}

func (f Frame) ID() NodeID {
	return f.id
}

func (f Frame) IsRoot() bool {
	return f.id == Root
}

func (f Frame) node() *node {
	return &f.tree.nodes[f.id]
}

func (f Frame) Name() string {
	return f.node().name
}

func (f Frame) Type() record.FrameType {
	return f.node().frameType
}

func (f Frame) LineNumber() int32 {
	return f.node().lineNumber
}

func (f Frame) TotalSamples() uint64 {
	return f.node().total.samples
}

func (f Frame) TotalWeight() uint64 {
	return f.node().total.weight
}

func (f Frame) SelfSamples() uint64 {
	return f.node().self.samples
}

func (f Frame) SelfWeight() uint64 {
	return f.node().self.weight
}

func (f Frame) Len() int {
	return len(f.node().children)
}

func (f Frame) IsLeaf() bool {
	return f.Len() == 0
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
	ids := f.tree.sortedChildren(f.id)
	res := make([]Frame, 0, len(ids))
	for _, id := range ids {
		res = append(res, Frame{f.tree, id})
	}
	return res
}

func (f Frame) ChildNames() []string {
	names := maps.Keys(f.node().children)
	slices.Sort(names)
	return names
}
