package frametree

import (
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

////////////////////////////////////////////////////////////////////////////////

type Option func(*Builder)

// WithThreadMode puts a synthetic frame named after the sampled thread right
// below the root, so every thread gets its own subtree.
func WithThreadMode() Option {
	return func(b *Builder) {
		b.threadMode = true
	}
}

// WithMaxDepth collapses frames deeper than depth into a single truncated frame.
func WithMaxDepth(depth int) Option {
	return func(b *Builder) {
		b.maxDepth = depth
	}
}

// Builder accumulates stack traces into a Tree.
// It is not safe for concurrent use.
type Builder struct {
	tree       *Tree
	threadMode bool
	maxDepth   int
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{tree: newTree()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Accumulate adds a stack ordered from the root to the leaf. Every frame on
// the path gets the samples and the weight, the leaf also counts them as self.
func (b *Builder) Accumulate(stack []record.StackFrame, weight, count uint64) {
	iter := b.makeIterator(count, weight)
	b.advanceStack(iter, stack)
	iter.finish()
}

// AddEvent extracts samples and weight according to the kind of the event and accumulates its stack.
func (b *Builder) AddEvent(event *record.Event) {
	samples, weight := event.Extract()

	iter := b.makeIterator(samples, weight)
	if b.threadMode && event.Thread != nil {
		iter.advance(event.Thread.Name, record.FrameTypeThreadNameSynthetic, 0)
	}
	b.advanceStack(iter, event.Stack)
	iter.finish()
}

func (b *Builder) advanceStack(iter *pathIterator, stack []record.StackFrame) {
	startDepth := iter.depth
	for i, frame := range stack {
		if b.maxDepth > 0 && b.maxDepth < startDepth+len(stack) && startDepth+i+1 == b.maxDepth {
			iter.advance(TruncatedStack, record.FrameTypeUnknown, 0)
			return
		}
		iter.advance(frame.Name(), frame.Type, frame.LineNumber)
	}
}

// Build returns the accumulated tree. The builder must not be used afterwards.
func (b *Builder) Build() *Tree {
	tree := b.tree
	b.tree = nil
	return tree
}

////////////////////////////////////////////////////////////////////////////////

type pathIterator struct {
	tree    *Tree
	current NodeID
	depth   int
	samples uint64
	weight  uint64
}

func (b *Builder) makeIterator(samples, weight uint64) *pathIterator {
	i := &pathIterator{
		tree:    b.tree,
		current: Root,
		samples: samples,
		weight:  weight,
	}
	i.add()
	return i
}

func (i *pathIterator) advance(name string, frameType record.FrameType, line int32) {
	i.current = i.tree.child(i.current, name, frameType, line)
	i.depth++
	i.add()
}

func (i *pathIterator) add() {
	i.tree.nodes[i.current].total.add(i.samples, i.weight)
}

func (i *pathIterator) finish() {
	i.tree.nodes[i.current].self.add(i.samples, i.weight)
}
