package traverse

import (
	"github.com/pbouda/jeffrey/jeffrey/pkg/guardian/matcher"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
)

// Selection is a frame chosen by a traversal together with its path below the root.
type Selection struct {
	Frame frametree.Frame
	Path  []string
}

// Traversal selects frames once a base frame has been found.
// Traverse returns Done when something was selected, Continue otherwise.
type Traversal interface {
	Traverse(base frametree.Frame, path []string) Next
	Selected() []Selection
}

// Supplier creates fresh traversals, so every guard instance has its own state.
type Supplier func() []Traversal

func Of(constructors ...func() Traversal) Supplier {
	return func() []Traversal {
		res := make([]Traversal, 0, len(constructors))
		for _, c := range constructors {
			res = append(res, c())
		}
		return res
	}
}

func clonePath(path []string) []string {
	return append(make([]string, 0, len(path)), path...)
}

////////////////////////////////////////////////////////////////////////////////

type currentFrame struct {
	selected []Selection
}

// CurrentFrame selects the base frame itself.
func CurrentFrame() Traversal {
	return &currentFrame{}
}

func (t *currentFrame) Traverse(base frametree.Frame, path []string) Next {
	t.selected = append(t.selected, Selection{base, clonePath(path)})
	return Done
}

func (t *currentFrame) Selected() []Selection {
	return t.selected
}

////////////////////////////////////////////////////////////////////////////////

type children struct {
	matcher  matcher.FrameMatcher
	selected []Selection
}

// Children selects the direct children of the base frame accepted by the matcher.
func Children(m matcher.FrameMatcher) Traversal {
	return &children{matcher: m}
}

func (t *children) Traverse(base frametree.Frame, path []string) Next {
	next := Continue
	for _, child := range base.Children() {
		if t.matcher.Match(child) {
			t.selected = append(t.selected, Selection{child, append(clonePath(path), child.Name())})
			next = Done
		}
	}
	return next
}

func (t *children) Selected() []Selection {
	return t.selected
}

////////////////////////////////////////////////////////////////////////////////

type descendants struct {
	matcher  matcher.FrameMatcher
	selected []Selection
}

// Descendants selects the highest frames below the base frame accepted by the matcher.
// Frames below a selected frame are not inspected.
func Descendants(m matcher.FrameMatcher) Traversal {
	return &descendants{matcher: m}
}

func (t *descendants) Traverse(base frametree.Frame, path []string) Next {
	before := len(t.selected)
	t.collect(base, clonePath(path))
	if len(t.selected) == before {
		return Continue
	}
	return Done
}

func (t *descendants) collect(frame frametree.Frame, path []string) {
	for _, child := range frame.Children() {
		childPath := append(clonePath(path), child.Name())
		if t.matcher.Match(child) {
			t.selected = append(t.selected, Selection{child, childPath})
			continue
		}
		t.collect(child, childPath)
	}
}

func (t *descendants) Selected() []Selection {
	return t.selected
}
