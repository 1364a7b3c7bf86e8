package difftree

import (
	"golang.org/x/exp/slices"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
)

// Generate merges two frame trees keyed by method name.
//
// Frames present in both trees become Shared and the merge continues with the
// union of their children. A frame only present in the comparison tree becomes
// Added, a frame only present in the baseline tree becomes Removed; both wrap
// the whole subtree of their side without descending any further.
func Generate(baseline, comparison *frametree.Tree) *Tree {
	g := &generator{
		tree: &Tree{nodes: make([]node, 0, max(baseline.Len(), comparison.Len()))},
	}
	g.shared(baseline.Root(), comparison.Root())
	return g.tree
}

type generator struct {
	tree *Tree
}

func (g *generator) add(n node) NodeID {
	g.tree.nodes = append(g.tree.nodes, n)
	return NodeID(len(g.tree.nodes) - 1)
}

func (g *generator) shared(baseline, comparison frametree.Frame) NodeID {
	id := g.add(node{
		variant:           Shared,
		name:              baseline.Name(),
		frameType:         baseline.Type(),
		baselineSamples:   baseline.TotalSamples(),
		baselineWeight:    baseline.TotalWeight(),
		comparisonSamples: comparison.TotalSamples(),
		comparisonWeight:  comparison.TotalWeight(),
		children:          make(map[string]NodeID),
	})

	for _, name := range unionNames(baseline, comparison) {
		b, inBaseline := baseline.Child(name)
		c, inComparison := comparison.Child(name)

		var child NodeID
		switch {
		case inBaseline && inComparison:
			child = g.shared(b, c)
		case inComparison:
			child = g.added(c)
		default:
			child = g.removed(b)
		}

		// Re-slicing in recursion may move the arena, so index it again.
		g.tree.nodes[id].children[name] = child
	}

	return id
}

func (g *generator) added(comparison frametree.Frame) NodeID {
	return g.add(node{
		variant:           Added,
		name:              comparison.Name(),
		frameType:         comparison.Type(),
		comparisonSamples: comparison.TotalSamples(),
		comparisonWeight:  comparison.TotalWeight(),
		source:            comparison,
	})
}

func (g *generator) removed(baseline frametree.Frame) NodeID {
	return g.add(node{
		variant:         Removed,
		name:            baseline.Name(),
		frameType:       baseline.Type(),
		baselineSamples: baseline.TotalSamples(),
		baselineWeight:  baseline.TotalWeight(),
		source:          baseline,
	})
}

func unionNames(baseline, comparison frametree.Frame) []string {
	names := baseline.ChildNames()
	for _, name := range comparison.ChildNames() {
		if _, found := baseline.Child(name); !found {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
