package render

import (
	"fmt"
	"html"
	"math"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/difftree"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/flamegraph/render/format"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/record"
)

// DiffFormatter lays out a differential tree. Rectangle widths are the
// samples of both profiles together.
type DiffFormatter struct {
	opts       options
	minSamples uint64
	graph      *format.Graph
}

func NewDiffFormatter(opts ...Option) *DiffFormatter {
	return &DiffFormatter{opts: makeOptions(opts)}
}

func (f *DiffFormatter) Format(tree *difftree.Tree) *format.Graph {
	root := tree.Root()

	f.minSamples = uint64(float64(root.BaselineSamples()+root.ComparisonSamples()) * f.opts.minWidthRatio)
	f.graph = &format.Graph{Levels: make([][]format.Rect, 0)}
	f.walk(root, 0, 0)

	graph := f.graph
	f.graph = nil
	return graph
}

func (f *DiffFormatter) walk(frame difftree.Frame, layer int, x uint64) {
	switch frame.Variant() {
	case difftree.Added:
		f.oneColorSubtree(frame.Source(), frame.Name(), layer, x, addedColor, "Added")
		return
	case difftree.Removed:
		f.oneColorSubtree(frame.Source(), frame.Name(), layer, x, removedColor, "Removed")
		return
	}

	f.graph.Add(layer, format.Rect{
		Left:    x,
		Width:   frame.Samples(),
		Color:   sharedColor(frame),
		Title:   html.EscapeString(frame.Name()),
		Details: diffDetails(frame.BaselineSamples(), frame.ComparisonSamples()),
	})

	for _, child := range frame.Children() {
		if child.Samples() > f.minSamples && layer < f.opts.maxDepth {
			f.walk(child, layer+1, x)
		}
		x += child.Samples()
	}
}

// oneColorSubtree renders a subtree present in one profile only.
func (f *DiffFormatter) oneColorSubtree(frame frametree.Frame, name string, layer int, x uint64, color, prefix string) {
	f.graph.Add(layer, format.Rect{
		Left:    x,
		Width:   frame.TotalSamples(),
		Color:   color,
		Title:   html.EscapeString(name),
		Details: fmt.Sprintf("%s: %d (100%%)", prefix, frame.TotalSamples()),
	})

	for _, child := range frame.Children() {
		if child.TotalSamples() > f.minSamples && layer < f.opts.maxDepth {
			f.oneColorSubtree(child, child.Name(), layer+1, x, color, prefix)
		}
		x += child.TotalSamples()
	}
}

func sharedColor(frame difftree.Frame) string {
	if frame.Type() == record.FrameTypeLambdaSynthetic {
		return frame.Type().Color()
	}
	return diffColor(frame.BaselineSamples(), frame.ComparisonSamples())
}

// toPercent returns |a-b| as a percentage of a+b rounded to an integer, 0 for two empty sides.
func toPercent(a, b uint64) uint64 {
	total := a + b
	if total == 0 {
		return 0
	}

	diff := a - b
	if b > a {
		diff = b - a
	}
	return uint64(math.Round(float64(diff) / float64(total) * 100))
}

func diffDetails(baseline, comparison uint64) string {
	pct := toPercent(baseline, comparison)
	switch {
	case comparison > baseline:
		return fmt.Sprintf("Added %d (%d%%)", comparison-baseline, pct)
	case baseline > comparison:
		return fmt.Sprintf("Removed %d (%d%%)", baseline-comparison, pct)
	default:
		return "No difference in samples"
	}
}
