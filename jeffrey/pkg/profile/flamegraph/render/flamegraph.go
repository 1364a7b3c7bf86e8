package render

import (
	"fmt"
	"html"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/flamegraph/render/format"
	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/frametree"
)

// FlameGraphFormatter lays out a single frame tree.
type FlameGraphFormatter struct {
	opts     options
	total    uint64
	minWidth uint64
	graph    *format.Graph
}

func NewFlameGraphFormatter(opts ...Option) *FlameGraphFormatter {
	return &FlameGraphFormatter{opts: makeOptions(opts)}
}

func (f *FlameGraphFormatter) Format(tree *frametree.Tree) *format.Graph {
	root := tree.Root()

	f.total = f.width(root)
	f.minWidth = uint64(float64(f.total) * f.opts.minWidthRatio)
	f.graph = &format.Graph{Levels: make([][]format.Rect, 0)}
	f.walk(root, 0, 0)

	graph := f.graph
	f.graph = nil
	return graph
}

func (f *FlameGraphFormatter) width(frame frametree.Frame) uint64 {
	if f.opts.weight {
		return frame.TotalWeight()
	}
	return frame.TotalSamples()
}

func (f *FlameGraphFormatter) walk(frame frametree.Frame, layer int, x uint64) {
	f.graph.Add(layer, format.Rect{
		Left:    x,
		Width:   f.width(frame),
		Color:   frameColor(frame.Name(), frame.Type()),
		Title:   html.EscapeString(f.title(frame)),
		Details: f.details(frame),
	})

	for _, child := range frame.Children() {
		width := f.width(child)
		if width > f.minWidth && layer < f.opts.maxDepth {
			f.walk(child, layer+1, x)
		}
		x += width
	}
}

func (f *FlameGraphFormatter) title(frame frametree.Frame) string {
	if !frame.IsRoot() {
		return frame.Name()
	}
	if f.opts.weight {
		return fmt.Sprintf("%d Event(s), %d Weight", frame.TotalSamples(), frame.TotalWeight())
	}
	return fmt.Sprintf("%d Event(s)", frame.TotalSamples())
}

func (f *FlameGraphFormatter) details(frame frametree.Frame) string {
	if f.opts.weight {
		return fmt.Sprintf("Weight: %d (%s), Self: %d",
			frame.TotalWeight(), percentOf(frame.TotalWeight(), f.total), frame.SelfWeight())
	}
	return fmt.Sprintf("Samples: %d (%s), Self: %d",
		frame.TotalSamples(), percentOf(frame.TotalSamples(), f.total), frame.SelfSamples())
}

func percentOf(value, total uint64) string {
	if total == 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", float64(value)/float64(total)*100)
}
