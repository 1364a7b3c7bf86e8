package format

// Graph is a flamegraph laid out by depth. Levels[0] holds the root rectangle.
type Graph struct {
	Depth  int      `json:"depth"`
	Levels [][]Rect `json:"levels"`
}

// Rect is a single frame of a layer, left-to-right within the layer.
// Left and Width are in samples (or weight units).
type Rect struct {
	Left    uint64 `json:"left"`
	Width   uint64 `json:"width"`
	Color   string `json:"color"`
	Title   string `json:"title"`
	Details string `json:"details"`
}

func (g *Graph) layer(depth int) *[]Rect {
	for len(g.Levels) <= depth {
		g.Levels = append(g.Levels, make([]Rect, 0))
	}
	return &g.Levels[depth]
}

// Add appends the rect to the layer at depth, creating missing layers on demand.
func (g *Graph) Add(depth int, rect Rect) {
	layer := g.layer(depth)
	*layer = append(*layer, rect)
	g.Depth = len(g.Levels)
}

// Width returns the width of the root rectangle.
func (g *Graph) Width() uint64 {
	if len(g.Levels) == 0 || len(g.Levels[0]) == 0 {
		return 0
	}
	return g.Levels[0][0].Width
}
