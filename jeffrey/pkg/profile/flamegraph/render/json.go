package render

import (
	"encoding/json"
	"io"

	"github.com/pbouda/jeffrey/jeffrey/pkg/profile/flamegraph/render/format"
)

// WriteJSON writes the graph as a single JSON document.
func WriteJSON(w io.Writer, graph *format.Graph) error {
	// NOTE: if slow swap with goccy/go-json
	return json.NewEncoder(w).Encode(graph)
}
