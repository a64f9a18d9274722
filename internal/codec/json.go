package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"switchgraph/internal/domain"
)

// JSONCodec handles the JSON exchange format read by the graph page
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Extension returns the file extension for this format
func (c *JSONCodec) Extension() string {
	return ".json"
}

// Parse reads a topology document from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.TopologyGraph, error) {
	graph := domain.NewTopologyGraph()
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(graph); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return graph, nil
}

// Export writes a topology document as indented JSON
func (c *JSONCodec) Export(graph *domain.TopologyGraph, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(graph); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
