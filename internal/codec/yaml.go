package codec

import (
	"fmt"
	"io"

	"switchgraph/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export of the topology document
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Extension returns the file extension for this format
func (c *YAMLCodec) Extension() string {
	return ".yaml"
}

// Parse reads a topology document from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.TopologyGraph, error) {
	graph := domain.NewTopologyGraph()
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(graph); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return graph, nil
}

// Export writes a topology document as YAML
func (c *YAMLCodec) Export(graph *domain.TopologyGraph, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(graph); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}
