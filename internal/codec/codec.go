package codec

import (
	"fmt"
	"io"
	"strings"

	"switchgraph/internal/domain"
)

// Importer interface for reading a topology document back
type Importer interface {
	Parse(r io.Reader) (*domain.TopologyGraph, error)
	Format() string
}

// Exporter interface for writing a topology document
type Exporter interface {
	Export(graph *domain.TopologyGraph, w io.Writer) error
	Format() string
	Extension() string
}

// Codec both reads and writes one exchange format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec for a format name ("json" or "yaml")
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
