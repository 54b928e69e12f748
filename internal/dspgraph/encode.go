package dspgraph

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Format names an output encoding for Encode.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// document is the serialized shape of a graph.
type document struct {
	Nodes []*Node `json:"nodes" yaml:"nodes"`
}

// Encode writes g to w in the given format.
func Encode(w io.Writer, g *Graph, format Format) error {
	doc := document{Nodes: g.Nodes()}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding graph as json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding graph as yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("flushing yaml encoder: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format '%s'", format)
	}
	return nil
}
