package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/curriculummap/pkg/curriculum"
	"github.com/matzehuels/curriculummap/pkg/errors"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks YAML for .yaml and .yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// =============================================================================
// Graph Serialization API
// =============================================================================

// Marshal converts a graph to indented JSON bytes.
func Marshal(g *curriculum.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf, FormatJSON); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates JSON bytes.
func Unmarshal(data []byte) (*curriculum.Graph, error) {
	return Read(bytes.NewReader(data), FormatJSON)
}

// Write encodes g to w in the given format.
func Write(g *curriculum.Graph, w io.Writer, f Format) error {
	doc := FromGraph(g)
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", f)
	}
}

// WriteFile writes g to path, choosing the format by extension.
// The file is created with 0644 permissions.
func WriteFile(g *curriculum.Graph, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := writeAndClose(g, f, FormatFromPath(path)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writeAndClose reports a Close failure unless Write already failed.
func writeAndClose(g *curriculum.Graph, w io.WriteCloser, f Format) error {
	if err := Write(g, w, f); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Read decodes a document from r and validates it into a graph.
func Read(r io.Reader, f Format) (*curriculum.Graph, error) {
	var doc Document
	switch f {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q", f)
	}
	return ToGraph(doc)
}

// ReadFile reads a graph document, choosing the format by extension.
func ReadFile(path string) (*curriculum.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
