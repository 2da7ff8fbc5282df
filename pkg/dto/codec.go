package dto

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/chazu/lvcad/pkg/geom"
)

// DecodeJSON reads a document written as JSON. Input is first decoded into
// a generic map so that the schema version is validated before the shape
// of any entity is trusted.
func DecodeJSON(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, geom.Errorf(geom.MalformedDTO, "dto.DecodeJSON", "%v", err)
	}
	return DocumentFromMap(m, Current)
}

// EncodeJSON writes doc as indented JSON.
func EncodeJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}

// DecodeYAML reads a document written as YAML, with the same checks as
// DecodeJSON.
func DecodeYAML(r io.Reader) (*Document, error) {
	var m map[string]any
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		return nil, geom.Errorf(geom.MalformedDTO, "dto.DecodeYAML", "%v", err)
	}
	return DocumentFromMap(m, Current)
}

// EncodeYAML writes doc as YAML.
func EncodeYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return nil
}
