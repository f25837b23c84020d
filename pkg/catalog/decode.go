package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

// envelope is the object form of a catalog file.
type envelope struct {
	Documents []schema.Document `json:"documents" yaml:"documents"`
}

// Decode parses a catalog file. The format is picked from name's extension:
// .yaml/.yml are YAML, .json is JSON with a JSONC fallback, anything else is
// tried as JSONC then YAML. A file holds either a list of documents, an object
// with a `documents` list, or a single document.
func Decode(data []byte, name string) ([]schema.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog: file %s is empty", name)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		docs, err := decodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", name, err)
		}
		return docs, nil
	case ".json":
		docs, err := decodeJSON(data)
		if err == nil {
			return docs, nil
		}
		if docs, jerr := decodeJSON(jsonc.ToJSON(data)); jerr == nil {
			return docs, nil
		}
		return nil, fmt.Errorf("catalog: parse %s: %w", name, err)
	default:
		if docs, err := decodeJSON(jsonc.ToJSON(data)); err == nil {
			return docs, nil
		}
		if docs, err := decodeYAML(data); err == nil {
			return docs, nil
		}
		return nil, fmt.Errorf("catalog: parse %s: invalid JSON, JSONC, or YAML", name)
	}
}

func decodeJSON(data []byte) ([]schema.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []schema.Document
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, err
		}
		return docs, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, err
	}
	if _, ok := probe["documents"]; ok {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		return env.Documents, nil
	}
	var doc schema.Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return []schema.Document{doc}, nil
}

func decodeYAML(data []byte) ([]schema.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("no YAML document")
	}
	node := root.Content[0]

	switch node.Kind {
	case yaml.SequenceNode:
		var docs []schema.Document
		if err := node.Decode(&docs); err != nil {
			return nil, err
		}
		return docs, nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "documents" {
				var env envelope
				if err := node.Decode(&env); err != nil {
					return nil, err
				}
				return env.Documents, nil
			}
		}
		var doc schema.Document
		if err := node.Decode(&doc); err != nil {
			return nil, err
		}
		return []schema.Document{doc}, nil
	default:
		return nil, fmt.Errorf("unexpected YAML node at line %d", node.Line)
	}
}

// encode writes docs as indented JSON without HTML escaping.
func encode(docs []schema.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if docs == nil {
		docs = []schema.Document{}
	}
	if err := enc.Encode(docs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
