// Copyright (C) 2025 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package options

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type schemaDoc struct {
	Type           string `yaml:"type"`
	Scope          string `yaml:"scope"`
	IsGlobalEntity bool   `yaml:"is_global_entity"`
	Default        any    `yaml:"default"`
	Description    string `yaml:"description"`
}

// LoadSchemas reads option definitions from a YAML mapping of option name to
// definition, keeping document order:
//
//	current_source:
//	  type: str
//	  default: default
//	  description: Current data source
//	sources:
//	  type: dict
//	  scope: global
func LoadSchemas(r io.Reader) ([]Schema, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil
	}
	body := root.Content[0]
	if body.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: expected a mapping of option names", ErrInvalidSchema, body.Line)
	}

	schemas := make([]Schema, 0, len(body.Content)/2)
	for i := 0; i+1 < len(body.Content); i += 2 {
		nameNode, defNode := body.Content[i], body.Content[i+1]
		var doc schemaDoc
		if err := defNode.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: option %q: %v", ErrInvalidSchema, nameNode.Value, err)
		}
		scope := Scope(doc.Scope)
		if doc.IsGlobalEntity {
			scope = ScopeGlobal
		}
		schema := Schema{
			Name:        nameNode.Value,
			Kind:        Kind(doc.Type),
			Scope:       scope,
			Default:     doc.Default,
			Description: doc.Description,
		}
		if _, err := newDefinition(schema); err != nil {
			return nil, err
		}
		schemas = append(schemas, schema)
	}
	return schemas, nil
}

// LoadSchemaFile is LoadSchemas for a file on disk.
func LoadSchemaFile(path string) ([]Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schema file: %w", err)
	}
	defer f.Close()
	return LoadSchemas(f)
}
