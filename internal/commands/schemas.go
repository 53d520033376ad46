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

package commands

import "github.com/cardinalhq/rowfinder/internal/options"

const (
	// CurrentSourceOption holds the per-user active source name.
	CurrentSourceOption = "current_source"
	// SourcesOption maps source names to encoded SourceConfig values.
	SourcesOption = "sources"
)

// DefaultSchemas returns the option definitions the handlers rely on.
func DefaultSchemas() []options.Schema {
	return []options.Schema{
		{
			Name:        CurrentSourceOption,
			Kind:        options.KindStr,
			Scope:       options.ScopeUser,
			Default:     "default",
			Description: "Current data source",
		},
		{
			Name:        SourcesOption,
			Kind:        options.KindDict,
			Scope:       options.ScopeGlobal,
			Description: "Data source configurations by name",
		},
	}
}

// RequiredSchemas reports which of the options the handlers need are
// missing from defs or defined with the wrong kind or scope. As in
// options.New, the first definition of a name is the one that counts.
func RequiredSchemas(defs []options.Schema) []string {
	byName := make(map[string]options.Schema, len(defs))
	for _, d := range defs {
		if _, dup := byName[d.Name]; !dup {
			byName[d.Name] = d
		}
	}
	var bad []string
	for _, want := range DefaultSchemas() {
		got, ok := byName[want.Name]
		if !ok || got.Kind != want.Kind || scopeOf(got) != want.Scope {
			bad = append(bad, want.Name)
		}
	}
	return bad
}

func scopeOf(s options.Schema) options.Scope {
	if s.Scope == "" {
		return options.ScopeUser
	}
	return s.Scope
}
