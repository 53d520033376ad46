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

// Package options is a typed, schema-validated option store over a key-value
// backend. Options are either private to a user or shared by everyone.
package options

import (
	"fmt"
	"strings"
)

// Kind is the value type of an option.
type Kind string

const (
	KindBool Kind = "bool"
	KindInt  Kind = "int"
	KindStr  Kind = "str"
	KindDict Kind = "dict"
)

func (k Kind) valid() bool {
	switch k {
	case KindBool, KindInt, KindStr, KindDict:
		return true
	}
	return false
}

// Scope decides whether a value is shared by all users or kept per user.
type Scope string

const (
	ScopeUser   Scope = "user"
	ScopeGlobal Scope = "global"
)

// Schema defines one option.
type Schema struct {
	Name  string
	Kind  Kind
	Scope Scope
	// Default is returned when nothing is stored. nil means the kind's zero value.
	Default     any
	Description string
}

// definition is a validated Schema with its default already converted to the
// Go type Get returns for the kind.
type definition struct {
	Schema
	defaultValue any
	hasDefault   bool
}

func newDefinition(s Schema) (definition, error) {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return definition{}, fmt.Errorf("%w: option name is empty", ErrInvalidSchema)
	}
	if !s.Kind.valid() {
		return definition{}, fmt.Errorf("%w: option %q has unsupported type %q", ErrInvalidSchema, s.Name, s.Kind)
	}
	switch s.Scope {
	case "":
		s.Scope = ScopeUser
	case ScopeUser, ScopeGlobal:
	default:
		return definition{}, fmt.Errorf("%w: option %q has unsupported scope %q", ErrInvalidSchema, s.Name, s.Scope)
	}

	d := definition{Schema: s}
	if s.Default != nil {
		v, err := normalize(s.Kind, s.Default)
		if err != nil {
			return definition{}, fmt.Errorf("%w: option %q default: %v", ErrInvalidSchema, s.Name, err)
		}
		d.defaultValue = v
		d.hasDefault = true
	}
	return d, nil
}

// storageKey is the name for global options and name:userID otherwise.
func (d definition) storageKey(userID string) string {
	if d.Scope == ScopeGlobal {
		return d.Name
	}
	return d.Name + ":" + userID
}

// fallback is the value returned when nothing is stored.
func (d definition) fallback() any {
	if d.hasDefault {
		if m, ok := d.defaultValue.(map[string]string); ok {
			return copyMap(m)
		}
		return d.defaultValue
	}
	return zeroValue(d.Kind)
}

func zeroValue(k Kind) any {
	switch k {
	case KindBool:
		return false
	case KindInt:
		return int64(0)
	case KindDict:
		return map[string]string{}
	default:
		return ""
	}
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
