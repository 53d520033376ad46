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
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cardinalhq/rowfinder/internal/kvstore"
)

// Store reads and writes typed option values. The set of definitions is fixed
// at construction, so a Store is safe for concurrent use as long as its
// backend is.
type Store struct {
	backend kvstore.Backend
	defs    []definition
	byName  map[string]int

	closeOnce sync.Once
	closeErr  error
}

// New validates the definitions and returns a Store over backend. When two
// definitions share a name the first one wins.
func New(backend kvstore.Backend, schemas ...Schema) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is required", ErrInvalidSchema)
	}
	s := &Store{
		backend: backend,
		defs:    make([]definition, 0, len(schemas)),
		byName:  make(map[string]int, len(schemas)),
	}
	for _, schema := range schemas {
		d, err := newDefinition(schema)
		if err != nil {
			return nil, err
		}
		if _, dup := s.byName[d.Name]; dup {
			continue
		}
		s.byName[d.Name] = len(s.defs)
		s.defs = append(s.defs, d)
	}
	return s, nil
}

// Open connects to Redis and builds a Store on top of it. The returned Store
// owns the connection.
func Open(ctx context.Context, cfg kvstore.Config, schemas ...Schema) (*Store, error) {
	// Validate before dialing so a bad schema is reported as such.
	for _, schema := range schemas {
		if _, err := newDefinition(schema); err != nil {
			return nil, err
		}
	}
	backend, err := kvstore.Dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(backend, schemas...)
}

func (s *Store) lookupDefinition(name string) (definition, error) {
	i, ok := s.byName[name]
	if !ok {
		return definition{}, fmt.Errorf("%w: %q", ErrUnknownOption, name)
	}
	return s.defs[i], nil
}

// StorageKey returns the backend key an option lives under for userID.
func (s *Store) StorageKey(userID, name string) (string, error) {
	d, err := s.lookupDefinition(name)
	if err != nil {
		return "", err
	}
	return d.storageKey(userID), nil
}

// Get returns the value of a scalar option: bool, int64 or string depending on
// the option's kind. Dict options need GetKey.
func (s *Store) Get(ctx context.Context, userID, name string) (any, error) {
	return s.get(ctx, userID, name, "")
}

// GetKey returns one entry of a dict option. The result is the stored string
// when the key is present. When the mapping exists but lacks the key the result
// is an empty map[string]string. For scalar options the key is ignored.
func (s *Store) GetKey(ctx context.Context, userID, name, dictKey string) (any, error) {
	return s.get(ctx, userID, name, dictKey)
}

func (s *Store) get(ctx context.Context, userID, name, dictKey string) (v any, err error) {
	defer func() { recordOp(ctx, "get", name, err) }()

	d, err := s.lookupDefinition(name)
	if err != nil {
		return nil, err
	}
	key := d.storageKey(userID)

	if d.Kind == KindDict {
		if dictKey == "" {
			return nil, fmt.Errorf("%w: %q", ErrMissingDictKey, name)
		}
		entry, found, err := s.lookupEntry(ctx, d, key, dictKey)
		if err != nil {
			return nil, err
		}
		if !found {
			return map[string]string{}, nil
		}
		return entry, nil
	}

	stored, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return d.fallback(), nil
	}
	return decode(name, d.Kind, stored)
}

// lookupEntry resolves one dict entry. A stored mapping is authoritative;
// the default mapping is only consulted when nothing is stored at all.
func (s *Store) lookupEntry(ctx context.Context, d definition, key, dictKey string) (string, bool, error) {
	m, ok, err := s.backend.GetMapping(ctx, key)
	if err != nil {
		return "", false, err
	}
	if !ok {
		m, _ = d.fallback().(map[string]string)
	}
	entry, found := m[dictKey]
	return entry, found, nil
}

// Lookup returns a dict entry and whether it exists.
func (s *Store) Lookup(ctx context.Context, userID, name, dictKey string) (entry string, found bool, err error) {
	defer func() { recordOp(ctx, "get", name, err) }()

	d, err := s.lookupDefinition(name)
	if err != nil {
		return "", false, err
	}
	if d.Kind != KindDict {
		return "", false, fmt.Errorf("%w: %q is %s", ErrKindMismatch, name, d.Kind)
	}
	if dictKey == "" {
		return "", false, fmt.Errorf("%w: %q", ErrMissingDictKey, name)
	}
	return s.lookupEntry(ctx, d, d.storageKey(userID), dictKey)
}

// GetString returns a str option.
func (s *Store) GetString(ctx context.Context, userID, name string) (string, error) {
	v, err := s.typed(ctx, userID, name, KindStr)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// GetBool returns a bool option.
func (s *Store) GetBool(ctx context.Context, userID, name string) (bool, error) {
	v, err := s.typed(ctx, userID, name, KindBool)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// GetInt returns an int option.
func (s *Store) GetInt(ctx context.Context, userID, name string) (int64, error) {
	v, err := s.typed(ctx, userID, name, KindInt)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

func (s *Store) typed(ctx context.Context, userID, name string, want Kind) (any, error) {
	d, err := s.lookupDefinition(name)
	if err != nil {
		return nil, err
	}
	if d.Kind != want {
		return nil, fmt.Errorf("%w: %q is %s, not %s", ErrKindMismatch, name, d.Kind, want)
	}
	return s.get(ctx, userID, name, "")
}

// Set stores the value of a scalar option, replacing whatever was there.
func (s *Store) Set(ctx context.Context, userID, name string, value any) error {
	return s.set(ctx, userID, name, "", value)
}

// SetKey stores one entry of a dict option. Only that entry is written, so
// concurrent writers to different keys of the same option do not lose updates.
// For scalar options the key is ignored.
func (s *Store) SetKey(ctx context.Context, userID, name, dictKey string, value any) error {
	return s.set(ctx, userID, name, dictKey, value)
}

func (s *Store) set(ctx context.Context, userID, name, dictKey string, value any) (err error) {
	defer func() { recordOp(ctx, "set", name, err) }()

	d, err := s.lookupDefinition(name)
	if err != nil {
		return err
	}
	if d.Kind == KindDict && dictKey == "" {
		return fmt.Errorf("%w: %q", ErrMissingDictKey, name)
	}

	encodeKind := d.Kind
	if encodeKind == KindDict {
		encodeKind = KindStr
	}
	stored, err := encode(encodeKind, value)
	if err != nil {
		return fmt.Errorf("option %q: %w", name, err)
	}

	key := d.storageKey(userID)
	if d.Kind == KindDict {
		return s.backend.SetMappingField(ctx, key, dictKey, stored)
	}
	return s.backend.Set(ctx, key, stored)
}

// Definitions returns the option schemas in definition order.
func (s *Store) Definitions() []Schema {
	out := make([]Schema, len(s.defs))
	for i, d := range s.defs {
		out[i] = d.Schema
	}
	return out
}

// Reference renders one line per option, in definition order, for help text.
func (s *Store) Reference() string {
	var b strings.Builder
	for _, d := range s.defs {
		fmt.Fprintf(&b, "• %s (%s)", d.Name, d.Kind)
		if d.hasDefault {
			fmt.Fprintf(&b, " default %v", d.defaultValue)
		}
		if d.Description != "" {
			b.WriteString(": ")
			b.WriteString(d.Description)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Close releases the backend. Only the first call does any work.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.backend.Close()
	})
	return s.closeErr
}
