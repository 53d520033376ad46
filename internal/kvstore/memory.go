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

package kvstore

import (
	"context"
	"sync"
)

// MemoryBackend is an in-process Backend used by tests and by the "memory"
// backend setting. Nothing survives a restart.
type MemoryBackend struct {
	mu       sync.RWMutex
	scalars  map[string]string
	mappings map[string]map[string]string
	closed   bool
}

var _ Backend = (*MemoryBackend)(nil)

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		scalars:  map[string]string{},
		mappings: map[string]map[string]string{},
	}
}

func (b *MemoryBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return "", false, ErrBackendUnavailable
	}
	v, ok := b.scalars[key]
	return v, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBackendUnavailable
	}
	b.scalars[key] = value
	return nil
}

func (b *MemoryBackend) GetMapping(_ context.Context, key string) (map[string]string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, false, ErrBackendUnavailable
	}
	m, ok := b.mappings[key]
	if !ok || len(m) == 0 {
		return nil, false, nil
	}
	return copyMapping(m), true, nil
}

func (b *MemoryBackend) SetMapping(_ context.Context, key string, mapping map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBackendUnavailable
	}
	if len(mapping) == 0 {
		delete(b.mappings, key)
		return nil
	}
	b.mappings[key] = copyMapping(mapping)
	return nil
}

func (b *MemoryBackend) SetMappingField(_ context.Context, key, field, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBackendUnavailable
	}
	m, ok := b.mappings[key]
	if !ok {
		m = map[string]string{}
		b.mappings[key] = m
	}
	m[field] = value
	return nil
}

func (b *MemoryBackend) Close() error {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	return nil
}
