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

// Package kvstore adapts a remote key-value store to the small set of string
// and hash operations the option store needs.
package kvstore

import (
	"context"
	"errors"
)

// ErrBackendUnavailable is wrapped by every error caused by failing to talk to
// the backing store. Callers decide whether to retry.
var ErrBackendUnavailable = errors.New("kvstore: backend unavailable")

// Backend is the contract between the option store and its storage.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the scalar stored at key. ok is false when nothing is stored.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the scalar stored at key.
	Set(ctx context.Context, key, value string) error
	// GetMapping returns the whole mapping stored at key.
	GetMapping(ctx context.Context, key string) (mapping map[string]string, ok bool, err error)
	// SetMapping replaces the whole mapping stored at key.
	SetMapping(ctx context.Context, key string, mapping map[string]string) error
	// SetMappingField writes one field of the mapping at key without touching
	// the others. It must be atomic with respect to concurrent writers.
	SetMappingField(ctx context.Context, key, field, value string) error
	// Close releases the connection. Calling it more than once is not an error.
	Close() error
}

func copyMapping(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
