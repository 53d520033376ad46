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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBackend(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()

	require.NoError(t, b.Set(ctx, "name", "ann"))
	v, ok, err := b.Get(ctx, "name")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ann", v)

	require.NoError(t, b.SetMappingField(ctx, "m", "a", "1"))
	m, ok, err := b.GetMapping(ctx, "m")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"a": "1"}, m)

	// returned mappings are copies
	m["b"] = "2"
	m2, _, _ := b.GetMapping(ctx, "m")
	assert.Equal(t, map[string]string{"a": "1"}, m2)

	require.NoError(t, b.SetMapping(ctx, "m", nil))
	_, ok, err = b.GetMapping(ctx, "m")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryBackend_Closed(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBackend()
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, _, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.ErrorIs(t, b.SetMapping(ctx, "k", map[string]string{"a": "b"}), ErrBackendUnavailable)
}

func TestConfigAddr(t *testing.T) {
	assert.Equal(t, "localhost:6379", Config{}.Addr())
	assert.Equal(t, "redis.internal:6380", Config{Host: "redis.internal", Port: 6380}.Addr())
	assert.Equal(t, "localhost:6379", DefaultConfig().Addr())
}
