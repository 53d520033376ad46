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

//go:build redistest

package kvstore

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/orlangure/gnomock"
	redispreset "github.com/orlangure/gnomock/preset/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRedisBackend_Integration runs the adapter against a real Redis server.
// Requires docker: go test -tags redistest ./internal/kvstore/...
func TestRedisBackend_Integration(t *testing.T) {
	container, err := gnomock.Start(redispreset.Preset())
	require.NoError(t, err)
	t.Cleanup(func() { _ = gnomock.Stop(container) })

	host, portStr, err := net.SplitHostPort(container.DefaultAddress())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	ctx := context.Background()
	b, err := Dial(ctx, Config{Host: host, Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.NoError(t, b.Set(ctx, "current_source:42", "prices"))
	v, ok, err := b.Get(ctx, "current_source:42")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "prices", v)

	require.NoError(t, b.SetMapping(ctx, "sources", map[string]string{"prices": `{"url":"x"}`}))
	require.NoError(t, b.SetMappingField(ctx, "sources", "stock", `{"url":"y"}`))
	m, ok, err := b.GetMapping(ctx, "sources")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"prices": `{"url":"x"}`, "stock": `{"url":"y"}`}, m)
}
