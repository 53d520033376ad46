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

package idgen

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlakeGenerator_NextID(t *testing.T) {
	gen, err := NewFlakeGenerator()
	require.NoError(t, err)

	id := gen.NextID()
	id2 := gen.NextID()
	assert.Positive(t, id)
	assert.Greater(t, id2, id)
}

func TestNextRequestID(t *testing.T) {
	a := NextRequestID()
	b := NextRequestID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestNewFlakeGenerator_HostnameMachineID(t *testing.T) {
	// No private address, as on a laptop or in a sandbox.
	_, ok := privateIPMachineID([]net.Addr{
		&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
		&net.IPNet{IP: net.ParseIP("203.0.113.7"), Mask: net.CIDRMask(24, 32)},
	})
	require.False(t, ok)

	id := hostnameMachineID("dev-laptop.local")
	assert.Equal(t, id, hostnameMachineID("dev-laptop.local"))

	gen, err := newFlakeGenerator(func() uint16 { return id })
	require.NoError(t, err)
	first := gen.NextID()
	assert.Positive(t, first)
	assert.Greater(t, gen.NextID(), first)
}

func TestPrivateIPMachineID(t *testing.T) {
	id, ok := privateIPMachineID([]net.Addr{
		&net.IPNet{IP: net.ParseIP("127.0.0.1"), Mask: net.CIDRMask(8, 32)},
		&net.IPNet{IP: net.ParseIP("10.1.2.3"), Mask: net.CIDRMask(8, 32)},
	})
	require.True(t, ok)
	assert.Equal(t, uint16(2<<8|3), id)
}

func TestFlakeGenerator_WithoutFlake(t *testing.T) {
	gen := &FlakeGenerator{}
	assert.NotEmpty(t, gen.NextRequestID())
}

func TestMachineIDNeverFails(t *testing.T) {
	assert.NotPanics(t, func() { _ = machineID() })
	assert.NotNil(t, DefaultFlakeGenerator)
}
