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

// Package idgen hands out process instance and request identifiers.
package idgen

import (
	"errors"
	"hash/fnv"
	"math/rand/v2"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/sony/sonyflake"
)

var DefaultFlakeGenerator *FlakeGenerator

func init() {
	var err error
	DefaultFlakeGenerator, err = NewFlakeGenerator()
	if err != nil {
		// Random ids keep working without a flake clock.
		DefaultFlakeGenerator = &FlakeGenerator{}
	}
}

// FlakeGenerator produces roughly time-ordered positive int64 ids.
type FlakeGenerator struct {
	sf *sonyflake.Sonyflake
}

// NewFlakeGenerator derives the machine id from a private IPv4 address,
// then from the hostname, then at random, so it works outside a cluster.
func NewFlakeGenerator() (*FlakeGenerator, error) {
	return newFlakeGenerator(machineID)
}

func newFlakeGenerator(id func() uint16) (*FlakeGenerator, error) {
	sf, err := sonyflake.New(sonyflake.Settings{
		StartTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		MachineID: func() (uint16, error) { return id(), nil },
	})
	if err != nil {
		return nil, err
	}
	if sf == nil {
		return nil, errors.New("failed to create Sonyflake instance")
	}
	return &FlakeGenerator{sf: sf}, nil
}

func machineID() uint16 {
	if addrs, err := net.InterfaceAddrs(); err == nil {
		if id, ok := privateIPMachineID(addrs); ok {
			return id
		}
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return hostnameMachineID(host)
	}
	return uint16(rand.UintN(1 << 16))
}

// privateIPMachineID uses the low 16 bits of the first private IPv4 address.
func privateIPMachineID(addrs []net.Addr) (uint16, bool) {
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() {
			continue
		}
		ip := ipnet.IP.To4()
		if ip == nil || !ip.IsPrivate() {
			continue
		}
		return uint16(ip[2])<<8 | uint16(ip[3]), true
	}
	return 0, false
}

func hostnameMachineID(host string) uint16 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(host))
	sum := h.Sum32()
	return uint16(sum>>16) ^ uint16(sum)
}

// NextID falls back to a random id if the flake clock is exhausted or
// was never set up.
func (g *FlakeGenerator) NextID() int64 {
	if g.sf == nil {
		return rand.Int64()
	}
	v, err := g.sf.NextID()
	if err != nil {
		return rand.Int64()
	}
	return int64(v)
}

// NextRequestID returns a short base36 id suitable for log correlation.
func (g *FlakeGenerator) NextRequestID() string {
	return strconv.FormatInt(g.NextID(), 36)
}

// NextRequestID uses the default generator.
func NextRequestID() string {
	return DefaultFlakeGenerator.NextRequestID()
}
