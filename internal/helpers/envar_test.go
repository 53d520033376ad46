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

package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvFlag(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{"true", "true", false, true},
		{"uppercase yes", "YES", false, true},
		{"enabled with whitespace", " \t enabled \n", false, true},
		{"any other value", "verbose", false, true},
		{"false", "false", true, false},
		{"zero", "0", true, false},
		{"disabled uppercase", "DISABLED", true, false},
		{"blank uses default true", "   ", true, true},
		{"blank uses default false", "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ROWFINDER_TEST_FLAG", tt.value)
			assert.Equal(t, tt.expected, EnvFlag(tt.def, "ROWFINDER_TEST_FLAG"))
		})
	}
}

func TestEnvFlag_FirstSetNameWins(t *testing.T) {
	t.Setenv("ROWFINDER_TEST_A", "")
	t.Setenv("ROWFINDER_TEST_B", "off")
	t.Setenv("ROWFINDER_TEST_C", "on")

	assert.False(t, EnvFlag(true, "ROWFINDER_TEST_A", "ROWFINDER_TEST_B", "ROWFINDER_TEST_C"))
	assert.True(t, EnvFlag(false, "ROWFINDER_TEST_A", "ROWFINDER_TEST_C"))
	assert.True(t, EnvFlag(true, "ROWFINDER_TEST_UNSET"))
}
