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
	"os"
	"strings"
)

// EnvFlag reads a boolean switch from the first of names that is set to a
// non-blank value. "false", "0", "no", "off", "disable" and "disabled" turn
// it off; any other value turns it on. When none is set, def is returned.
func EnvFlag(def bool, names ...string) bool {
	for _, name := range names {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
		if v == "" {
			continue
		}
		switch v {
		case "false", "0", "no", "off", "disable", "disabled":
			return false
		default:
			return true
		}
	}
	return def
}
