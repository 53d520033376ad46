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
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// truthy holds the stored tokens that read back as true, compared lowercased.
var truthy = map[string]struct{}{
	"true": {},
	"1":    {},
	"yes":  {},
	"on":   {},
}

func parseBool(s string) bool {
	_, ok := truthy[strings.ToLower(s)]
	return ok
}

// decode converts a stored scalar into the Go value for kind.
func decode(name string, kind Kind, stored string) (any, error) {
	switch kind {
	case KindBool:
		return parseBool(stored), nil
	case KindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(stored), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: option %q holds %q, not an integer", ErrCoercion, name, stored)
		}
		return n, nil
	default:
		return stored, nil
	}
}

// encode converts a caller value into the canonical stored string for kind.
// Dict entries are stored with the Str rules.
func encode(kind Kind, value any) (string, error) {
	switch kind {
	case KindBool:
		if s, ok := value.(string); ok {
			return strconv.FormatBool(parseBool(strings.TrimSpace(s))), nil
		}
		b, err := cast.ToBoolE(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCoercion, err)
		}
		return strconv.FormatBool(b), nil
	case KindInt:
		if s, ok := value.(string); ok {
			n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return "", fmt.Errorf("%w: %q is not an integer", ErrCoercion, s)
			}
			return strconv.FormatInt(n, 10), nil
		}
		n, err := cast.ToInt64E(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCoercion, err)
		}
		return strconv.FormatInt(n, 10), nil
	default:
		s, err := cast.ToStringE(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCoercion, err)
		}
		return s, nil
	}
}

// normalize converts a schema default into the type Get returns for kind.
func normalize(kind Kind, value any) (any, error) {
	if kind == KindDict {
		m, err := cast.ToStringMapStringE(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCoercion, err)
		}
		return m, nil
	}
	s, err := encode(kind, value)
	if err != nil {
		return nil, err
	}
	return decode("default", kind, s)
}
