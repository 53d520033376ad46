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

import "errors"

var (
	// ErrInvalidSchema is returned by New when an option definition cannot be used.
	ErrInvalidSchema = errors.New("options: invalid schema")
	// ErrUnknownOption is returned for names that have no definition.
	ErrUnknownOption = errors.New("options: unknown option")
	// ErrMissingDictKey is returned when a dict option is accessed without a key.
	ErrMissingDictKey = errors.New("options: dict option requires a key")
	// ErrCoercion is returned when a value cannot be converted to the option's kind.
	ErrCoercion = errors.New("options: value does not match option type")
	// ErrKindMismatch is returned by the typed getters when the option has another kind.
	ErrKindMismatch = errors.New("options: option has a different type")
)
