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

package commands

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCommand is returned for names missing from the command table.
	ErrUnknownCommand = errors.New("commands: unknown command")
	// ErrUsage is returned when required arguments are missing.
	ErrUsage = errors.New("commands: not enough arguments")
)

// IncompleteSourceError reports a stored source that lacks required fields.
type IncompleteSourceError struct {
	Missing []string
}

func (e *IncompleteSourceError) Error() string {
	return fmt.Sprintf("source is misconfigured: missing %s", strings.Join(e.Missing, ", "))
}

// Message is the user-facing form.
func (e *IncompleteSourceError) Message() string {
	return "Source is misconfigured: missing " + strings.Join(e.Missing, ", ")
}
