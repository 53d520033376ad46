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

// Package sheets looks up rows in spreadsheet-like sources. Worksheet handles
// are resolved once per (location, sheet) and kept for the life of the Cache;
// cell values are read fresh on every lookup.
package sheets

import "context"

// Provider resolves a location (URL or path) to a spreadsheet.
type Provider interface {
	Open(ctx context.Context, location string) (Spreadsheet, error)
}

// Spreadsheet is an opened source with one or more worksheets.
type Spreadsheet interface {
	// Worksheet returns the worksheet at the 0-based index, or an error
	// wrapping ErrWorksheetNotFound.
	Worksheet(ctx context.Context, index int) (Worksheet, error)
}

// Worksheet is a resolved handle to one sheet.
type Worksheet interface {
	// Values returns every cell as a grid of strings, header row first.
	Values(ctx context.Context) ([][]string, error)
}

// Matcher is a Provider that can tell whether it handles a location.
type Matcher interface {
	Provider
	Accepts(location string) bool
}

// Mux sends each location to the first provider that accepts it.
type Mux struct {
	providers []Matcher
}

var _ Provider = (*Mux)(nil)

func NewMux(providers ...Matcher) *Mux {
	return &Mux{providers: providers}
}

func (m *Mux) Open(ctx context.Context, location string) (Spreadsheet, error) {
	for _, p := range m.providers {
		if p.Accepts(location) {
			return p.Open(ctx, location)
		}
	}
	return nil, invalid("location", location, "no provider handles this location")
}
