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
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cardinalhq/rowfinder/internal/sheets"
)

const greeting = "Spreadsheet lookup bot\n" +
	"Finds a row by key in a configured spreadsheet and shows the selected columns.\n"

func (d *Dispatcher) getSource(ctx context.Context, req Request) (string, error) {
	name, err := d.store.GetString(ctx, req.UserID, CurrentSourceOption)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Your current source: %q", name), nil
}

func (d *Dispatcher) setSource(ctx context.Context, req Request) (string, error) {
	name := req.Args[0]
	_, found, err := d.store.Lookup(ctx, req.UserID, SourcesOption, name)
	if err != nil {
		return "", err
	}
	if !found {
		return "Source not found: " + name, nil
	}
	if err := d.store.Set(ctx, req.UserID, CurrentSourceOption, name); err != nil {
		return "", err
	}
	return fmt.Sprintf("Switched source to %q", name), nil
}

func (d *Dispatcher) info(ctx context.Context, req Request) (string, error) {
	key := req.Args[0]
	name, err := d.store.GetString(ctx, req.UserID, CurrentSourceOption)
	if err != nil {
		return "", err
	}
	raw, found, err := d.store.Lookup(ctx, req.UserID, SourcesOption, name)
	if err != nil {
		return "", err
	}
	if !found {
		return "Source configuration not found", nil
	}
	cfg, err := ParseSourceConfig(raw)
	if err != nil {
		return "", err
	}
	if missing := cfg.Missing(); len(missing) > 0 {
		return "", &IncompleteSourceError{Missing: missing}
	}
	q, err := cfg.Query(key)
	if err != nil {
		return "", err
	}
	row, err := d.rows.GetRow(ctx, q)
	if err != nil {
		return "", err
	}
	if row.Empty() {
		return "Value not found", nil
	}
	return RenderRow(key, q.Sheet, row), nil
}

// RenderRow formats a lookup result as a title line followed by one
// "header : value" line per field, with headers padded to equal width.
func RenderRow(key string, sheet int, row sheets.Row) string {
	fields := row.Fields()
	width := 0
	for _, f := range fields {
		width = max(width, utf8.RuneCountInString(f.Header))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Result for key %s (sheet %d)\n", key, sheet)
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(f.Header)
		b.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(f.Header)))
		b.WriteString(" : ")
		b.WriteString(f.Value)
	}
	return b.String()
}

func (d *Dispatcher) cfgSetSource(ctx context.Context, req Request) (string, error) {
	name := req.Args[0]
	cfg := SourceConfig{
		URL:     req.Args[1],
		Sheet:   req.Args[2],
		Seek:    req.Args[3],
		Columns: req.Args[4],
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	encoded, err := cfg.Encode()
	if err != nil {
		return "", err
	}
	if err := d.store.SetKey(ctx, req.UserID, SourcesOption, name, encoded); err != nil {
		return "", err
	}
	return fmt.Sprintf("Saved source %q", name), nil
}

func (d *Dispatcher) cfgGetSource(ctx context.Context, req Request) (string, error) {
	name := req.Args[0]
	raw, found, err := d.store.Lookup(ctx, req.UserID, SourcesOption, name)
	if err != nil {
		return "", err
	}
	if !found {
		return "Source not found: " + name, nil
	}
	return fmt.Sprintf("Source %q configuration: %s", name, raw), nil
}

func (d *Dispatcher) start(context.Context, Request) (string, error) {
	return greeting + "\n" + HelpText(), nil
}

func (d *Dispatcher) help(context.Context, Request) (string, error) {
	return HelpText(), nil
}
