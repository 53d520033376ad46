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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/cardinalhq/rowfinder/internal/sheets"
)

// SourceConfig is a named data source as stored in the sources option.
// Fields are kept as the text the user typed.
type SourceConfig struct {
	URL     string `json:"url"`
	Sheet   string `json:"sheet"`
	Seek    string `json:"seek"`
	Columns string `json:"columns"`
}

// ParseSourceConfig decodes a stored entry. Numbers and strings are both
// accepted for every field, and unknown fields are ignored.
func ParseSourceConfig(raw string) (SourceConfig, error) {
	if !gjson.Valid(raw) {
		return SourceConfig{}, fmt.Errorf("source configuration is not valid JSON")
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return SourceConfig{}, fmt.Errorf("source configuration is not an object")
	}
	field := func(name string) string {
		r := doc.Get(name)
		if r.IsArray() {
			parts := make([]string, 0, len(r.Array()))
			for _, v := range r.Array() {
				parts = append(parts, v.String())
			}
			return strings.Join(parts, ",")
		}
		return strings.TrimSpace(r.String())
	}
	return SourceConfig{
		URL:     field("url"),
		Sheet:   field("sheet"),
		Seek:    field("seek"),
		Columns: field("columns"),
	}, nil
}

// Encode renders the stored form.
func (c SourceConfig) Encode() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Missing names the required fields that are empty, in a fixed order.
func (c SourceConfig) Missing() []string {
	var missing []string
	if c.URL == "" {
		missing = append(missing, "url")
	}
	if c.Seek == "" {
		missing = append(missing, "seek")
	}
	if c.Columns == "" {
		missing = append(missing, "columns")
	}
	return missing
}

// SheetNumber returns the 1-based sheet. An empty value means the first sheet.
func (c SourceConfig) SheetNumber() (int, error) {
	if c.Sheet == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(c.Sheet)
	if err != nil || n < 1 {
		return 0, &sheets.ValidationError{Field: "sheet", Value: c.Sheet, Reason: "sheet number must be a positive integer"}
	}
	return n, nil
}

// Validate checks that the config can drive a lookup.
func (c SourceConfig) Validate() error {
	if missing := c.Missing(); len(missing) > 0 {
		return &IncompleteSourceError{Missing: missing}
	}
	if _, err := c.SheetNumber(); err != nil {
		return err
	}
	if _, err := sheets.ParseSeek(c.Seek); err != nil {
		return err
	}
	if _, err := sheets.ParseColumns(c.Columns); err != nil {
		return err
	}
	return nil
}

// Query builds the row lookup for key.
func (c SourceConfig) Query(key string) (sheets.Query, error) {
	sheet, err := c.SheetNumber()
	if err != nil {
		return sheets.Query{}, err
	}
	return sheets.Query{
		Location: c.URL,
		Key:      key,
		Seek:     c.Seek,
		Columns:  c.Columns,
		Sheet:    sheet,
	}, nil
}
