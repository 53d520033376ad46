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

package sheets

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Query describes one row lookup. Seek and Columns accept numbers or strings
// so values can come straight from user input; Columns may also be a
// comma-separated string such as "2,3,5".
type Query struct {
	// Location is the spreadsheet URL or path.
	Location string
	// Key is compared against the seek column using its string form.
	Key any
	// Seek is the 1-based column holding the lookup key.
	Seek any
	// Columns are the 1-based columns to return, in output order.
	Columns any
	// Sheet is the 1-based worksheet index. Zero means the first sheet.
	Sheet int
}

type lookup struct {
	location string
	key      string
	seek     int
	columns  []int
	sheet    int
}

func (q Query) validate() (lookup, error) {
	if strings.TrimSpace(q.Location) == "" {
		return lookup{}, invalid("location", q.Location, "spreadsheet location is required")
	}
	if q.Key == nil {
		return lookup{}, invalid("key", "", "lookup key is required")
	}
	seek, err := ParseSeek(q.Seek)
	if err != nil {
		return lookup{}, err
	}
	columns, err := ParseColumns(q.Columns)
	if err != nil {
		return lookup{}, err
	}
	sheet := q.Sheet
	if sheet == 0 {
		sheet = 1
	}
	if sheet < 0 {
		return lookup{}, invalid("sheet", sheet, "sheet number must be positive")
	}
	return lookup{
		location: q.Location,
		key:      fmt.Sprint(q.Key),
		seek:     seek,
		columns:  columns,
		sheet:    sheet,
	}, nil
}

// ParseSeek converts a seek column argument into a positive 1-based index.
// Strings are parsed as decimal; other values must have an integer type.
func ParseSeek(v any) (int, error) {
	n, err := integer(v)
	if err != nil {
		return 0, invalid("seek", v, "seek column is not a number")
	}
	if n <= 0 {
		return 0, invalid("seek", v, "seek column must be a positive number")
	}
	return n, nil
}

// ParseColumns converts a column list argument into positive 1-based indexes.
// Strings are split on commas and empty entries are dropped. Slices may mix
// integers and decimal strings; a lone integer is a one-column list.
func ParseColumns(v any) ([]int, error) {
	var columns []int
	switch c := v.(type) {
	case nil:
	case string:
		parsed, err := atoiAll(strings.Split(c, ","), v)
		if err != nil {
			return nil, err
		}
		columns = parsed
	case []string:
		parsed, err := atoiAll(c, v)
		if err != nil {
			return nil, err
		}
		columns = parsed
	default:
		parsed, err := intList(v)
		if err != nil {
			return nil, invalid("columns", v, "column list is malformed")
		}
		columns = parsed
	}
	if len(columns) == 0 {
		return nil, invalid("columns", v, "column list must not be empty")
	}
	for _, col := range columns {
		if col <= 0 {
			return nil, invalid("columns", v, "column numbers must be positive")
		}
	}
	return columns, nil
}

var errNotInteger = errors.New("not an integer")

// integer accepts decimal strings and integer kinds only, so bools and
// fractional numbers are rejected rather than truncated.
func integer(v any) (int, error) {
	switch x := v.(type) {
	case string:
		return strconv.Atoi(strings.TrimSpace(x))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return cast.ToIntE(x)
	}
	return 0, errNotInteger
}

func intList(v any) ([]int, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		n, err := integer(v)
		if err != nil {
			return nil, err
		}
		return []int{n}, nil
	}
	out := make([]int, 0, rv.Len())
	for i := range rv.Len() {
		elem := rv.Index(i).Interface()
		if s, ok := elem.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		n, err := integer(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func atoiAll(parts []string, orig any) ([]int, error) {
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, invalid("columns", orig, "column list is malformed")
		}
		out = append(out, n)
	}
	return out, nil
}
