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
	"bytes"
	"encoding/json"
)

// Field is one projected column of a matched row.
type Field struct {
	Header string
	Value  string
}

// Row is an ordered header to value result. The zero Row is the empty result.
// Setting a header that is already present replaces its value in place.
type Row struct {
	fields []Field
	index  map[string]int
}

func (r *Row) set(header, value string) {
	if i, ok := r.index[header]; ok {
		r.fields[i].Value = value
		return
	}
	if r.index == nil {
		r.index = map[string]int{}
	}
	r.index[header] = len(r.fields)
	r.fields = append(r.fields, Field{Header: header, Value: value})
}

func (r Row) Len() int    { return len(r.fields) }
func (r Row) Empty() bool { return len(r.fields) == 0 }

// Get returns the value for header.
func (r Row) Get(header string) (string, bool) {
	i, ok := r.index[header]
	if !ok {
		return "", false
	}
	return r.fields[i].Value, true
}

// Fields returns the fields in projection order.
func (r Row) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Map returns the row as an unordered map.
func (r Row) Map() map[string]string {
	out := make(map[string]string, len(r.fields))
	for _, f := range r.fields {
		out[f.Header] = f.Value
	}
	return out
}

// MarshalJSON writes the row as a JSON object in projection order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Header)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
