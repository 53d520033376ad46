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
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/sync/singleflight"
)

// Cache resolves worksheet handles once per (location, sheet) and serves row
// lookups from them. Handles are never evicted.
type Cache struct {
	provider Provider
	handles  *ttlcache.Cache[string, Worksheet]
	inflight singleflight.Group
}

func NewCache(provider Provider) *Cache {
	return &Cache{
		provider: provider,
		handles: ttlcache.New(
			ttlcache.WithTTL[string, Worksheet](ttlcache.NoTTL),
			ttlcache.WithDisableTouchOnHit[string, Worksheet](),
		),
	}
}

// CacheKey is the handle cache key for a location and 1-based sheet.
func CacheKey(location string, sheet int) string {
	return location + "::sheet:" + strconv.Itoa(sheet)
}

// Len returns the number of cached worksheet handles.
func (c *Cache) Len() int {
	return c.handles.Len()
}

// GetRow finds the first data row whose seek column equals the key and
// returns the requested columns keyed by header. An empty Row means nothing
// matched, including sources with no data rows.
func (c *Cache) GetRow(ctx context.Context, q Query) (row Row, err error) {
	defer func() { recordLookup(ctx, row, err) }()

	l, err := q.validate()
	if err != nil {
		return Row{}, err
	}

	ws, err := c.worksheet(ctx, l.location, l.sheet)
	if err != nil {
		return Row{}, err
	}

	values, err := ws.Values(ctx)
	if err != nil {
		return Row{}, external("read", l.location, err)
	}
	return project(values, l), nil
}

// worksheet returns the cached handle, resolving it on first use. Concurrent
// first uses of one key share a single resolution; failures are not cached.
// The shared resolution ignores the cancellation of whichever caller started
// it, and each caller stops waiting when its own ctx is done.
func (c *Cache) worksheet(ctx context.Context, location string, sheet int) (Worksheet, error) {
	key := CacheKey(location, sheet)
	if item := c.handles.Get(key); item != nil {
		return item.Value(), nil
	}

	resolveCtx := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(key, func() (any, error) {
		if item := c.handles.Get(key); item != nil {
			return item.Value(), nil
		}
		ws, err := c.resolve(resolveCtx, location, sheet)
		recordResolution(resolveCtx, err)
		if err != nil {
			return nil, err
		}
		c.handles.Set(key, ws, ttlcache.NoTTL)
		return ws, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Worksheet), nil
	}
}

func (c *Cache) resolve(ctx context.Context, location string, sheet int) (Worksheet, error) {
	ss, err := c.provider.Open(ctx, location)
	if err != nil {
		return nil, external("open", location, err)
	}
	ws, err := ss.Worksheet(ctx, sheet-1)
	if err != nil {
		return nil, external("open", location, err)
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: %s sheet %d", ErrWorksheetNotFound, location, sheet)
	}
	return ws, nil
}

func project(values [][]string, l lookup) Row {
	if len(values) < 2 {
		return Row{}
	}

	headers := values[0]
	if width := max(slices.Max(l.columns), l.seek); len(headers) < width {
		padded := make([]string, width)
		copy(padded, headers)
		headers = padded
	}

	seekIdx := l.seek - 1
	var target []string
	for _, r := range values[1:] {
		if seekIdx < len(r) && r[seekIdx] == l.key {
			target = r
			break
		}
	}
	if target == nil {
		return Row{}
	}

	var row Row
	for _, col := range l.columns {
		idx := col - 1
		header := "Column " + strconv.Itoa(col)
		if h := headers[idx]; strings.TrimSpace(h) != "" {
			header = capitalize(h)
		}
		value := ""
		if idx < len(target) {
			value = target[idx]
		}
		row.set(header, value)
	}
	return row
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
