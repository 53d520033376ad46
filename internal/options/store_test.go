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
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardinalhq/rowfinder/internal/kvstore"
)

func testSchemas() []Schema {
	return []Schema{
		{Name: "count", Kind: KindInt, Default: 42, Description: "A counter"},
		{Name: "flag", Kind: KindBool},
		{Name: "title", Kind: KindStr, Default: "default_value"},
		{Name: "motd", Kind: KindStr, Scope: ScopeGlobal},
		{Name: "prefs", Kind: KindDict},
		{Name: "sources", Kind: KindDict, Scope: ScopeGlobal, Description: "Data sources"},
	}
}

func newTestStore(t *testing.T) (*Store, *kvstore.MemoryBackend) {
	t.Helper()
	backend := kvstore.NewMemoryBackend()
	s, err := New(backend, testSchemas()...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, backend
}

func TestNew_InvalidSchema(t *testing.T) {
	backend := kvstore.NewMemoryBackend()

	tests := []struct {
		name   string
		schema Schema
	}{
		{"unknown kind", Schema{Name: "x", Kind: "float"}},
		{"empty kind", Schema{Name: "x"}},
		{"empty name", Schema{Kind: KindStr}},
		{"unknown scope", Schema{Name: "x", Kind: KindStr, Scope: "team"}},
		{"bad int default", Schema{Name: "x", Kind: KindInt, Default: "many"}},
		{"bad dict default", Schema{Name: "x", Kind: KindDict, Default: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(backend, tt.schema)
			assert.ErrorIs(t, err, ErrInvalidSchema)
		})
	}

	_, err := New(nil, testSchemas()...)
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestNew_FirstDefinitionWins(t *testing.T) {
	s, err := New(kvstore.NewMemoryBackend(),
		Schema{Name: "n", Kind: KindInt, Default: 1},
		Schema{Name: "n", Kind: KindStr, Default: "two"},
	)
	require.NoError(t, err)

	v, err := s.Get(context.Background(), "u1", "n")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.Len(t, s.Definitions(), 1)
}

func TestStore_SetThenGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Set(ctx, "u1", "count", 5))
	v, err := s.Get(ctx, "u1", "count")
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)

	require.NoError(t, s.Set(ctx, "u1", "flag", true))
	v, err = s.Get(ctx, "u1", "flag")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	require.NoError(t, s.Set(ctx, "u1", "flag", false))
	v, err = s.Get(ctx, "u1", "flag")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	require.NoError(t, s.Set(ctx, "u1", "title", "Hello Redis!"))
	v, err = s.Get(ctx, "u1", "title")
	require.NoError(t, err)
	assert.Equal(t, "Hello Redis!", v)

	require.NoError(t, s.SetKey(ctx, "u1", "prefs", "key1", "value1"))
	require.NoError(t, s.SetKey(ctx, "u1", "prefs", "key2", "value2"))
	v, err = s.GetKey(ctx, "u1", "prefs", "key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", v)
	v, err = s.GetKey(ctx, "u1", "prefs", "key2")
	require.NoError(t, err)
	assert.Equal(t, "value2", v)
}

func TestStore_StorageKeys(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	key, err := s.StorageKey("u1", "count")
	require.NoError(t, err)
	assert.Equal(t, "count:u1", key)

	key, err = s.StorageKey("u1", "motd")
	require.NoError(t, err)
	assert.Equal(t, "motd", key)

	require.NoError(t, s.Set(ctx, "u1", "count", "7"))
	stored, ok, err := backend.Get(ctx, "count:u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "7", stored)
}

func TestStore_GlobalIgnoresUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Set(ctx, "A", "motd", "global_value"))
	v, err := s.Get(ctx, "B", "motd")
	require.NoError(t, err)
	assert.Equal(t, "global_value", v)

	require.NoError(t, s.SetKey(ctx, "A", "sources", "prices", `{"url":"x"}`))
	v, err = s.GetKey(ctx, "B", "sources", "prices")
	require.NoError(t, err)
	assert.Equal(t, `{"url":"x"}`, v)
}

func TestStore_PerUserIsolation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Set(ctx, "A", "title", "mine"))
	v, err := s.Get(ctx, "B", "title")
	require.NoError(t, err)
	assert.Equal(t, "default_value", v)
}

func TestStore_Defaults(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	v, err := s.Get(ctx, "new_user", "count")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = s.Get(ctx, "new_user", "flag")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	v, err = s.Get(ctx, "new_user", "title")
	require.NoError(t, err)
	assert.Equal(t, "default_value", v)

	v, err = s.Get(ctx, "new_user", "motd")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	v, err = s.GetKey(ctx, "new_user", "prefs", "anything")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{}, v)
}

func TestStore_DictMissingKey(t *testing.T) {
	ctx := context.Background()
	s, err := New(kvstore.NewMemoryBackend(),
		Schema{Name: "d", Kind: KindDict, Default: map[string]any{"seeded": "yes"}},
	)
	require.NoError(t, err)

	t.Run("nothing stored consults default", func(t *testing.T) {
		v, err := s.GetKey(ctx, "u1", "d", "seeded")
		require.NoError(t, err)
		assert.Equal(t, "yes", v)

		v, err = s.GetKey(ctx, "u1", "d", "other")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{}, v)
	})

	t.Run("stored mapping without key is empty, not default", func(t *testing.T) {
		require.NoError(t, s.SetKey(ctx, "u1", "d", "present", "1"))

		v, err := s.GetKey(ctx, "u1", "d", "seeded")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{}, v)

		entry, found, err := s.Lookup(ctx, "u1", "d", "seeded")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, entry)
	})
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	_, err := s.Get(ctx, "u1", "nope")
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.ErrorIs(t, s.Set(ctx, "u1", "nope", 1), ErrUnknownOption)

	_, err = s.Get(ctx, "u1", "prefs")
	assert.ErrorIs(t, err, ErrMissingDictKey)
	_, err = s.GetKey(ctx, "u1", "prefs", "")
	assert.ErrorIs(t, err, ErrMissingDictKey)
	assert.ErrorIs(t, s.Set(ctx, "u1", "prefs", "v"), ErrMissingDictKey)
	_, _, err = s.Lookup(ctx, "u1", "prefs", "")
	assert.ErrorIs(t, err, ErrMissingDictKey)

	assert.ErrorIs(t, s.Set(ctx, "u1", "count", "lots"), ErrCoercion)

	require.NoError(t, backend.Set(ctx, "count:u1", "not-a-number"))
	_, err = s.Get(ctx, "u1", "count")
	assert.ErrorIs(t, err, ErrCoercion)
	assert.Contains(t, err.Error(), "count")

	_, err = s.GetString(ctx, "u1", "count")
	assert.ErrorIs(t, err, ErrKindMismatch)
	_, _, err = s.Lookup(ctx, "u1", "count", "k")
	assert.ErrorIs(t, err, ErrKindMismatch)
}

func TestStore_BoolCoercion(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	tests := []struct {
		stored string
		want   bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"1", true},
		{"yes", true},
		{"Yes", true},
		{"on", true},
		{"ON", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"off", false},
		{"enabled", false},
		{"", false},
		{" true", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.stored), func(t *testing.T) {
			require.NoError(t, backend.Set(ctx, "flag:u1", tt.stored))
			got, err := s.GetBool(ctx, "u1", "flag")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStore_SetCanonicalForms(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	tests := []struct {
		option string
		value  any
		stored string
	}{
		{"flag", true, "true"},
		{"flag", "Yes", "true"},
		{"flag", "nope", "false"},
		{"flag", 1, "true"},
		{"count", 7, "7"},
		{"count", " 12 ", "12"},
		{"count", int64(-3), "-3"},
		{"count", 5.9, "5"},
		{"title", 99, "99"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s=%v", tt.option, tt.value), func(t *testing.T) {
			require.NoError(t, s.Set(ctx, "u1", tt.option, tt.value))
			got, ok, err := backend.Get(ctx, tt.option+":u1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.stored, got)
		})
	}
}

func TestStore_TypedGetters(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Set(ctx, "u1", "count", 9))
	n, err := s.GetInt(ctx, "u1", "count")
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	str, err := s.GetString(ctx, "u1", "title")
	require.NoError(t, err)
	assert.Equal(t, "default_value", str)

	b, err := s.GetBool(ctx, "u1", "flag")
	require.NoError(t, err)
	assert.False(t, b)

	require.NoError(t, s.SetKey(ctx, "u1", "prefs", "lang", "ru"))
	entry, found, err := s.Lookup(ctx, "u1", "prefs", "lang")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ru", entry)
}

func TestStore_ConcurrentDictWrites(t *testing.T) {
	ctx := context.Background()
	s, backend := newTestStore(t)

	const writers = 64
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.SetKey(ctx, fmt.Sprintf("user%d", i), "sources", fmt.Sprintf("src%d", i), i))
		}(i)
	}
	wg.Wait()

	m, ok, err := backend.GetMapping(ctx, "sources")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, m, writers)
}

func TestStore_Reference(t *testing.T) {
	s, _ := newTestStore(t)

	want := "• count (int) default 42: A counter\n" +
		"• flag (bool)\n" +
		"• title (str) default default_value\n" +
		"• motd (str)\n" +
		"• prefs (dict)\n" +
		"• sources (dict): Data sources\n"
	assert.Equal(t, want, s.Reference())
}

// failingBackend fails every call and counts Close calls.
type failingBackend struct {
	err        error
	closeCalls atomic.Int32
}

func (f *failingBackend) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f *failingBackend) Set(context.Context, string, string) error         { return f.err }
func (f *failingBackend) GetMapping(context.Context, string) (map[string]string, bool, error) {
	return nil, false, f.err
}
func (f *failingBackend) SetMapping(context.Context, string, map[string]string) error { return f.err }
func (f *failingBackend) SetMappingField(context.Context, string, string, string) error {
	return f.err
}
func (f *failingBackend) Close() error {
	f.closeCalls.Add(1)
	return nil
}

func TestStore_BackendErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{err: fmt.Errorf("%w: connection refused", kvstore.ErrBackendUnavailable)}
	s, err := New(backend, testSchemas()...)
	require.NoError(t, err)

	_, err = s.Get(ctx, "u1", "count")
	assert.ErrorIs(t, err, kvstore.ErrBackendUnavailable)
	_, err = s.GetKey(ctx, "u1", "prefs", "k")
	assert.ErrorIs(t, err, kvstore.ErrBackendUnavailable)
	assert.ErrorIs(t, s.Set(ctx, "u1", "count", 1), kvstore.ErrBackendUnavailable)
	assert.ErrorIs(t, s.SetKey(ctx, "u1", "prefs", "k", "v"), kvstore.ErrBackendUnavailable)
	assert.False(t, errors.Is(err, ErrUnknownOption))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, int32(1), backend.closeCalls.Load())
}
