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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, BackendRedis, cfg.Backend)
	require.Equal(t, "localhost", cfg.Redis.Host)
	require.Equal(t, 6379, cfg.Redis.Port)
	require.Equal(t, 30*time.Second, cfg.Sheets.Timeout)
	require.Empty(t, cfg.Options.SchemaFile)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ROWFINDER_BACKEND", "Memory")
	t.Setenv("ROWFINDER_REDIS_HOST", "redis.internal")
	t.Setenv("ROWFINDER_REDIS_PORT", "6380")
	t.Setenv("ROWFINDER_REDIS_READ_TIMEOUT", "750ms")
	t.Setenv("ROWFINDER_SHEETS_IMPERSONATE_SERVICE_ACCOUNT", "reader@proj.iam.gserviceaccount.com")
	t.Setenv("ROWFINDER_OPTIONS_SCHEMA_FILE", "/etc/rowfinder/options.yaml")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, BackendMemory, cfg.Backend)
	require.Equal(t, "redis.internal", cfg.Redis.Host)
	require.Equal(t, 6380, cfg.Redis.Port)
	require.Equal(t, 750*time.Millisecond, cfg.Redis.ReadTimeout)
	require.Equal(t, "reader@proj.iam.gserviceaccount.com", cfg.Sheets.ImpersonateServiceAccount)
	require.Equal(t, "/etc/rowfinder/options.yaml", cfg.Options.SchemaFile)
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("REDIS_HOST", "legacy-host")
	t.Setenv("REDIS_PORT", "7000")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Setenv("GSA_FILE", "/secrets/gsa.json")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "legacy-host", cfg.Redis.Host)
	require.Equal(t, 7000, cfg.Redis.Port)
	require.Equal(t, "hunter2", cfg.Redis.Password)
	require.Equal(t, "/secrets/gsa.json", cfg.Sheets.CredentialsFile)
}

func TestLoadPrefixedEnvWins(t *testing.T) {
	t.Setenv("REDIS_HOST", "legacy-host")
	t.Setenv("ROWFINDER_REDIS_HOST", "new-host")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "new-host", cfg.Redis.Host)
}

func TestLoadUnknownBackend(t *testing.T) {
	t.Setenv("ROWFINDER_BACKEND", "etcd")

	_, err := Load()
	require.ErrorContains(t, err, `unknown backend "etcd"`)
}
