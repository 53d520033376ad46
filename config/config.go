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
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/viper"

	"github.com/cardinalhq/rowfinder/internal/kvstore"
	"github.com/cardinalhq/rowfinder/internal/sheets"
)

const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config aggregates configuration for the application.
// Each field is owned by its respective package.
type Config struct {
	Backend string         `mapstructure:"backend"`
	Redis   kvstore.Config `mapstructure:"redis"`
	Sheets  sheets.Config  `mapstructure:"sheets"`
	Options OptionsConfig  `mapstructure:"options"`
}

type OptionsConfig struct {
	// SchemaFile replaces the built-in option definitions when set.
	SchemaFile string `mapstructure:"schema_file"`
}

// Unprefixed names accepted as fallbacks for existing deployments.
var legacyEnv = map[string]string{
	"redis.host":              "REDIS_HOST",
	"redis.port":              "REDIS_PORT",
	"redis.password":          "REDIS_PASSWORD",
	"sheets.credentials_file": "GSA_FILE",
}

// Load reads configuration from files and environment variables.
// Environment variables use the prefix "ROWFINDER" and the dot character
// in keys is replaced by an underscore. For example, "redis.host" becomes
// "ROWFINDER_REDIS_HOST". A few keys also honor an unprefixed name; the
// prefixed one wins when both are set.
func Load() (*Config, error) {
	cfg := &Config{
		Backend: BackendRedis,
		Redis:   kvstore.DefaultConfig(),
		Sheets:  sheets.DefaultConfig(),
	}

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("ROWFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	for key, name := range legacyEnv {
		_ = v.BindEnv(key, envName(key), name)
	}
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch cfg.Backend {
	case BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("config: unknown backend %q", cfg.Backend)
	}
	return cfg, nil
}

func envName(key string) string {
	return "ROWFINDER_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
