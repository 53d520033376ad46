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

package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/cardinalhq/rowfinder/config"
	"github.com/cardinalhq/rowfinder/internal/commands"
	"github.com/cardinalhq/rowfinder/internal/kvstore"
	"github.com/cardinalhq/rowfinder/internal/options"
	"github.com/cardinalhq/rowfinder/internal/sheets"
)

// app holds the long-lived pieces a command needs.
type app struct {
	store      *options.Store
	rows       *sheets.Cache
	dispatcher *commands.Dispatcher
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	schemas, err := loadSchemas(cfg)
	if err != nil {
		return nil, err
	}
	store, err := openStore(ctx, cfg, schemas)
	if err != nil {
		return nil, err
	}
	rows := newRowCache(ctx, cfg)
	return &app{
		store:      store,
		rows:       rows,
		dispatcher: commands.NewDispatcher(store, rows),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// loadSchemas returns the built-in option definitions, or the ones from the
// configured schema file. A schema file must still define the options the
// commands use.
func loadSchemas(cfg *config.Config) ([]options.Schema, error) {
	if cfg.Options.SchemaFile == "" {
		return commands.DefaultSchemas(), nil
	}
	schemas, err := options.LoadSchemaFile(cfg.Options.SchemaFile)
	if err != nil {
		return nil, err
	}
	if bad := commands.RequiredSchemas(schemas); len(bad) > 0 {
		return nil, fmt.Errorf("%w: %s must define %v with their standard types and scopes",
			options.ErrInvalidSchema, cfg.Options.SchemaFile, bad)
	}
	return schemas, nil
}

func openStore(ctx context.Context, cfg *config.Config, schemas []options.Schema) (*options.Store, error) {
	if cfg.Backend == config.BackendMemory {
		slog.Warn("Using in-memory option backend; nothing will be persisted")
		return options.New(kvstore.NewMemoryBackend(), schemas...)
	}
	return options.Open(ctx, cfg.Redis, schemas...)
}

// newRowCache serves local workbooks always, and Google Sheets when
// credentials can be found.
func newRowCache(ctx context.Context, cfg *config.Config) *sheets.Cache {
	providers := []sheets.Matcher{sheets.WorkbookProvider{}}
	google, err := sheets.NewGoogleProvider(ctx, cfg.Sheets)
	if err != nil {
		slog.Warn("Google Sheets disabled", slog.Any("error", err))
	} else {
		providers = append(providers, google)
	}
	return sheets.NewCache(sheets.NewMux(providers...))
}

// shutdown runs every closer and reports all failures together.
func shutdown(closers ...func() error) error {
	var result *multierror.Error
	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// runWithApp is the common RunE body: telemetry, config, app, then fn.
func runWithApp(fn func(ctx context.Context, a *app) error) error {
	doneCtx, doneFx, err := setupTelemetry(serviceName)
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		_ = doneFx()
		return fmt.Errorf("failed to load config: %w", err)
	}

	a, err := newApp(doneCtx, cfg)
	if err != nil {
		_ = doneFx()
		return err
	}

	runErr := fn(doneCtx, a)
	if err := shutdown(a.Close, doneFx); err != nil {
		slog.Error("Error during shutdown", slog.Any("error", err))
	}
	return runErr
}
