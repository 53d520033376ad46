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
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cardinalhq/rowfinder/internal/idgen"
	"github.com/cardinalhq/rowfinder/internal/logctx"
	"github.com/cardinalhq/rowfinder/internal/sheets"
)

// OptionStore is the subset of *options.Store the handlers use.
type OptionStore interface {
	GetString(ctx context.Context, userID, name string) (string, error)
	Set(ctx context.Context, userID, name string, value any) error
	Lookup(ctx context.Context, userID, name, dictKey string) (string, bool, error)
	SetKey(ctx context.Context, userID, name, dictKey string, value any) error
}

// RowFinder is satisfied by *sheets.Cache.
type RowFinder interface {
	GetRow(ctx context.Context, q sheets.Query) (sheets.Row, error)
}

// Request is one parsed invocation.
type Request struct {
	UserID  string
	Command Name
	Args    []string
}

type handlerFunc func(ctx context.Context, req Request) (string, error)

// Dispatcher routes command text to handlers. It is safe for concurrent use
// when the store and row finder are.
type Dispatcher struct {
	store    OptionStore
	rows     RowFinder
	handlers map[Name]handlerFunc
}

func NewDispatcher(store OptionStore, rows RowFinder) *Dispatcher {
	d := &Dispatcher{store: store, rows: rows}
	d.handlers = map[Name]handlerFunc{
		GetSource:    d.getSource,
		SetSource:    d.setSource,
		Info:         d.info,
		CfgSetSource: d.cfgSetSource,
		CfgGetSource: d.cfgGetSource,
		Start:        d.start,
		Help:         d.help,
	}
	return d
}

// Parse splits "/name@bot arg1 arg2" into the bare command name and its
// arguments. The leading slash and the bot suffix are optional.
func Parse(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	name := strings.TrimPrefix(fields[0], "/")
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return name, fields[1:]
}

// Dispatch runs one command for userID and returns the reply to show. The
// reply is always set; err is non-nil when the command did not succeed.
func (d *Dispatcher) Dispatch(ctx context.Context, userID, text string) (reply string, err error) {
	name, args := Parse(text)
	defer func() { recordDispatch(ctx, name, err) }()

	spec, ok := Lookup(name)
	if !ok {
		return "Unknown command", fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	if required := spec.Required(); len(args) < required {
		return fmt.Sprintf("This command requires at least %d argument(s)\nUsage: %s", required, spec.Usage()),
			fmt.Errorf("%w: %s needs %d, got %d", ErrUsage, name, required, len(args))
	}
	// Extra words belong to the last declared argument.
	if n := len(spec.Args); n > 0 && len(args) > n {
		args = append(args[:n-1:n-1], strings.Join(args[n-1:], " "))
	}

	ctx, span := tracer.Start(ctx, "commands.Dispatch", trace.WithAttributes(
		attribute.String("command", name),
	))
	defer span.End()

	ctx = logctx.With(ctx,
		slog.String("requestID", idgen.NextRequestID()),
		slog.String("command", name),
		slog.String("userID", userID),
	)
	logger := logctx.FromContext(ctx)
	logger.Debug("Dispatching command", slog.Int("args", len(args)))

	reply, err = d.handlers[spec.Name](ctx, Request{UserID: userID, Command: spec.Name, Args: args})
	if err != nil {
		logger.Warn("Command failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "command failed")
		return failureMessage(spec, err), err
	}
	return reply, nil
}

func failureMessage(spec Spec, err error) string {
	var incomplete *IncompleteSourceError
	if errors.As(err, &incomplete) {
		return incomplete.Message()
	}
	if spec.ErrorPrefix == "" {
		return "Error: " + err.Error()
	}
	return spec.ErrorPrefix + ": " + err.Error()
}
