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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter  = otel.Meter("github.com/cardinalhq/rowfinder/internal/commands")
	tracer = otel.Tracer("github.com/cardinalhq/rowfinder/internal/commands")

	dispatchCounter metric.Int64Counter
)

func init() {
	c, err := meter.Int64Counter(
		"rowfinder.commands.dispatched",
		metric.WithDescription("Commands dispatched, by command and result"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		panic(err)
	}
	dispatchCounter = c
}

func recordDispatch(ctx context.Context, name string, err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownCommand):
		result = "unknown"
		name = "unknown"
	case errors.Is(err, ErrUsage):
		result = "usage"
	default:
		result = "error"
	}
	dispatchCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", name),
		attribute.String("result", result),
	))
}
