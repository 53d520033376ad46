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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("github.com/cardinalhq/rowfinder/internal/options")

	opCounter metric.Int64Counter
)

func init() {
	c, err := meter.Int64Counter(
		"rowfinder.options.operations",
		metric.WithDescription("Option store reads and writes"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		panic(err)
	}
	opCounter = c
}

func recordOp(ctx context.Context, op, name string, err error) {
	opCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("option", name),
		attribute.String("result", resultLabel(err)),
	))
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnknownOption):
		return "unknown_option"
	case errors.Is(err, ErrMissingDictKey):
		return "missing_key"
	case errors.Is(err, ErrCoercion):
		return "coercion"
	default:
		return "error"
	}
}
