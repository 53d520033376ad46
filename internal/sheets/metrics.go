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
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("github.com/cardinalhq/rowfinder/internal/sheets")

	resolutionCounter metric.Int64Counter
	lookupCounter     metric.Int64Counter
)

func init() {
	c, err := meter.Int64Counter(
		"rowfinder.sheets.resolutions",
		metric.WithDescription("Worksheet handle resolutions against the remote source"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		panic(err)
	}
	resolutionCounter = c

	c, err = meter.Int64Counter(
		"rowfinder.sheets.lookups",
		metric.WithDescription("Row lookups by outcome"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		panic(err)
	}
	lookupCounter = c
}

func recordResolution(ctx context.Context, err error) {
	resolutionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", errorLabel(err))))
}

func recordLookup(ctx context.Context, row Row, err error) {
	result := errorLabel(err)
	if err == nil {
		result = "hit"
		if row.Empty() {
			result = "miss"
		}
	}
	lookupCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func errorLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrWorksheetNotFound):
		return "worksheet_not_found"
	default:
		return "error"
	}
}
