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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/rowfinder/config"
	"github.com/cardinalhq/rowfinder/internal/commands"
	"github.com/cardinalhq/rowfinder/internal/sheets"
)

type lookupFlags struct {
	location string
	sheet    int
	seek     string
	columns  string
	asJSON   bool
}

func init() {
	var flags lookupFlags

	cmd := &cobra.Command{
		Use:   "lookup KEY",
		Short: "Look up one row directly, without stored sources",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			doneCtx, doneFx, err := setupTelemetry(serviceName)
			if err != nil {
				return fmt.Errorf("failed to setup telemetry: %w", err)
			}
			defer func() {
				if err := doneFx(); err != nil {
					slog.Error("Error shutting down telemetry", slog.Any("error", err))
				}
			}()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return lookupRow(doneCtx, c.OutOrStdout(), newRowCache(doneCtx, cfg), args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.location, "location", "", "Spreadsheet URL or workbook path")
	cmd.Flags().IntVar(&flags.sheet, "sheet", 1, "1-based worksheet number")
	cmd.Flags().StringVar(&flags.seek, "seek", "1", "1-based column holding the key")
	cmd.Flags().StringVar(&flags.columns, "columns", "", "Comma-separated 1-based columns to return")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print the row as a JSON object")
	_ = cmd.MarkFlagRequired("location")
	_ = cmd.MarkFlagRequired("columns")

	rootCmd.AddCommand(cmd)
}

func lookupRow(ctx context.Context, out io.Writer, rows commands.RowFinder, key string, flags lookupFlags) error {
	row, err := rows.GetRow(ctx, sheets.Query{
		Location: flags.location,
		Key:      key,
		Seek:     flags.seek,
		Columns:  flags.columns,
		Sheet:    flags.sheet,
	})
	if err != nil {
		return err
	}
	if flags.asJSON {
		b, err := json.Marshal(row)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
		return nil
	}
	if row.Empty() {
		fmt.Fprintln(out, "Value not found")
		return nil
	}
	fmt.Fprintln(out, commands.RenderRow(key, flags.sheet, row))
	return nil
}
