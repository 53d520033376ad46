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
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/rowfinder/internal/commands"
)

func init() {
	cmd := &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run one command, such as \"i apple\" or \"cfg_get_source prices\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runWithApp(func(ctx context.Context, a *app) error {
				return execLine(ctx, c.OutOrStdout(), a.dispatcher, userID, strings.Join(args, " "))
			})
		},
	}
	// Everything after the command name is passed through, including "-1".
	cmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(cmd)
}

// execLine dispatches one line and prints the reply. The dispatch error is
// returned so the process exits non-zero.
func execLine(ctx context.Context, out io.Writer, d *commands.Dispatcher, user, line string) error {
	reply, err := d.Dispatch(ctx, user, line)
	fmt.Fprintln(out, reply)
	return err
}
