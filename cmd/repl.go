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
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/rowfinder/internal/commands"
)

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Read commands from stdin, one per line",
		RunE: func(c *cobra.Command, _ []string) error {
			return runWithApp(func(ctx context.Context, a *app) error {
				return repl(ctx, c.InOrStdin(), c.OutOrStdout(), a.dispatcher, userID)
			})
		},
	}

	rootCmd.AddCommand(cmd)
}

// repl runs until EOF, "quit", or ctx is cancelled. Failed commands print
// their reply and do not stop the loop.
func repl(ctx context.Context, in io.Reader, out io.Writer, d *commands.Dispatcher, user string) error {
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit", "/quit", "/exit":
			return nil
		}
		reply, _ := d.Dispatch(ctx, user, line)
		fmt.Fprintln(out, reply)
	}
}
