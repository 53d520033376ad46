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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/rowfinder/config"
	"github.com/cardinalhq/rowfinder/internal/kvstore"
	"github.com/cardinalhq/rowfinder/internal/options"
)

func init() {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the configured option definitions",
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			schemas, err := loadSchemas(cfg)
			if err != nil {
				return err
			}
			// Only the definitions are needed, so no backend connection is made.
			store, err := options.New(kvstore.NewMemoryBackend(), schemas...)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprint(c.OutOrStdout(), store.Reference())
			return nil
		},
	}

	rootCmd.AddCommand(cmd)
}
