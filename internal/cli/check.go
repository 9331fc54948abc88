/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tomoncle/brochure/database"
)

var errUnhealthy = errors.New("database is unhealthy")

// newCheckCmd probes the configured database once and prints the health
// status with pool statistics, for container health checks.
func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Probe the database once and print the result as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			manager, err := database.Open(cmd.Context(), &cfg.Database, database.GetLogger())
			if manager == nil {
				return err
			}
			defer func() { _ = manager.Close() }()

			status := manager.HealthCheck(cmd.Context())
			out, err := json.MarshalIndent(struct {
				*database.HealthStatus
				Stats *database.DBStats `json:"stats"`
			}{status, manager.Stats()}, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !status.Healthy {
				return errUnhealthy
			}
			return nil
		},
	}
}
