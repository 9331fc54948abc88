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

// Package cli wires configuration, logging, the database manager and the web
// server behind the brochure command.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tomoncle/brochure/config"
	"github.com/tomoncle/brochure/internal/buildinfo"
)

type options struct {
	configPath string
	addr       string
	imagesDir  string
	viewsDir   string
	logLevel   string
	requireDB  bool
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	if err := cmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "brochure",
		Short:        "Serve the site pages, images and database health probes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "console log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts), newCheckCmd(opts), newVersionCmd())
	addServeFlags(cmd, opts)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}

// loadConfig reads the file and environment, then applies flags that were
// set explicitly on the command line.
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, []string, error) {
	cfg, invalid, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Server.Addr = opts.addr
	}
	if flags.Changed("images") {
		cfg.Server.ImagesDir = opts.imagesDir
	}
	if flags.Changed("views") {
		cfg.Server.ViewsDir = opts.viewsDir
	}
	if flags.Changed("require-db") {
		cfg.Server.RequireDB = opts.requireDB
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, invalid, nil
}
