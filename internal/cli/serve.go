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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tomoncle/brochure/database"
	"github.com/tomoncle/brochure/utils"
	"github.com/tomoncle/brochure/web"
)

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server (default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	addServeFlags(cmd, opts)
	return cmd
}

func addServeFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVar(&opts.addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&opts.imagesDir, "images", "images", "directory served under /images")
	cmd.Flags().StringVar(&opts.viewsDir, "views", "", "directory of *.html views overriding the built-in ones")
	cmd.Flags().BoolVar(&opts.requireDB, "require-db", false, "exit when the database is unreachable at startup")
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, invalid, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	utils.ConfigureLogLevel(cfg.Log.Level)
	logger := utils.NewLogger("WEB")
	dbLogger := database.NewLogrusLogger(utils.NewLogger("DATABASE"))
	database.InitLogger(dbLogger)
	for name, level := range cfg.Log.Loggers {
		if !utils.SetLoggerLevel(strings.ToUpper(name), level) {
			logger.Warnf("Unknown logger %s in log.loggers", name)
		}
	}
	for _, key := range invalid {
		logger.Warnf("%s is not a number", key)
	}

	ctx := cmd.Context()
	manager, err := database.Open(ctx, &cfg.Database, dbLogger)
	if err != nil && (manager == nil || cfg.Server.RequireDB) {
		logger.WithError(err).Error("Database initialization failed")
		if manager != nil {
			_ = manager.Close()
		}
		return fmt.Errorf("database: %w", err)
	}
	defer func() { _ = manager.Close() }()

	if !manager.Connected() {
		cause := manager.LastError()
		logger.WithError(cause).Warnf("Database unreachable at startup (%s), probes will report it", database.Classify(cause))
	}

	srv, err := web.New(&cfg.Server, manager, logger)
	if err != nil {
		return err
	}
	for _, r := range srv.Routes() {
		logger.Debugf("route %s", r)
	}
	return srv.Run(ctx)
}
