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

package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/tomoncle/brochure/utils"
)

// InvalidPort replaces an unparsable DB_PORT so the connection attempt fails on it.
const InvalidPort = -1

var supportedTypes = []string{TypePostgres, "postgresql", TypeMySQL, TypeSQLite, "sqlite3"}

// IsSupportedType reports whether t names a dialect the manager can open.
func IsSupportedType(t string) bool {
	for _, s := range supportedTypes {
		if s == t {
			return true
		}
	}
	return false
}

// OverrideFromEnv overrides connection settings from DB_* environment
// variables. Values are not validated; numeric variables that fail to parse
// are returned by name. An unparsable DB_PORT becomes InvalidPort, the pool
// settings keep their previous values.
func OverrideFromEnv(cfg *ConnectionConfig) (invalid []string) {
	if t := os.Getenv("DB_TYPE"); t != "" {
		cfg.Type = t
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		} else {
			cfg.Port = InvalidPort
			invalid = append(invalid, "DB_PORT")
		}
	}
	if username := firstEnv("DB_USER", "DB_USERNAME"); username != "" {
		cfg.Username = username
	}
	if password := firstEnv("DB_PASS", "DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		cfg.SSLMode = sslmode
	}

	// Connection pool config
	if maxIdle := os.Getenv("DB_MAX_IDLE_CONNS"); maxIdle != "" {
		if val, err := strconv.Atoi(maxIdle); err == nil {
			cfg.MaxIdleConns = val
		} else {
			invalid = append(invalid, "DB_MAX_IDLE_CONNS")
		}
	}
	if maxOpen := os.Getenv("DB_MAX_OPEN_CONNS"); maxOpen != "" {
		if val, err := strconv.Atoi(maxOpen); err == nil {
			cfg.MaxOpenConns = val
		} else {
			invalid = append(invalid, "DB_MAX_OPEN_CONNS")
		}
	}
	if probe := os.Getenv("DB_PROBE_TIMEOUT"); probe != "" {
		if val, err := strconv.Atoi(probe); err == nil {
			cfg.ProbeTimeout = time.Duration(val) * time.Second
		} else {
			invalid = append(invalid, "DB_PROBE_TIMEOUT")
		}
	}

	cfg.EnableQueryLog = utils.EnvDefaultBool("DB_ENABLE_QUERY_LOG", cfg.EnableQueryLog)
	return invalid
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Open creates the manager and connects it. For a supported type the manager
// is returned even when connecting fails, together with the error: probes
// keep reporting the failure until the database is up.
func Open(ctx context.Context, cfg *ConnectionConfig, logger Logger) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	if !IsSupportedType(cfg.Type) {
		return nil, fmt.Errorf("unsupported database type: %s, supported types: %v", cfg.Type, supportedTypes)
	}

	manager := NewManager(cfg, logger)
	if err := manager.Connect(ctx); err != nil {
		return manager, err
	}
	return manager, nil
}
