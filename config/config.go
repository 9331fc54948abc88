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

// Package config loads the server configuration from an optional YAML file
// and the process environment. Environment values win over the file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/tomoncle/brochure/database"
	"github.com/tomoncle/brochure/utils"
	"gopkg.in/yaml.v3"
)

// ServerConfig controls the HTTP listener and the mounted assets.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ImagesPrefix    string        `yaml:"images_prefix"`
	ImagesDir       string        `yaml:"images_dir"`
	ViewsDir        string        `yaml:"views_dir"` // empty: built-in views
	RequireDB       bool          `yaml:"require_db"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	TrustedProxies  []string      `yaml:"trusted_proxies"`
}

// LogConfig selects the console log level and format.
type LogConfig struct {
	Level   string            `yaml:"level"`
	Format  string            `yaml:"format"`  // text or json
	Loggers map[string]string `yaml:"loggers"` // per-logger level, e.g. DATABASE: debug
}

// Config is the whole file layout.
type Config struct {
	Server   ServerConfig              `yaml:"server"`
	Database database.ConnectionConfig `yaml:"database"`
	Log      LogConfig                 `yaml:"log"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8000",
			ImagesPrefix:    "/images",
			ImagesDir:       "images",
			ShutdownTimeout: 10 * time.Second,
		},
		Database: *database.DefaultConnectionConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults, when path is non-empty, then applies
// the environment. Environment variables that could not be parsed are
// returned so the caller can report them.
func Load(path string) (*Config, []string, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	invalid := cfg.ApplyEnv()
	return cfg, invalid, nil
}

// ApplyEnv overrides settings from the environment.
func (c *Config) ApplyEnv() []string {
	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if dir := os.Getenv("IMAGES_DIR"); dir != "" {
		c.Server.ImagesDir = dir
	}
	if dir := os.Getenv("VIEWS_DIR"); dir != "" {
		c.Server.ViewsDir = dir
	}
	c.Server.RequireDB = utils.EnvDefaultBool("REQUIRE_DB", c.Server.RequireDB)
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if format := os.Getenv("CONSOLE_LOG_FORMAT"); format != "" {
		c.Log.Format = format
	}
	return database.OverrideFromEnv(&c.Database)
}
