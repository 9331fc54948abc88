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

// Package web provides the HTTP server: the three site pages, the image
// mount and the database backed health and readiness probes.
package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tomoncle/brochure/config"
	"github.com/tomoncle/brochure/database"
	"github.com/tomoncle/brochure/types"
)

const defaultShutdownTimeout = 10 * time.Second

// Server holds the router and the single database prober shared by all
// handlers. Handlers only read from it.
type Server struct {
	Router    *gin.Engine
	Config    *config.ServerConfig
	DB        database.Prober
	Logger    *logrus.Logger
	StartTime time.Time
}

// New builds the router. The prober is queried by /health and /ready only.
func New(cfg *config.ServerConfig, db database.Prober, logger *logrus.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server configuration cannot be empty")
	}
	if db == nil {
		return nil, errors.New("database prober cannot be nil")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	views, err := loadViews(cfg.ViewsDir)
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(views)

	s := &Server{
		Router: router,
		Config: cfg,
		DB:     db,
		Logger: logger,
	}
	router.Use(s.recovery(), s.accessLog(), secureHeaders())
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	if s.Config.ImagesPrefix != "" {
		s.Router.Static(s.Config.ImagesPrefix, s.Config.ImagesDir)
	}

	s.Router.GET("/"+types.Liveness.Name(), s.probe(types.Liveness))
	s.Router.GET("/"+types.Readiness.Name(), s.probe(types.Readiness))

	for _, p := range pages {
		s.Router.GET(p.path, s.render(p.view))
	}
}

// Handler exposes the router for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.Router
}

// Routes lists the mounted routes as "METHOD path", sorted.
func (s *Server) Routes() []string {
	infos := s.Router.Routes()
	out := make([]string, 0, len(infos))
	for _, r := range infos {
		out = append(out, r.Method+" "+r.Path)
	}
	sort.Strings(out)
	return out
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.StartTime = time.Now()
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.Logger.Infof("Server running at http://%s", displayAddr(ln.Addr()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.Config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.Logger.WithField("uptime", time.Since(s.StartTime).Round(time.Millisecond).String()).Info("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// displayAddr turns a wildcard listen address into a clickable one.
func displayAddr(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
