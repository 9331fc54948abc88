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

package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/brochure/config"
	"github.com/tomoncle/brochure/database"
	"github.com/tomoncle/brochure/types"
)

var logoBytes = []byte("\x89PNG\r\n\x1a\nnot-really-a-png")

type fakeProber struct {
	err   error
	calls atomic.Int32
}

func (f *fakeProber) Ping(context.Context) error {
	f.calls.Add(1)
	return f.err
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig(t *testing.T) *config.ServerConfig {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), logoBytes, 0o644))
	cfg := config.Default().Server
	cfg.ImagesDir = dir
	return &cfg
}

func newTestServer(t *testing.T, prober database.Prober) *Server {
	t.Helper()
	s, err := New(testConfig(t), prober, quietLogger())
	require.NoError(t, err)
	return s
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) types.HealthResponse {
	t.Helper()
	var body types.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestProbesWithReachableDatabase(t *testing.T) {
	s := newTestServer(t, &fakeProber{})

	cases := map[string]string{
		"/health": "healthy",
		"/ready":  "ready",
	}
	for path, status := range cases {
		rec := get(t, s, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

		body := decodeHealth(t, rec)
		assert.Equal(t, status, body.Status)
		assert.Equal(t, "connected", body.Database)
		assert.Empty(t, body.Error)
	}
}

func TestProbesWithUnreachableDatabase(t *testing.T) {
	prober := &fakeProber{err: errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")}
	s := newTestServer(t, prober)

	cases := map[string]string{
		"/health": "unhealthy",
		"/ready":  "not ready",
	}
	for path, status := range cases {
		rec := get(t, s, path)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)

		body := decodeHealth(t, rec)
		assert.Equal(t, status, body.Status)
		assert.NotEmpty(t, body.Error)
		assert.Contains(t, body.Error, "connection refused")
	}
}

func TestProbeIsNotRetried(t *testing.T) {
	prober := &fakeProber{err: errors.New("boom")}
	s := newTestServer(t, prober)

	get(t, s, "/health")
	assert.EqualValues(t, 1, prober.calls.Load())
	get(t, s, "/ready")
	assert.EqualValues(t, 2, prober.calls.Load())
}

func TestProbesAgainstSQLite(t *testing.T) {
	cfg := database.DefaultConnectionConfig()
	cfg.Type = database.TypeSQLite
	cfg.DBName = ":memory:"
	m, err := database.Open(context.Background(), cfg, database.NewLogrusLogger(quietLogger()))
	require.NoError(t, err)

	s := newTestServer(t, m)
	rec := get(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.Healthy(types.Liveness), decodeHealth(t, rec))

	// once the pool is gone the same server reports the failure
	require.NoError(t, m.Close())
	rec = get(t, s, "/ready")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "database not connected", decodeHealth(t, rec).Error)
}

func TestPages(t *testing.T) {
	s := newTestServer(t, &fakeProber{})

	headings := map[string]string{
		"/":        "<h1>Welcome</h1>",
		"/about":   "<h1>About us</h1>",
		"/contact": "<h1>Contact</h1>",
	}
	bodies := map[string]bool{}
	for path, heading := range headings {
		rec := get(t, s, path)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

		body := rec.Body.String()
		assert.Contains(t, body, heading)
		assert.Contains(t, body, "<!DOCTYPE html>")
		assert.Contains(t, body, "</html>")
		bodies[body] = true
	}
	assert.Len(t, bodies, len(headings))
}

func TestPagesDoNotTouchDatabase(t *testing.T) {
	prober := &fakeProber{}
	s := newTestServer(t, prober)
	for _, p := range pages {
		get(t, s, p.path)
	}
	assert.Zero(t, prober.calls.Load())
}

func TestImages(t *testing.T) {
	s := newTestServer(t, &fakeProber{})

	rec := get(t, s, "/images/logo.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, logoBytes, rec.Body.Bytes())

	rec = get(t, s, "/images/missing.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, s, "/images/../go.mod")
	assert.NotEqual(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, &fakeProber{})
	assert.Equal(t, http.StatusNotFound, get(t, s, "/pricing").Code)
}

func TestRepeatedRequestsAreIdentical(t *testing.T) {
	s := newTestServer(t, &fakeProber{err: errors.New("connection refused")})
	for _, path := range []string{"/", "/about", "/contact", "/health", "/ready", "/images/logo.png"} {
		first := get(t, s, path)
		second := get(t, s, path)
		assert.Equal(t, first.Code, second.Code, path)
		assert.Equal(t, first.Body.String(), second.Body.String(), path)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t, &fakeProber{})
	rec := get(t, s, "/")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t, &fakeProber{})
	routes := s.Routes()
	for _, want := range []string{
		"GET /",
		"GET /about",
		"GET /contact",
		"GET /health",
		"GET /ready",
		"GET /images/*filepath",
	} {
		assert.Contains(t, routes, want)
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, &fakeProber{}, nil)
	assert.Error(t, err)

	_, err = New(testConfig(t), nil, nil)
	assert.Error(t, err)
}

func TestCustomViewsDir(t *testing.T) {
	dir := t.TempDir()
	for name, body := range map[string]string{
		"home.html":    `{{define "home"}}custom home{{end}}`,
		"about.html":   `{{define "about"}}custom about{{end}}`,
		"contact.html": `{{define "contact"}}custom contact{{end}}`,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	cfg := testConfig(t)
	cfg.ViewsDir = dir

	s, err := New(cfg, &fakeProber{}, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, "custom about", get(t, s, "/about").Body.String())
}

func TestCustomViewsDirMissingView(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "home.html"), []byte(`{{define "home"}}x{{end}}`), 0o644))
	cfg := testConfig(t)
	cfg.ViewsDir = dir

	_, err := New(cfg, &fakeProber{}, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `view "about" is not defined`)
}

func TestServeAndShutdown(t *testing.T) {
	s := newTestServer(t, &fakeProber{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ready")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, s.StartTime.IsZero())
}

func TestDisplayAddr(t *testing.T) {
	assert.Equal(t, "localhost:8000", displayAddr(&net.TCPAddr{IP: net.IPv4zero, Port: 8000}))
	assert.Equal(t, "localhost:8000", displayAddr(&net.TCPAddr{IP: net.IPv6unspecified, Port: 8000}))
	assert.Equal(t, "127.0.0.1:8000", displayAddr(&net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8000}))
}
