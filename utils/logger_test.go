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

package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntry(msg string, data logrus.Fields) *logrus.Entry {
	l := logrus.New()
	e := logrus.NewEntry(l).WithFields(data)
	e.Message = msg
	e.Level = logrus.InfoLevel
	e.Time = time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
	return e
}

func TestJSONLogFormatterLiftsAccessFields(t *testing.T) {
	f := &JSONLogFormatter{LoggerName: "WEB"}
	out, err := f.Format(newEntry("request", logrus.Fields{
		"client_ip":    "10.0.0.7",
		"req_method":   "GET",
		"req_uri":      "/health",
		"status_code":  500,
		"latency_time": "1.2ms",
		"probe":        "health",
		"error":        errors.New("connection refused"),
	}))
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &rec))
	assert.Equal(t, "2025-03-01 12:30:00.000", rec["time"])
	assert.Equal(t, "info", rec["level"])
	assert.Equal(t, "WEB", rec["model"])
	assert.Equal(t, "request", rec["message"])
	assert.Equal(t, "10.0.0.7", rec["client_ip"])
	assert.Equal(t, "GET", rec["method"])
	assert.Equal(t, "/health", rec["path"])
	assert.EqualValues(t, 500, rec["status_code"])
	assert.Equal(t, "1.2ms", rec["latency_time"])

	fields, ok := rec["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "health", fields["probe"])
	assert.Equal(t, "connection refused", fields["error"])
	assert.NotContains(t, fields, "req_uri")
}

func TestLog4jColorFormatter(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "DATABASE", NameWidth: 10}
	out, err := f.Format(newEntry("Database connected successfully", logrus.Fields{
		"type": "postgres",
		"host": "db",
	}))
	require.NoError(t, err)

	line := string(out)
	assert.Contains(t, line, "2025-03-01 12:30:00.000")
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "DATABASE")
	assert.Contains(t, line, "Database connected successfully")
	assert.Less(t, bytes.Index(out, []byte("host")), bytes.Index(out, []byte("type")))
	assert.Equal(t, byte('\n'), out[len(out)-1])
}

func TestNewLoggerWritesToConsole(t *testing.T) {
	var buf bytes.Buffer
	SetConsoleOutput(&buf)
	t.Cleanup(func() { SetConsoleOutput(nopWriter{}) })

	ConfigureConsoleLogFormat("json")
	t.Cleanup(func() { ConfigureConsoleLogFormat("text") })

	l := NewLogger("TEST")
	l.SetLevel(logrus.InfoLevel)
	l.Debug("hidden")
	l.WithField("status_code", 200).Info("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"shown"`)
	assert.Contains(t, out, `"status_code":200`)
	assert.Contains(t, out, `"model":"TEST"`)

	assert.True(t, SetLoggerLevel("TEST", "error"))
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	assert.False(t, SetLoggerLevel("missing", "error"))
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestParseLogLevel(t *testing.T) {
	cases := map[string]logrus.Level{
		"trace":   logrus.TraceLevel,
		"DEBUG":   logrus.DebugLevel,
		"":        logrus.InfoLevel,
		"warning": logrus.WarnLevel,
		" error ": logrus.ErrorLevel,
		"bogus":   logrus.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("BROCHURE_TEST_STR", "value")
	t.Setenv("BROCHURE_TEST_BOOL", "true")
	t.Setenv("BROCHURE_TEST_BAD_BOOL", "maybe")

	assert.Equal(t, "value", EnvDefaultString("BROCHURE_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefaultString("BROCHURE_TEST_UNSET", "def"))
	assert.True(t, EnvDefaultBool("BROCHURE_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("BROCHURE_TEST_BAD_BOOL", true))
	assert.False(t, EnvDefaultBool("BROCHURE_TEST_UNSET", false))
}

func TestShortRelative(t *testing.T) {
	assert.Equal(t, "web/health.go", shortRelative("/src/brochure/web/health.go"))
	assert.Equal(t, "main.go", shortRelative("main.go"))
}
