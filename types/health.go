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

package types

// Database connectivity values reported by the probes.
const (
	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
)

// StatusUnknown is reported by a ProbeKind outside Liveness and Readiness.
const StatusUnknown = "unknown status"

// HealthResponse is the JSON body of /health and /ready.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Healthy builds the success body for kind.
func Healthy(kind ProbeKind) HealthResponse {
	return HealthResponse{Status: kind.OK(), Database: DatabaseConnected}
}

// Unhealthy builds the failure body for kind carrying err's message.
func Unhealthy(kind ProbeKind, err error) HealthResponse {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return HealthResponse{Status: kind.Fail(), Database: DatabaseDisconnected, Error: msg}
}
