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

// Common illegal/default values used by enums.
const (
	IllegalValue = -1
	IllegalName  = "unknown"
	IllegalDesc  = "unknown"
)

// BaseEnum represents a basic enum contract used by domain types.
type BaseEnum interface {
	IsValid() bool
	Number() int
	String() string
	Desc() string
	Name() string
}

// ProbeKind selects the wording of a probe response.
type ProbeKind int

const (
	Liveness ProbeKind = iota
	Readiness
)

var _ BaseEnum = Liveness

type probeWording struct {
	name string
	desc string
	ok   string
	fail string
}

var probeWordings = map[ProbeKind]probeWording{
	Liveness:  {name: "health", desc: "liveness probe", ok: "healthy", fail: "unhealthy"},
	Readiness: {name: "ready", desc: "readiness probe", ok: "ready", fail: "not ready"},
}

func (p ProbeKind) IsValid() bool {
	_, ok := probeWordings[p]
	return ok
}

func (p ProbeKind) Number() int {
	if !p.IsValid() {
		return IllegalValue
	}
	return int(p)
}

func (p ProbeKind) String() string { return p.Name() }

// Name is the route segment the probe is mounted at.
func (p ProbeKind) Name() string {
	if w, ok := probeWordings[p]; ok {
		return w.name
	}
	return IllegalName
}

func (p ProbeKind) Desc() string {
	if w, ok := probeWordings[p]; ok {
		return w.desc
	}
	return IllegalDesc
}

// OK is the status reported when the database answered.
func (p ProbeKind) OK() string {
	if w, ok := probeWordings[p]; ok {
		return w.ok
	}
	return StatusUnknown
}

// Fail is the status reported when the probe failed.
func (p ProbeKind) Fail() string {
	if w, ok := probeWordings[p]; ok {
		return w.fail
	}
	return StatusUnknown
}
