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
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ProbeErrorKind groups probe failures by likely cause.
type ProbeErrorKind int

const (
	UnknownErr ProbeErrorKind = iota
	NotConnectedErr
	UnreachableErr
	TimeoutErr
	AuthErr
	UnknownDatabaseErr
)

func (k ProbeErrorKind) String() string {
	switch k {
	case NotConnectedErr:
		return "not_connected"
	case UnreachableErr:
		return "unreachable"
	case TimeoutErr:
		return "timeout"
	case AuthErr:
		return "auth"
	case UnknownDatabaseErr:
		return "unknown_database"
	default:
		return "unknown"
	}
}

// Classify inspects a probe error. Driver error codes are checked first,
// then network errors, then the message text.
func Classify(err error) ProbeErrorKind {
	if err == nil {
		return UnknownErr
	}
	if errors.Is(err, ErrNotConnected) {
		return NotConnectedErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1044, 1045:
			return AuthErr
		case 1049:
			return UnknownDatabaseErr
		default:
			return UnknownErr
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "28000", "28P01":
			return AuthErr
		case "3D000":
			return UnknownDatabaseErr
		default:
			return UnknownErr
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return TimeoutErr
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TimeoutErr
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return UnreachableErr
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return UnreachableErr
	}

	s := strings.ToLower(err.Error())
	switch {
	case strings.Contains(s, "connection refused"),
		strings.Contains(s, "no such host"),
		strings.Contains(s, "network is unreachable"):
		return UnreachableErr
	case strings.Contains(s, "timeout"), strings.Contains(s, "deadline exceeded"):
		return TimeoutErr
	case strings.Contains(s, "password authentication failed"),
		strings.Contains(s, "access denied"):
		return AuthErr
	case strings.Contains(s, "does not exist") && strings.Contains(s, "database"),
		strings.Contains(s, "unknown database"):
		return UnknownDatabaseErr
	}
	return UnknownErr
}
