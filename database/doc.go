// Package database owns the single long-lived connection pool used by the
// health and readiness probes: configuration, dialect selection, the
// liveness query, pool statistics and error classification, built on Bun.
package database
