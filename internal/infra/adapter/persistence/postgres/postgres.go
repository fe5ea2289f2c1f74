// Package postgres is the one concrete relational implementation of
// repository.Storage. All access goes through database/sql with the pgx
// stdlib driver — no ORM, manual $N placeholders and Scan calls,
// following this repository's existing query style.
package postgres

import (
	"database/sql"

	"catchup-feed/internal/repository"
	"catchup-feed/internal/resilience/circuitbreaker"
)

// Store is the Postgres-backed repository.Storage implementation. DB
// calls go through a circuit breaker so a failing database fails fast
// instead of piling up blocked goroutines; an open circuit surfaces
// through the ordinary error path and classifies as the db_error sync tag.
type Store struct {
	db *sql.DB
	cb *circuitbreaker.DBCircuitBreaker
}

// New wraps db in a Store, ready to satisfy repository.Storage.
func New(db *sql.DB) *Store {
	return &Store{db: db, cb: circuitbreaker.NewDBCircuitBreaker(db)}
}

var _ repository.Storage = (*Store)(nil)
