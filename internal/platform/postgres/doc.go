// Package postgres provides the PostgreSQL implementations of the card and
// review log stores defined in internal/store. Queries run through
// database/sql with the pgx driver; schema changes live in
// internal/platform/migrations.
package postgres
