// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. It handles query
// execution, error mapping, and data mapping between domain entities and
// database records, including the JSONB envelope for recurrence rules.
package postgres
