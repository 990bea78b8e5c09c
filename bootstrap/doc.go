// Package bootstrap provisions a fresh database: it selects the database,
// creates an administrative user, a collection and a unique index on that
// collection, then prints a confirmation line.
package bootstrap
