// Package database connects to the target server (MongoDB through the
// official driver, MySQL, PostgreSQL and SQLite through Bun) and adapts each
// connection to the bootstrap.Store interface.
package database
