// Package repository provides record access on the tables and collections
// created by the bootstrap: a generic Bun repository for SQL databases and a
// MongoDB repository for document stores.
package repository
