// Package types holds value types shared by the store adapters: built-in
// role names and JSON column helpers.
package types
