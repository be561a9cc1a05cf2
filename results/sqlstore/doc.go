// Package sqlstore keeps scanned timing series in SQLite, using the pure-Go
// modernc.org/sqlite driver so the CLI stays cgo-free.
package sqlstore
