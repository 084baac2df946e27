// Package kv provides the SQLite-backed key/value repository used by the
// credential store. All methods accept a dbx.DBTX so they run equally on
// *sql.DB or inside a transaction.
package kv
