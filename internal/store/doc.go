// Package store archives catalog runs in SQLite.
//
// Every Build written to the store becomes a run with its plans and
// diagnostics. Runs are ordered by a logical sequence number assigned at
// write time, never by wall-clock time, so listings are stable across
// machines and clock skew. Plans are stored as canonical JSON together with
// their content hash, which makes plan drift between runs visible with a
// plain equality check.
//
// The file runs in WAL mode with foreign keys enforced, so deleting a run
// removes its plans and diagnostics. Schema upgrades are tracked in
// PRAGMA user_version.
package store
