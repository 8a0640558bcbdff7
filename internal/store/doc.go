// Package store persists class tables in a SQLite database.
//
// Every table is written as one physical SQLite table named after the view
// (e.g. "ACLineSegment_enriched") plus an entry in the cim_tables catalog:
//   - header: the logical column names, in order
//   - columns: the physical column names, in the same order
//   - row_count and digest: used by the run manifest and for verification
//
// Physical rows carry a _row INTEGER PRIMARY KEY so that reads return rows in
// the order they were written. SQLite compares identifiers case-insensitively,
// so logical names that differ only in case are given distinct physical names;
// the catalog header always holds the original spelling.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Digests are computed by cim.TableDigest, so a table read back from the
// store hashes to the same value as the table that was written.
package store
