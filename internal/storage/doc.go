// Package storage provides the key-value persistence used for audit history.
//
// A Store holds named slots, each an opaque byte value. The session package
// keeps the whole history under a single slot, so the store never needs to
// understand reports.
//
// Two implementations are provided:
//   - SQLiteStore keeps slots in a kv_slots table inside auditflow.db
//   - MemoryStore keeps slots in a map, for tests and --data-dir-less runs
//
// Design decision: SQLite (via modernc.org/sqlite) is used instead of a plain
// JSON file because writes are atomic and the CGO-free driver keeps the
// binary easy to cross-compile.
package storage
