// Package aggregates contains infrastructure implementations of domain aggregate contracts.
//
// Implementations in this package compose table-level repos from internal/data/repos
// and own transaction boundaries for invariant-critical write operations. Change
// events are appended inside the write transaction and handed to the Notifier only
// after commit.
package aggregates
