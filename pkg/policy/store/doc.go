// Package store holds the active compiled rule chain and keeps it
// synchronized with the filesystem.
//
// The Store publishes immutable Snapshot values through an atomic pointer.
// Readers capture a snapshot at the start of an evaluation and may keep
// iterating it for as long as they like; a concurrent reload installs a
// complete replacement snapshot without ever exposing a partially built
// chain, and superseded snapshots are reclaimed by the garbage collector
// once the last reader drops its reference.
//
// The Watcher turns directory-level filesystem events into reloads. Events
// for hidden files, editor swap files and non-rule files are ignored.
// Bursts of qualifying events can optionally be coalesced by a debouncer;
// with debouncing disabled every qualifying event triggers a full reload,
// which is inefficient during editor save storms but never incorrect.
package store
