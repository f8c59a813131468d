// Package project persists video project state in SQLite and owns the
// per-project directory layout on disk.
package project
