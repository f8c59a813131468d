// Package daemon wires the pipeline, its service clients, and the HTTP
// server into a single lifecycle with flock-based locking so only one
// inspirad instance works a data directory at a time.
package daemon
