// Package main hosts the Inspira CLI entrypoint and command graph.
//
// The Cobra-based command tree covers configuration scaffolding and project
// inspection. Commands read the project database directly so they work
// whether or not the daemon is running; the HTTP API stays the surface for
// automation and the web frontend.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
