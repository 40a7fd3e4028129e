// Package main hosts the watchfilter CLI entrypoint and command graph.
//
// The Cobra-based command tree searches TMDB, resolves channels, reports
// where a title can be watched, filters search results down to a channel,
// and runs the HTTP API. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on output instead of
// wiring.
//
// Keep this package lean: add new functionality to internal/api first, then
// surface it through a dedicated command or flag here.
package main
