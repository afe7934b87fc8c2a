// Package main hosts the bingwall CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into IPC calls
// against the daemon: fetching and applying wallpapers, timer control, market
// selection, history listing, and configuration scaffolding. It centralizes
// configuration resolution, socket discovery, and dial-error mapping so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
