// Package ipc implements the JSON-RPC control surface between the bingwall
// CLI and the daemon.
//
// The daemon listens on a Unix domain socket; each connection is served by
// net/rpc with the jsonrpc codec. Request and response DTOs live in
// types.go so client and server stay in lockstep.
package ipc
