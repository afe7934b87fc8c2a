// Package instance coordinates process roles through advisory lockfiles.
// Each role owns one <role>.lock file whose mtime doubles as a liveness
// signal: owners refresh it on a cadence and everyone else treats a file
// past the staleness window as abandoned.
package instance
