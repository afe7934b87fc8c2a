// Package preflight checks the environment a fetch is about to run in:
// wallpaper directory access, free disk space and the host binaries the
// apply step shells out to. Checks never block a fetch; callers log
// failures and carry on.
package preflight
