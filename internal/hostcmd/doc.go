// Package hostcmd executes commands on the host system. When the process
// runs inside a Flatpak sandbox every command is routed through
// flatpak-spawn --host so desktop tools like cosmic-bg and notify-send
// reach the real session instead of the sandbox.
package hostcmd
