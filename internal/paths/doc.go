// Package paths resolves the file system locations forge reads and writes.
//
// Locations follow the XDG base directory specification via github.com/adrg/xdg:
// the configuration artifact lives under ConfigHome()/forge and runtime state
// under DataHome()/forge. Helpers here never create directories implicitly;
// callers use EnsureDir before writing.
package paths
