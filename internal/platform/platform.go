//go:build (darwin || linux) && (amd64 || arm64)

// Package platform describes how libspotify is named and laid out on the
// running platform.
package platform

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Is64Bit indicates whether the platform is 64-bit. The struct layouts in
// package sp assume 8-byte pointers.
const Is64Bit = unsafe.Sizeof(uintptr(0)) == 8

// LibraryExtension is the file extension for shared libraries on this platform.
var LibraryExtension = ".so"

// LibraryPrefix is the prefix for shared library names on this platform.
const LibraryPrefix = "lib"

func init() {
	if runtime.GOOS == "darwin" {
		LibraryExtension = ".dylib"
	}
}

// FormatLibraryName returns the platform-specific library filename.
// If version is 0, returns the unversioned library name.
//
// Examples:
//   - Linux:   FormatLibraryName("spotify", 12) -> "libspotify.so.12"
//   - macOS:   FormatLibraryName("spotify", 12) -> "libspotify.12.dylib"
func FormatLibraryName(name string, version int) string {
	if version <= 0 {
		return fmt.Sprintf("%s%s%s", LibraryPrefix, name, LibraryExtension)
	}
	if runtime.GOOS == "darwin" {
		return fmt.Sprintf("%s%s.%d%s", LibraryPrefix, name, version, LibraryExtension)
	}
	return fmt.Sprintf("%s%s%s.%d", LibraryPrefix, name, LibraryExtension, version)
}

// String describes the platform for diagnostics, e.g. "linux/amd64".
func String() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
