//go:build (darwin || linux) && (amd64 || arm64)

// Package bindings loads the libspotify shared library with purego.
package bindings

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/spgo/internal/platform"
	"github.com/pkg/errors"
)

// ErrNotLoaded is returned when libspotify functions are called before Load().
var ErrNotLoaded = errors.New("spgo: libspotify not loaded; call spgo.Init() first")

// ErrLibraryNotFound is returned when libspotify cannot be found.
var ErrLibraryNotFound = errors.New("spgo: libspotify not found")

// EnvLibraryDir names a directory searched before any other.
const EnvLibraryDir = "SPGO_LIBSPOTIFY_DIR"

// Versions of the shared object tried, newest first. 12 is the last
// released ABI.
var Versions = []int{12}

var (
	libSpotify uintptr
	libPath    string

	loaded   bool
	loadOnce sync.Once
	loadErr  error
)

// IsLoaded returns true if libspotify has been successfully loaded.
func IsLoaded() bool {
	return loaded
}

// Load loads libspotify. It is safe to call multiple times; subsequent calls
// return the first result.
func Load() error {
	loadOnce.Do(func() {
		libSpotify, libPath, loadErr = loadLibrary("spotify", Versions)
		if loadErr == nil {
			loaded = true
		}
	})
	return loadErr
}

// loadLibrary attempts to load a library by trying versioned names.
func loadLibrary(name string, versions []int) (uintptr, string, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, candidate := range candidates(name, versions) {
			fullPath := filepath.Join(searchPath, candidate)
			if lib, err := tryOpen(fullPath); err == nil {
				return lib, fullPath, nil
			}
		}
	}

	// Let the dynamic loader search on its own.
	for _, candidate := range candidates(name, versions) {
		if lib, err := tryOpen(candidate); err == nil {
			return lib, candidate, nil
		}
	}

	return 0, "", errors.Wrapf(ErrLibraryNotFound, "lib%s on %s (set %s)", name, platform.String(), EnvLibraryDir)
}

// candidates lists file names for name, versioned ones first. On Darwin the
// library ships as a framework as well.
func candidates(name string, versions []int) []string {
	var names []string
	for _, ver := range versions {
		names = append(names, platform.FormatLibraryName(name, ver))
	}
	names = append(names, platform.FormatLibraryName(name, 0))
	if runtime.GOOS == "darwin" {
		names = append(names, "libspotify.framework/libspotify")
	}
	return names
}

func tryOpen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

// FindLibrary searches for a library and returns its full path.
// This is useful for diagnostics.
func FindLibrary(name string, versions []int) (string, error) {
	for _, searchPath := range LibrarySearchPaths() {
		for _, candidate := range candidates(name, versions) {
			fullPath := filepath.Join(searchPath, candidate)
			if _, err := os.Stat(fullPath); err == nil {
				return fullPath, nil
			}
		}
	}
	return "", errors.Wrap(ErrLibraryNotFound, name)
}

// LibrarySearchPaths returns platform-specific library search paths.
func LibrarySearchPaths() []string {
	var paths []string

	if dir := os.Getenv(EnvLibraryDir); dir != "" {
		paths = append(paths, filepath.SplitList(dir)...)
	}

	switch runtime.GOOS {
	case "linux":
		if ldPath := os.Getenv("LD_LIBRARY_PATH"); ldPath != "" {
			paths = append(paths, filepath.SplitList(ldPath)...)
		}
		paths = append(paths,
			"/usr/local/lib",
			"/usr/lib/x86_64-linux-gnu",
			"/usr/lib/aarch64-linux-gnu",
			"/usr/lib",
			"/lib",
		)

	case "darwin":
		if dyldPath := os.Getenv("DYLD_LIBRARY_PATH"); dyldPath != "" {
			paths = append(paths, filepath.SplitList(dyldPath)...)
		}
		paths = append(paths,
			"/opt/homebrew/lib",
			"/usr/local/lib",
			"/Library/Frameworks",
		)
	}

	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Dir(exe))
	}
	return paths
}

// Lib returns the libspotify handle.
func Lib() uintptr {
	return libSpotify
}

// Path returns where libspotify was loaded from.
func Path() string {
	return libPath
}

// RegisterFunc binds fptr to the libspotify symbol name.
func RegisterFunc(fptr any, name string) {
	purego.RegisterLibFunc(fptr, libSpotify, name)
}

// RegisterOptionalFunc is RegisterFunc that leaves fptr nil when the symbol
// is missing.
func RegisterOptionalFunc(fptr any, name string) {
	defer func() {
		_ = recover() // purego.RegisterLibFunc panics if symbol is missing
	}()
	purego.RegisterLibFunc(fptr, libSpotify, name)
}
