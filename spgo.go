//go:build (darwin || linux) && (amd64 || arm64)

// Package spgo provides bindings to libspotify without cgo.
//
// Every libspotify object is returned as a Go value holding one reference to
// the native object. The reference is dropped when the value is garbage
// collected, or earlier through Free. All native calls are made from a single
// OS thread owned by a managed.Runtime; Init creates the default one.
//
// Basic usage:
//
//	if err := spgo.Init(); err != nil {
//		log.Fatal(err)
//	}
//	defer spgo.Shutdown(5 * time.Second)
//
//	session, err := spgo.NewSession(spgo.SessionConfig{
//		ApplicationKey: key,
//		UserAgent:      "example",
//	})
package spgo

import (
	"sync"
	"time"

	"github.com/obinnaokechukwu/spgo/internal/bindings"
	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/obinnaokechukwu/spgo/sp"
)

var (
	defaultMu sync.Mutex
	defaultRT *managed.Runtime
)

// Init loads libspotify and starts the default runtime. It is safe to call
// multiple times.
func Init() error {
	if err := bindings.Load(); err != nil {
		return err
	}
	Default()
	return nil
}

// IsLoaded returns true if libspotify has been successfully loaded.
func IsLoaded() bool {
	return bindings.IsLoaded()
}

// LibraryPath returns the path libspotify was loaded from.
func LibraryPath() string {
	return bindings.Path()
}

// LocateLibrary returns the libspotify file Init would try first, without
// loading it.
func LocateLibrary() (string, error) {
	return bindings.FindLibrary("spotify", bindings.Versions)
}

// BuildID returns the libspotify build string, or "" if not loaded.
func BuildID() string {
	var id string
	if err := Default().Invoke(func() { id = sp.BuildID() }); err != nil {
		return ""
	}
	return id
}

// Default returns the process-wide runtime, starting it if needed.
func Default() *managed.Runtime {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRT == nil {
		defaultRT = NewRuntime()
	}
	return defaultRT
}

// NewRuntime starts a runtime that knows every libspotify handle type.
// Options are applied after the registry, so WithRegistry overrides it.
func NewRuntime(opts ...managed.Option) *managed.Runtime {
	opts = append([]managed.Option{managed.WithRegistry(NewRegistry())}, opts...)
	return managed.NewRuntime(opts...)
}

// Shutdown stops the default runtime, waiting at most wait for pending
// releases. On timeout the runtime keeps running and the error is returned;
// Shutdown may be called again.
func Shutdown(wait time.Duration) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRT == nil {
		return nil
	}
	if err := defaultRT.Close(wait); err != nil {
		return err
	}
	defaultRT = nil
	return nil
}
