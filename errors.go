//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"github.com/obinnaokechukwu/spgo/internal/bindings"
	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/obinnaokechukwu/spgo/reaper"
	"github.com/obinnaokechukwu/spgo/sp"
	"github.com/pkg/errors"
)

// Error is a failed libspotify call.
// It contains the raw sp_error code and libspotify's message.
type Error = sp.Error

// ErrorCode is sp_error.
type ErrorCode = sp.ErrorCode

// Common errors
var (
	// ErrNotLoaded indicates libspotify is not loaded.
	ErrNotLoaded = bindings.ErrNotLoaded

	// ErrLibraryNotFound indicates no libspotify was found on the search path.
	ErrLibraryNotFound = bindings.ErrLibraryNotFound

	// ErrClosed indicates the runtime has been closed.
	ErrClosed = managed.ErrClosed

	// ErrReleased is returned when a handle is used after Free.
	ErrReleased = managed.ErrReleased

	// ErrInvalidType matches errors for unknown or unusable type tags.
	ErrInvalidType = managed.ErrInvalidType

	// ErrTerminationTimeout is returned by Shutdown when pending releases
	// did not finish in time.
	ErrTerminationTimeout = reaper.ErrTerminationTimeout

	// ErrInvalidTerminationWait is returned by Shutdown for unbounded waits.
	ErrInvalidTerminationWait = reaper.ErrInvalidTerminationWait

	// ErrSessionReleased indicates the session has been released.
	ErrSessionReleased = errors.New("spgo: session released")

	// ErrNotAvailable indicates libspotify returned no object, usually because
	// metadata is still loading or the index is out of range.
	ErrNotAvailable = errors.New("spgo: object not available")

	// ErrInvalidConfig indicates a SessionConfig failed validation.
	ErrInvalidConfig = errors.New("spgo: invalid session config")
)

// Code returns the sp_error from an error, or ErrorOK.
func Code(err error) ErrorCode {
	return sp.Code(err)
}

// IsLoading reports whether err means the object is still loading.
func IsLoading(err error) bool {
	return sp.IsLoading(err)
}
