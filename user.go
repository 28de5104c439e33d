//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/obinnaokechukwu/spgo/sp"
)

// User is an sp_user.
type User struct {
	ptr *managed.Pointer
}

// CanonicalName returns the user's login name.
func (u *User) CanonicalName() string { return getString(u.ptr, sp.UserCanonicalName) }

// DisplayName returns the user's display name, or the canonical name if the
// metadata isn't loaded yet.
func (u *User) DisplayName() string { return getString(u.ptr, sp.UserDisplayName) }

func (u *User) IsLoaded() bool { return getBool(u.ptr, sp.UserIsLoaded) }

// Pointer returns the managed handle.
func (u *User) Pointer() *managed.Pointer { return u.ptr }

// Free drops the reference now.
func (u *User) Free() error { return u.ptr.Free() }
