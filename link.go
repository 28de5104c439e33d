//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/obinnaokechukwu/spgo/sp"
)

// LinkType is sp_linktype.
type LinkType = sp.LinkType

const (
	LinkTypeInvalid  = sp.LinkTypeInvalid
	LinkTypeTrack    = sp.LinkTypeTrack
	LinkTypeAlbum    = sp.LinkTypeAlbum
	LinkTypeArtist   = sp.LinkTypeArtist
	LinkTypePlaylist = sp.LinkTypePlaylist
	LinkTypeProfile  = sp.LinkTypeProfile
	LinkTypeImage    = sp.LinkTypeImage
)

// Link is an sp_link, a parsed Spotify URI.
type Link struct {
	ptr *managed.Pointer
}

// String returns the URI.
func (l *Link) String() string { return getString(l.ptr, sp.LinkAsString) }

func (l *Link) Type() LinkType {
	var t LinkType
	_ = l.ptr.Do(func(a uintptr) { t = sp.LinkTypeOf(a) })
	return t
}

// Track returns the track the link points to.
func (l *Link) Track() (*Track, error) {
	p, err := peek(l.ptr, TypeTrack, sp.LinkAsTrack)
	if err != nil {
		return nil, err
	}
	return &Track{ptr: p}, nil
}

func (l *Link) Album() (*Album, error) {
	p, err := peek(l.ptr, TypeAlbum, sp.LinkAsAlbum)
	if err != nil {
		return nil, err
	}
	return &Album{ptr: p}, nil
}

func (l *Link) Artist() (*Artist, error) {
	p, err := peek(l.ptr, TypeArtist, sp.LinkAsArtist)
	if err != nil {
		return nil, err
	}
	return &Artist{ptr: p}, nil
}

func (l *Link) User() (*User, error) {
	p, err := peek(l.ptr, TypeUser, sp.LinkAsUser)
	if err != nil {
		return nil, err
	}
	return &User{ptr: p}, nil
}

func (l *Link) Pointer() *managed.Pointer { return l.ptr }
func (l *Link) Free() error               { return l.ptr.Free() }
