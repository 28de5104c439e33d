//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/obinnaokechukwu/spgo/sp"
)

// Album is an sp_album.
type Album struct {
	ptr *managed.Pointer
}

func (a *Album) IsLoaded() bool { return getBool(a.ptr, sp.AlbumIsLoaded) }
func (a *Album) Name() string   { return getString(a.ptr, sp.AlbumName) }
func (a *Album) Year() int      { return getInt(a.ptr, sp.AlbumYear) }

func (a *Album) Artist() (*Artist, error) {
	p, err := peek(a.ptr, TypeArtist, sp.AlbumArtist)
	if err != nil {
		return nil, err
	}
	return &Artist{ptr: p}, nil
}

func (a *Album) Pointer() *managed.Pointer { return a.ptr }
func (a *Album) Free() error               { return a.ptr.Free() }

// Artist is an sp_artist.
type Artist struct {
	ptr *managed.Pointer
}

func (a *Artist) IsLoaded() bool            { return getBool(a.ptr, sp.ArtistIsLoaded) }
func (a *Artist) Name() string              { return getString(a.ptr, sp.ArtistName) }
func (a *Artist) Pointer() *managed.Pointer { return a.ptr }
func (a *Artist) Free() error               { return a.ptr.Free() }
