//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/obinnaokechukwu/spgo/sp"
)

// Playlist is an sp_playlist.
type Playlist struct {
	ptr *managed.Pointer
}

func (p *Playlist) IsLoaded() bool { return getBool(p.ptr, sp.PlaylistIsLoaded) }
func (p *Playlist) Name() string   { return getString(p.ptr, sp.PlaylistName) }
func (p *Playlist) NumTracks() int { return getInt(p.ptr, sp.PlaylistNumTracks) }

// Track returns track i of the playlist.
func (p *Playlist) Track(i int) (*Track, error) {
	tp, err := peek(p.ptr, TypeTrack, func(a uintptr) uintptr { return sp.PlaylistTrack(a, i) })
	if err != nil {
		return nil, err
	}
	return &Track{ptr: tp}, nil
}

func (p *Playlist) Pointer() *managed.Pointer { return p.ptr }
func (p *Playlist) Free() error               { return p.ptr.Free() }

// PlaylistContainer is an sp_playlistcontainer, the list of a user's
// playlists.
type PlaylistContainer struct {
	ptr *managed.Pointer
}

func (c *PlaylistContainer) IsLoaded() bool { return getBool(c.ptr, sp.PlaylistContainerIsLoaded) }

func (c *PlaylistContainer) NumPlaylists() int {
	return getInt(c.ptr, sp.PlaylistContainerNumPlaylists)
}

// Playlist returns playlist i. Folder markers yield ErrNotAvailable.
func (c *PlaylistContainer) Playlist(i int) (*Playlist, error) {
	p, err := peek(c.ptr, TypePlaylist, func(a uintptr) uintptr { return sp.PlaylistContainerPlaylist(a, i) })
	if err != nil {
		return nil, err
	}
	return &Playlist{ptr: p}, nil
}

func (c *PlaylistContainer) Pointer() *managed.Pointer { return c.ptr }
func (c *PlaylistContainer) Free() error               { return c.ptr.Free() }
