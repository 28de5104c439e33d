//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/obinnaokechukwu/spgo/sp"
)

// Type tags.
const (
	TypeAlbum             = "album"
	TypeArtist            = "artist"
	TypeImage             = "image"
	TypeLink              = "link"
	TypePlaylist          = "playlist"
	TypePlaylistContainer = "playlistcontainer"
	TypeTrack             = "track"
	TypeUser              = "user"

	// TypeSession is created once per process and released by
	// Session.Release, never by the garbage collector.
	TypeSession = "session"
)

// Types returns the managed types for every libspotify object with
// add_ref/release entry points, plus the session.
func Types() []managed.Type {
	types := make([]managed.Type, 0, len(sp.RefCounted)+1)
	for _, tag := range sp.RefCounted {
		tag := tag
		types = append(types, managed.Type{
			Name:    tag,
			AddRef:  func(addr uintptr) error { return sp.AddRef(tag, addr) },
			Release: func(addr uintptr) error { return sp.Release(tag, addr) },
		})
	}
	types = append(types, managed.Type{
		Name:              TypeSession,
		Release:           sp.SessionRelease,
		AutoReleaseExempt: true,
	})
	return types
}

// NewRegistry returns a registry holding Types.
func NewRegistry() *managed.Registry {
	r, err := managed.NewRegistry(Types()...)
	if err != nil {
		// Types is static; this only fires on a broken build.
		panic(err)
	}
	return r
}
