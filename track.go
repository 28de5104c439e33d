//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"time"

	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/obinnaokechukwu/spgo/sp"
)

// Track is an sp_track. Most accessors return zero values until IsLoaded.
type Track struct {
	ptr *managed.Pointer
}

func (t *Track) IsLoaded() bool { return getBool(t.ptr, sp.TrackIsLoaded) }

// Error returns nil once the track is loaded, an error matching IsLoading
// before that, or the reason loading failed.
func (t *Track) Error() error {
	var err error
	if derr := t.ptr.Do(func(a uintptr) { err = sp.TrackError(a) }); derr != nil {
		return derr
	}
	return err
}

func (t *Track) Name() string { return getString(t.ptr, sp.TrackName) }

func (t *Track) Duration() time.Duration {
	return time.Duration(getInt(t.ptr, sp.TrackDuration)) * time.Millisecond
}

// Popularity is in the range 0-100.
func (t *Track) Popularity() int { return getInt(t.ptr, sp.TrackPopularity) }

func (t *Track) NumArtists() int { return getInt(t.ptr, sp.TrackNumArtists) }

// Artist returns artist i of the track.
func (t *Track) Artist(i int) (*Artist, error) {
	p, err := peek(t.ptr, TypeArtist, func(a uintptr) uintptr { return sp.TrackArtist(a, i) })
	if err != nil {
		return nil, err
	}
	return &Artist{ptr: p}, nil
}

// Artists returns all artists of the track.
func (t *Track) Artists() ([]*Artist, error) {
	n := t.NumArtists()
	artists := make([]*Artist, 0, n)
	for i := 0; i < n; i++ {
		a, err := t.Artist(i)
		if err != nil {
			return nil, err
		}
		artists = append(artists, a)
	}
	return artists, nil
}

func (t *Track) Album() (*Album, error) {
	p, err := peek(t.ptr, TypeAlbum, sp.TrackAlbum)
	if err != nil {
		return nil, err
	}
	return &Album{ptr: p}, nil
}

// Link returns a link to the track starting at offset.
func (t *Track) Link(offset time.Duration) (*Link, error) {
	ms := int(offset / time.Millisecond)
	p, err := create(t.ptr, TypeLink, func(a uintptr) uintptr { return sp.LinkCreateFromTrack(a, ms) })
	if err != nil {
		return nil, err
	}
	return &Link{ptr: p}, nil
}

// Pointer returns the managed handle.
func (t *Track) Pointer() *managed.Pointer { return t.ptr }

// Free drops the reference now.
func (t *Track) Free() error { return t.ptr.Free() }
