//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/obinnaokechukwu/spgo/sp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	types := Types()
	require.Len(t, types, len(sp.RefCounted)+1)

	exempt := 0
	for _, typ := range types {
		if typ.AutoReleaseExempt {
			exempt++
			assert.Equal(t, TypeSession, typ.Name)
			assert.Nil(t, typ.AddRef)
			continue
		}
		assert.NotNil(t, typ.AddRef, typ.Name)
		assert.NotNil(t, typ.Release, typ.Name)
	}
	assert.Equal(t, 1, exempt)

	names := NewRegistry().Names()
	for _, tag := range []string{TypeAlbum, TypeArtist, TypeImage, TypeLink, TypePlaylist, TypePlaylistContainer, TypeTrack, TypeUser, TypeSession} {
		assert.Contains(t, names, tag)
	}
}

func TestNewRuntime(t *testing.T) {
	rt := NewRuntime(managed.WithIdleInterval(5 * time.Millisecond))
	t.Cleanup(func() { _ = rt.Close(time.Second) })

	_, err := rt.Types().Lookup(TypeTrack)
	require.NoError(t, err)

	p, err := rt.Wrap(0, TypeTrack)
	require.NoError(t, err)
	assert.True(t, p.IsNull())

	_, err = rt.Wrap(0x10, "bogus")
	assert.True(t, errors.Is(err, ErrInvalidType), "got %v", err)

	// The session cannot be retained: it has no add_ref.
	_, err = rt.Retain(0x10, TypeSession)
	assert.True(t, errors.Is(err, ErrInvalidType), "got %v", err)
}

func TestShutdown(t *testing.T) {
	first := Default()
	assert.Same(t, first, Default())

	err := Shutdown(0)
	assert.True(t, errors.Is(err, ErrInvalidTerminationWait), "got %v", err)

	require.NoError(t, Shutdown(time.Second))
	require.NoError(t, Shutdown(time.Second))

	second := Default()
	assert.NotSame(t, first, second)
	t.Cleanup(func() { _ = Shutdown(time.Second) })

	assert.True(t, errors.Is(first.Invoke(func() {}), ErrClosed))
}

// fakeTypes counts add_ref and release calls per tag.
type fakeTypes struct {
	addRefs  map[string]*atomic.Int32
	releases map[string]*atomic.Int32
}

func newFakeRuntime(t *testing.T, tags ...string) (*managed.Runtime, *fakeTypes) {
	t.Helper()
	f := &fakeTypes{
		addRefs:  make(map[string]*atomic.Int32),
		releases: make(map[string]*atomic.Int32),
	}
	reg := &managed.Registry{}
	for _, tag := range tags {
		add, rel := &atomic.Int32{}, &atomic.Int32{}
		f.addRefs[tag], f.releases[tag] = add, rel
		reg.MustRegister(managed.Type{
			Name:    tag,
			AddRef:  func(uintptr) error { add.Add(1); return nil },
			Release: func(uintptr) error { rel.Add(1); return nil },
		})
	}
	rt := managed.NewRuntime(
		managed.WithRegistry(reg),
		managed.WithIdleInterval(5*time.Millisecond),
		managed.WithLogger(&captureLogger{}),
	)
	t.Cleanup(func() { _ = rt.Close(time.Second) })
	return rt, f
}

func TestPeekRetainsBorrowedObject(t *testing.T) {
	rt, f := newFakeRuntime(t, TypeTrack, TypeArtist)

	parent, err := rt.Wrap(0x10, TypeTrack)
	require.NoError(t, err)

	var onGate bool
	p, err := peek(parent, TypeArtist, func(addr uintptr) uintptr {
		onGate = rt.OnGate()
		assert.EqualValues(t, 0x10, addr)
		return 0x20
	})
	require.NoError(t, err)
	assert.True(t, onGate)
	assert.EqualValues(t, 0x20, p.Addr())
	assert.Equal(t, TypeArtist, p.Type())
	assert.EqualValues(t, 1, f.addRefs[TypeArtist].Load())
	assert.EqualValues(t, 0, f.addRefs[TypeTrack].Load())

	require.NoError(t, p.Free())
	require.NoError(t, parent.Free())
	assert.EqualValues(t, 1, f.releases[TypeArtist].Load())
	assert.EqualValues(t, 1, f.releases[TypeTrack].Load())
}

func TestPeekRetainsBeforeOtherCallsRun(t *testing.T) {
	var (
		dropped   atomic.Bool
		sawDrop   atomic.Bool
		addRefs   atomic.Int32
		nopRefcnt = func(uintptr) error { return nil }
	)
	reg := &managed.Registry{}
	reg.MustRegister(managed.Type{Name: TypePlaylist, AddRef: nopRefcnt, Release: nopRefcnt})
	reg.MustRegister(managed.Type{
		Name: TypeTrack,
		AddRef: func(uintptr) error {
			addRefs.Add(1)
			sawDrop.Store(dropped.Load())
			return nil
		},
		Release: nopRefcnt,
	})
	rt := managed.NewRuntime(managed.WithRegistry(reg), managed.WithLogger(&captureLogger{}))
	t.Cleanup(func() { _ = rt.Close(time.Second) })

	parent, err := rt.Wrap(0x10, TypePlaylist)
	require.NoError(t, err)

	// Another goroutine's native call, e.g. process_events removing the
	// track from the playlist, queues up while the track is being looked up.
	competing := make(chan error, 1)
	p, err := peek(parent, TypeTrack, func(uintptr) uintptr {
		go func() {
			competing <- rt.Invoke(func() { dropped.Store(true) })
		}()
		time.Sleep(20 * time.Millisecond)
		return 0x20
	})
	require.NoError(t, err)
	require.NoError(t, <-competing)

	assert.True(t, dropped.Load())
	assert.EqualValues(t, 1, addRefs.Load())
	assert.False(t, sawDrop.Load(), "track_add_ref ran after a competing native call")
	require.NoError(t, p.Free())
	require.NoError(t, parent.Free())
}

func TestPeekOnFreedParent(t *testing.T) {
	rt, f := newFakeRuntime(t, TypeTrack, TypeArtist)

	parent, err := rt.Wrap(0x10, TypeTrack)
	require.NoError(t, err)
	require.NoError(t, parent.Free())

	called := false
	_, err = peek(parent, TypeArtist, func(uintptr) uintptr { called = true; return 0x20 })
	assert.True(t, errors.Is(err, ErrReleased), "got %v", err)
	assert.False(t, called)
	assert.EqualValues(t, 0, f.addRefs[TypeArtist].Load())
	assert.Equal(t, "", getString(parent, func(uintptr) string { return "x" }))
}

func TestPeekNullIsNotAvailable(t *testing.T) {
	rt, f := newFakeRuntime(t, TypeTrack, TypeAlbum)

	parent, err := rt.Wrap(0x10, TypeTrack)
	require.NoError(t, err)

	_, err = peek(parent, TypeAlbum, func(uintptr) uintptr { return 0 })
	assert.True(t, errors.Is(err, ErrNotAvailable), "got %v", err)
	assert.EqualValues(t, 0, f.addRefs[TypeAlbum].Load())
}

func TestCreateTakesOwnership(t *testing.T) {
	rt, f := newFakeRuntime(t, TypePlaylist, TypeLink)

	parent, err := rt.Wrap(0x10, TypePlaylist)
	require.NoError(t, err)

	p, err := create(parent, TypeLink, func(uintptr) uintptr { return 0x30 })
	require.NoError(t, err)
	assert.EqualValues(t, 0, f.addRefs[TypeLink].Load())

	l := &Link{ptr: p}
	require.NoError(t, l.Free())
	require.NoError(t, l.Free())
	assert.EqualValues(t, 1, f.releases[TypeLink].Load())
}

func TestPeekAfterClose(t *testing.T) {
	rt, _ := newFakeRuntime(t, TypeTrack, TypeArtist)

	parent, err := rt.Wrap(0x10, TypeTrack)
	require.NoError(t, err)
	require.NoError(t, parent.Free())
	require.NoError(t, rt.Close(time.Second))

	_, err = peek(parent, TypeArtist, func(uintptr) uintptr { return 0x20 })
	assert.True(t, errors.Is(err, ErrClosed), "got %v", err)
	assert.Equal(t, "", getString(parent, func(uintptr) string { return "x" }))
}

func TestLibspotify(t *testing.T) {
	requireLibspotify(t)

	assert.True(t, IsLoaded())
	assert.NotEmpty(t, LibraryPath())
	assert.NotEmpty(t, BuildID())
}
