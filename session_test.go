//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() SessionConfig {
	return SessionConfig{
		ApplicationKey: []byte{1, 2, 3},
		UserAgent:      "spgo-test",
	}
}

func TestSessionConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *SessionConfig)
		ok     bool
	}{
		{"valid", func(c *SessionConfig) {}, true},
		{"no key", func(c *SessionConfig) { c.ApplicationKey = nil }, false},
		{"no user agent", func(c *SessionConfig) { c.UserAgent = "" }, false},
		{"long user agent", func(c *SessionConfig) { c.UserAgent = strings.Repeat("a", 256) }, false},
		{"proxy user without proxy", func(c *SessionConfig) { c.ProxyUsername = "bob" }, false},
		{"proxy with user", func(c *SessionConfig) { c.Proxy = "proxy:8080"; c.ProxyUsername = "bob" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)
			err := c.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestNewSessionInvalidConfig(t *testing.T) {
	before := sessions.Count()
	_, err := NewSession(SessionConfig{UserAgent: "x"})
	assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
	assert.Equal(t, before, sessions.Count())
}

func TestNewSessionNotLoaded(t *testing.T) {
	if IsLoaded() {
		t.Skip("libspotify is loaded")
	}
	rt := NewRuntime()
	t.Cleanup(func() { _ = rt.Close(time.Second) })

	before := sessions.Count()
	_, err := NewSession(validConfig(), WithRuntime(rt), WithLogger(&captureLogger{}))
	assert.True(t, errors.Is(err, ErrNotLoaded), "got %v", err)
	assert.Equal(t, before, sessions.Count(), "failed session must not stay registered")
}

func TestReleasedSession(t *testing.T) {
	s := &Session{notify: make(chan struct{}, 1)}
	s.released.Store(true)

	assert.Equal(t, ErrSessionReleased, s.Login("user", "pass", false))
	assert.Equal(t, ErrSessionReleased, s.Logout())
	_, err := s.ProcessEvents()
	assert.Equal(t, ErrSessionReleased, err)
	assert.Equal(t, ErrSessionReleased, s.Run(context.Background()))

	_, err = s.User()
	assert.Equal(t, ErrSessionReleased, err)
	_, err = s.PlaylistContainer()
	assert.Equal(t, ErrSessionReleased, err)
	_, err = s.Starred()
	assert.Equal(t, ErrSessionReleased, err)
	_, err = s.Link("spotify:track:6JEK0CvvjDjjMUBFoXShNZ")
	assert.True(t, errors.Is(err, ErrSessionReleased), "got %v", err)

	assert.NoError(t, s.Release())
}

func TestSessionAccessorsAfterRelease(t *testing.T) {
	rt, f := newFakeRuntime(t, TypeSession, TypeUser, TypePlaylistContainer, TypePlaylist, TypeLink)

	ptr, err := rt.Wrap(0x1000, TypeSession)
	require.NoError(t, err)
	s := &Session{ptr: ptr, rt: rt, log: &captureLogger{}, notify: make(chan struct{}, 1)}

	require.NoError(t, s.Release())
	require.NoError(t, s.Release())
	assert.EqualValues(t, 1, f.releases[TypeSession].Load())

	_, err = s.User()
	assert.Equal(t, ErrSessionReleased, err)
	_, err = s.PlaylistContainer()
	assert.Equal(t, ErrSessionReleased, err)
	_, err = s.Starred()
	assert.Equal(t, ErrSessionReleased, err)
	_, err = s.Link("spotify:track:6JEK0CvvjDjjMUBFoXShNZ")
	assert.True(t, errors.Is(err, ErrSessionReleased), "got %v", err)
	assert.EqualValues(t, 0, f.addRefs[TypeUser].Load())
	assert.EqualValues(t, 0, f.addRefs[TypePlaylistContainer].Load())
}

func TestSessionPointerFreedUnderneath(t *testing.T) {
	rt, f := newFakeRuntime(t, TypeSession, TypeUser)

	ptr, err := rt.Wrap(0x1000, TypeSession)
	require.NoError(t, err)
	s := &Session{ptr: ptr, rt: rt, log: &captureLogger{}, notify: make(chan struct{}, 1)}

	// The session flag is still clear; the guard on the pointer must hold.
	require.NoError(t, ptr.Free())

	assert.Equal(t, ErrSessionReleased, s.Logout())
	_, err = s.ProcessEvents()
	assert.Equal(t, ErrSessionReleased, err)
	_, err = s.User()
	assert.Equal(t, ErrSessionReleased, err)
	assert.EqualValues(t, 0, f.addRefs[TypeUser].Load())
	assert.EqualValues(t, 1, f.releases[TypeSession].Load())
}

func TestSessionWakeNeverBlocks(t *testing.T) {
	s := &Session{notify: make(chan struct{}, 1)}
	for i := 0; i < 3; i++ {
		s.wake()
	}
	assert.Len(t, s.notify, 1)
}

func TestDispatchRecoversPanic(t *testing.T) {
	l := &captureLogger{}
	s := &Session{log: l, notify: make(chan struct{}, 1)}
	id := sessions.Register(s)
	t.Cleanup(func() { sessions.Unregister(id) })

	assert.NotPanics(t, func() {
		dispatchID(id, "end_of_track", func(*Session) { panic("callback exploded") })
	})
	assert.Equal(t, 1, l.count(regexp.MustCompile(`end_of_track callback panicked: callback exploded`)))

	var got *Session
	dispatchID(id, "metadata_updated", func(s *Session) { got = s })
	assert.Same(t, s, got)

	got = nil
	dispatchID(id+1000, "metadata_updated", func(s *Session) { got = s })
	assert.Nil(t, got)
}

func TestSessionLifecycle(t *testing.T) {
	key := requireAppKey(t)

	l := &captureLogger{}
	cfg := SessionConfig{
		ApplicationKey:   key,
		UserAgent:        "spgo-test",
		CacheLocation:    t.TempDir(),
		SettingsLocation: t.TempDir(),
	}
	s, err := NewSession(cfg, WithLogger(l))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, s.Release()) })

	assert.Equal(t, "logged_out", s.ConnectionState().String())

	_, err = s.ProcessEvents()
	require.NoError(t, err)

	link, err := s.Link("spotify:track:6JEK0CvvjDjjMUBFoXShNZ")
	require.NoError(t, err)
	assert.Equal(t, LinkTypeTrack, link.Type())
	assert.Equal(t, "spotify:track:6JEK0CvvjDjjMUBFoXShNZ", link.String())

	track, err := link.Track()
	require.NoError(t, err)
	require.NoError(t, link.Free())
	require.NoError(t, track.Free())

	_, err = s.Link("not a uri")
	assert.True(t, errors.Is(err, ErrNotAvailable), "got %v", err)
}
