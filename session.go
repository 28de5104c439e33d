//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/obinnaokechukwu/spgo/internal/handles"
	"github.com/obinnaokechukwu/spgo/managed"
	"github.com/obinnaokechukwu/spgo/sp"
	"github.com/pkg/errors"
)

// Re-exported libspotify enums.
type (
	ConnectionState = sp.ConnectionState
	Bitrate         = sp.Bitrate
	AudioFormat     = sp.AudioFormat
)

const (
	Bitrate96k  = sp.Bitrate96k
	Bitrate160k = sp.Bitrate160k
	Bitrate320k = sp.Bitrate320k
)

// SessionConfig configures NewSession. It mirrors sp_session_config.
type SessionConfig struct {
	// ApplicationKey is the binary key issued by Spotify. Required.
	ApplicationKey []byte

	// UserAgent identifies the application. Required, at most 255 bytes.
	UserAgent string

	// CacheLocation and SettingsLocation default to libspotify's choice when empty.
	CacheLocation    string
	SettingsLocation string

	CompressPlaylists            bool
	DontSaveMetadataForPlaylists bool
	InitiallyUnloadPlaylists     bool

	DeviceID string

	Proxy         string
	ProxyUsername string
	ProxyPassword string

	CACertsFilename string
	TraceFile       string

	Callbacks SessionCallbacks
}

const maxUserAgentLen = 255

// Validate checks the config before any native call is made.
func (c *SessionConfig) Validate() error {
	if len(c.ApplicationKey) == 0 {
		return errors.Wrap(ErrInvalidConfig, "application key is required")
	}
	if c.UserAgent == "" {
		return errors.Wrap(ErrInvalidConfig, "user agent is required")
	}
	if len(c.UserAgent) > maxUserAgentLen {
		return errors.Wrapf(ErrInvalidConfig, "user agent longer than %d bytes", maxUserAgentLen)
	}
	if c.ProxyUsername != "" && c.Proxy == "" {
		return errors.Wrap(ErrInvalidConfig, "proxy username without proxy")
	}
	return nil
}

// SessionCallbacks receives session events. All fields are optional.
//
// Callbacks run on the runtime's call thread while ProcessEvents is active,
// so they may call back into the session. They must not block.
type SessionCallbacks struct {
	LoggedIn               func(s *Session, err error)
	LoggedOut              func(s *Session)
	MetadataUpdated        func(s *Session)
	ConnectionError        func(s *Session, err error)
	MessageToUser          func(s *Session, message string)
	PlayTokenLost          func(s *Session)
	EndOfTrack             func(s *Session)
	StreamingError         func(s *Session, err error)
	UserinfoUpdated        func(s *Session)
	ConnectionStateUpdated func(s *Session)
	CredentialsBlobUpdated func(s *Session, blob string)

	// MusicDelivery receives interleaved 16-bit PCM. frames is only valid
	// during the call. It returns the number of frames consumed; 0 asks
	// libspotify to deliver them again later.
	MusicDelivery func(s *Session, format AudioFormat, frames []byte, numFrames int) int

	// LogMessage replaces forwarding to the session Logger.
	LogMessage func(s *Session, m LogMessage)
}

// SessionOption configures NewSession.
type SessionOption func(*sessionOptions)

type sessionOptions struct {
	rt  *managed.Runtime
	log Logger
}

// WithRuntime makes the session use rt instead of the default runtime.
func WithRuntime(rt *managed.Runtime) SessionOption {
	return func(o *sessionOptions) {
		o.rt = rt
	}
}

// WithLogger sets the logger for session diagnostics.
func WithLogger(l Logger) SessionOption {
	return func(o *sessionOptions) {
		o.log = l
	}
}

// sessions maps sp_session_config.userdata back to the Session.
var sessions handles.Table[*Session]

// Session is an sp_session. libspotify supports one session per process.
type Session struct {
	ptr *managed.Pointer
	rt  *managed.Runtime
	id  uintptr

	cb  SessionCallbacks
	log Logger

	notify   chan struct{}
	released atomic.Bool
}

// NewSession creates a session. It does not log in.
func NewSession(cfg SessionConfig, opts ...SessionOption) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := sessionOptions{log: DefaultLogger}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rt == nil {
		o.rt = Default()
	}
	if o.log == nil {
		o.log = DefaultLogger
	}

	table := sessionCallbacks()

	s := &Session{
		rt:     o.rt,
		cb:     cfg.Callbacks,
		log:    o.log,
		notify: make(chan struct{}, 1),
	}
	s.id = sessions.Register(s)

	// Buffers referenced by the C config; libspotify copies them.
	var pins [][]byte
	cstr := func(v string) uintptr {
		if v == "" {
			return 0
		}
		b := sp.CString(v)
		pins = append(pins, b)
		return sp.Addr(b)
	}

	c := sp.SessionConfig{
		APIVersion:                   sp.APIVersion,
		CacheLocation:                cstr(cfg.CacheLocation),
		SettingsLocation:             cstr(cfg.SettingsLocation),
		ApplicationKey:               sp.Addr(cfg.ApplicationKey),
		ApplicationKeySize:           uintptr(len(cfg.ApplicationKey)),
		UserAgent:                    cstr(cfg.UserAgent),
		Callbacks:                    table,
		Userdata:                     s.id,
		CompressPlaylists:            cfg.CompressPlaylists,
		DontSaveMetadataForPlaylists: cfg.DontSaveMetadataForPlaylists,
		InitiallyUnloadPlaylists:     cfg.InitiallyUnloadPlaylists,
		DeviceID:                     cstr(cfg.DeviceID),
		Proxy:                        cstr(cfg.Proxy),
		ProxyUsername:                cstr(cfg.ProxyUsername),
		ProxyPassword:                cstr(cfg.ProxyPassword),
		CACertsFilename:              cstr(cfg.CACertsFilename),
		Tracefile:                    cstr(cfg.TraceFile),
	}

	var addr uintptr
	err := s.rt.Call(func() error {
		var err error
		addr, err = sp.SessionCreate(&c)
		return err
	})
	runtime.KeepAlive(pins)
	runtime.KeepAlive(cfg.ApplicationKey)
	if err != nil {
		sessions.Unregister(s.id)
		return nil, errors.Wrap(err, "spgo: create session")
	}

	s.ptr, err = s.rt.Wrap(addr, TypeSession)
	if err != nil {
		// Only reachable with a custom registry lacking the session type.
		_ = s.rt.Call(func() error { return sp.SessionRelease(addr) })
		sessions.Unregister(s.id)
		return nil, err
	}
	return s, nil
}

// Runtime returns the runtime the session's calls go through.
func (s *Session) Runtime() *managed.Runtime {
	return s.rt
}

// Pointer returns the managed sp_session handle.
func (s *Session) Pointer() *managed.Pointer {
	return s.ptr
}

// call runs fn on the gate with the session address.
func (s *Session) call(fn func(addr uintptr) error) error {
	if s.released.Load() {
		return ErrSessionReleased
	}
	var err error
	if gerr := s.ptr.Do(func(addr uintptr) { err = fn(addr) }); gerr != nil {
		return sessionErr(gerr)
	}
	return err
}

// child wraps an object obtained from the session, borrowed or owned.
func (s *Session) child(tag string, borrowed bool, fn func(addr uintptr) uintptr) (*managed.Pointer, error) {
	if s.released.Load() {
		return nil, ErrSessionReleased
	}
	wrap := create
	if borrowed {
		wrap = peek
	}
	p, err := wrap(s.ptr, tag, fn)
	if err != nil {
		return nil, sessionErr(err)
	}
	return p, nil
}

// sessionErr reports a freed session pointer as ErrSessionReleased.
func sessionErr(err error) error {
	if errors.Is(err, managed.ErrReleased) {
		return ErrSessionReleased
	}
	return err
}

// Login starts an asynchronous login. The result arrives through
// SessionCallbacks.LoggedIn.
func (s *Session) Login(username, password string, rememberMe bool) error {
	return s.call(func(addr uintptr) error {
		return sp.SessionLogin(addr, username, password, rememberMe, "")
	})
}

// LoginBlob logs in with a credentials blob from CredentialsBlobUpdated.
func (s *Session) LoginBlob(username, blob string) error {
	return s.call(func(addr uintptr) error {
		return sp.SessionLogin(addr, username, "", false, blob)
	})
}

// Relogin logs in the remembered user.
func (s *Session) Relogin() error {
	return s.call(sp.SessionRelogin)
}

// Logout starts an asynchronous logout.
func (s *Session) Logout() error {
	return s.call(sp.SessionLogout)
}

// ForgetMe removes the remembered user's credentials.
func (s *Session) ForgetMe() error {
	return s.call(sp.SessionForgetMe)
}

// RememberedUser returns the user Relogin would use, or "".
func (s *Session) RememberedUser() string {
	var name string
	_ = s.call(func(addr uintptr) error {
		name = sp.SessionRememberedUser(addr)
		return nil
	})
	return name
}

// ConnectionState returns the current connection state.
func (s *Session) ConnectionState() ConnectionState {
	state := sp.ConnectionStateUndefined
	_ = s.call(func(addr uintptr) error {
		state = sp.SessionConnectionState(addr)
		return nil
	})
	return state
}

// User returns the logged in user.
func (s *Session) User() (*User, error) {
	p, err := s.child(TypeUser, true, sp.SessionUser)
	if err != nil {
		return nil, err
	}
	return &User{ptr: p}, nil
}

// PlaylistContainer returns the logged in user's playlists.
func (s *Session) PlaylistContainer() (*PlaylistContainer, error) {
	p, err := s.child(TypePlaylistContainer, true, sp.SessionPlaylistContainer)
	if err != nil {
		return nil, err
	}
	return &PlaylistContainer{ptr: p}, nil
}

// Starred returns the logged in user's starred playlist.
func (s *Session) Starred() (*Playlist, error) {
	p, err := s.child(TypePlaylist, false, sp.SessionStarredCreate)
	if err != nil {
		return nil, err
	}
	return &Playlist{ptr: p}, nil
}

// Link parses a Spotify URI such as "spotify:track:...".
func (s *Session) Link(uri string) (*Link, error) {
	p, err := s.child(TypeLink, false, func(uintptr) uintptr {
		return sp.LinkCreateFromString(uri)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", uri)
	}
	return &Link{ptr: p}, nil
}

// Image returns the image a link of type image points to.
func (s *Session) Image(l *Link) (*Image, error) {
	var addr uintptr
	err := s.call(func(session uintptr) error {
		return l.ptr.Do(func(link uintptr) {
			addr = sp.ImageCreateFromLink(session, link)
		})
	})
	if err != nil {
		return nil, err
	}
	if addr == 0 {
		return nil, errors.Wrapf(ErrNotAvailable, "image for %s", l.ptr)
	}
	p, err := s.rt.Wrap(addr, TypeImage)
	if err != nil {
		return nil, err
	}
	return &Image{ptr: p}, nil
}

// PlayerLoad loads t for playback.
func (s *Session) PlayerLoad(t *Track) error {
	return s.call(func(session uintptr) error {
		var err error
		if derr := t.ptr.Do(func(track uintptr) {
			err = sp.SessionPlayerLoad(session, track)
		}); derr != nil {
			return derr
		}
		return err
	})
}

// PlayerPlay starts or pauses playback of the loaded track.
func (s *Session) PlayerPlay(play bool) error {
	return s.call(func(addr uintptr) error {
		return sp.SessionPlayerPlay(addr, play)
	})
}

// PlayerUnload stops playback and unloads the track.
func (s *Session) PlayerUnload() error {
	return s.call(sp.SessionPlayerUnload)
}

// SetPreferredBitrate sets the streaming bitrate.
func (s *Session) SetPreferredBitrate(b Bitrate) error {
	return s.call(func(addr uintptr) error {
		return sp.SessionPreferredBitrate(addr, b)
	})
}

// ProcessEvents runs libspotify's event pump once. Callbacks fire from
// inside it. It returns how long until it should be called again.
func (s *Session) ProcessEvents() (time.Duration, error) {
	var next int
	err := s.call(func(addr uintptr) error {
		var err error
		next, err = sp.SessionProcessEvents(addr)
		return err
	})
	return time.Duration(next) * time.Millisecond, err
}

// Run pumps events until ctx is done or ProcessEvents fails. It wakes early
// when libspotify signals notify_main_thread.
func (s *Session) Run(ctx context.Context) error {
	t := time.NewTimer(0)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.notify:
		case <-t.C:
		}

		next, err := s.ProcessEvents()
		if err != nil {
			return err
		}

		if !t.Stop() {
			select {
			case <-t.C:
			default:
			}
		}
		t.Reset(next)
	}
}

// Release destroys the session. The session is never released by the
// garbage collector, so Release must be called when done.
func (s *Session) Release() error {
	if !s.released.CompareAndSwap(false, true) {
		return nil
	}
	err := s.ptr.Free()
	sessions.Unregister(s.id)
	return err
}

// wake is called from notify_main_thread, possibly on a libspotify thread.
func (s *Session) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}
