//go:build (darwin || linux) && (amd64 || arm64)

package spgo

import (
	"runtime/debug"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/obinnaokechukwu/spgo/sp"
)

// Trampolines are created once and shared by every session; purego has a
// fixed number of callback slots.
var (
	callbacksOnce  sync.Once
	callbacksTable sp.SessionCallbacks
)

// sessionCallbacks returns the address of the shared sp_session_callbacks.
// libspotify keeps the pointer, so the table is a package variable.
func sessionCallbacks() uintptr {
	callbacksOnce.Do(func() {
		callbacksTable = sp.SessionCallbacks{
			LoggedIn: purego.NewCallback(func(_ purego.CDecl, session uintptr, code int32) {
				dispatch(session, "logged_in", func(s *Session) {
					err := sp.NewError(code, "logged_in")
					if s.cb.LoggedIn != nil {
						s.cb.LoggedIn(s, err)
					} else if err != nil {
						s.log.Errorf("spgo: login failed: %v", err)
					}
				})
			}),
			LoggedOut: purego.NewCallback(func(_ purego.CDecl, session uintptr) {
				dispatch(session, "logged_out", func(s *Session) {
					if s.cb.LoggedOut != nil {
						s.cb.LoggedOut(s)
					}
				})
			}),
			MetadataUpdated: purego.NewCallback(func(_ purego.CDecl, session uintptr) {
				dispatch(session, "metadata_updated", func(s *Session) {
					if s.cb.MetadataUpdated != nil {
						s.cb.MetadataUpdated(s)
					}
				})
			}),
			ConnectionError: purego.NewCallback(func(_ purego.CDecl, session uintptr, code int32) {
				dispatch(session, "connection_error", func(s *Session) {
					err := sp.NewError(code, "connection_error")
					if s.cb.ConnectionError != nil {
						s.cb.ConnectionError(s, err)
					} else if err != nil {
						s.log.Warnf("spgo: connection error: %v", err)
					}
				})
			}),
			MessageToUser: purego.NewCallback(func(_ purego.CDecl, session uintptr, msg *byte) {
				text := sp.GoString(uintptr(unsafe.Pointer(msg)))
				dispatch(session, "message_to_user", func(s *Session) {
					if s.cb.MessageToUser != nil {
						s.cb.MessageToUser(s, text)
					} else {
						s.log.Infof("spgo: message to user: %s", text)
					}
				})
			}),
			NotifyMainThread: purego.NewCallback(func(_ purego.CDecl, session uintptr) {
				dispatch(session, "notify_main_thread", (*Session).wake)
			}),
			MusicDelivery: purego.NewCallback(func(_ purego.CDecl, session uintptr, format unsafe.Pointer, frames unsafe.Pointer, numFrames int32) int32 {
				consumed := numFrames
				dispatch(session, "music_delivery", func(s *Session) {
					if s.cb.MusicDelivery == nil || format == nil {
						return
					}
					f := *(*sp.AudioFormat)(format)
					var buf []byte
					if frames != nil && numFrames > 0 {
						buf = unsafe.Slice((*byte)(frames), int(numFrames)*int(f.Channels)*2)
					}
					consumed = int32(s.cb.MusicDelivery(s, f, buf, int(numFrames)))
				})
				return consumed
			}),
			PlayTokenLost: purego.NewCallback(func(_ purego.CDecl, session uintptr) {
				dispatch(session, "play_token_lost", func(s *Session) {
					if s.cb.PlayTokenLost != nil {
						s.cb.PlayTokenLost(s)
					} else {
						s.log.Warnf("spgo: play token lost")
					}
				})
			}),
			LogMessage: purego.NewCallback(func(_ purego.CDecl, session uintptr, data *byte) {
				m := ParseLogMessage(sp.GoString(uintptr(unsafe.Pointer(data))))
				dispatch(session, "log_message", func(s *Session) {
					if s.cb.LogMessage != nil {
						s.cb.LogMessage(s, m)
						return
					}
					logMessage(s.log, m)
				})
			}),
			EndOfTrack: purego.NewCallback(func(_ purego.CDecl, session uintptr) {
				dispatch(session, "end_of_track", func(s *Session) {
					if s.cb.EndOfTrack != nil {
						s.cb.EndOfTrack(s)
					}
				})
			}),
			StreamingError: purego.NewCallback(func(_ purego.CDecl, session uintptr, code int32) {
				dispatch(session, "streaming_error", func(s *Session) {
					err := sp.NewError(code, "streaming_error")
					if s.cb.StreamingError != nil {
						s.cb.StreamingError(s, err)
					} else if err != nil {
						s.log.Errorf("spgo: streaming error: %v", err)
					}
				})
			}),
			UserinfoUpdated: purego.NewCallback(func(_ purego.CDecl, session uintptr) {
				dispatch(session, "userinfo_updated", func(s *Session) {
					if s.cb.UserinfoUpdated != nil {
						s.cb.UserinfoUpdated(s)
					}
				})
			}),
			ConnectionstateUpdated: purego.NewCallback(func(_ purego.CDecl, session uintptr) {
				dispatch(session, "connectionstate_updated", func(s *Session) {
					if s.cb.ConnectionStateUpdated != nil {
						s.cb.ConnectionStateUpdated(s)
					}
				})
			}),
			CredentialsBlobUpdated: purego.NewCallback(func(_ purego.CDecl, session uintptr, blob *byte) {
				b := sp.GoString(uintptr(unsafe.Pointer(blob)))
				dispatch(session, "credentials_blob_updated", func(s *Session) {
					if s.cb.CredentialsBlobUpdated != nil {
						s.cb.CredentialsBlobUpdated(s, b)
					}
				})
			}),
		}
	})
	return uintptr(unsafe.Pointer(&callbacksTable))
}

// dispatch finds the Session for a native session address and runs fn.
func dispatch(session uintptr, name string, fn func(s *Session)) {
	dispatchID(sp.SessionUserdata(session), name, fn)
}

// dispatchID runs fn for the session registered under id. A panic must not
// unwind into libspotify, so it is logged instead.
func dispatchID(id uintptr, name string, fn func(s *Session)) {
	s, ok := sessions.Lookup(id)
	if !ok {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			s.log.Errorf("spgo: %s callback panicked: %v\n%s", name, p, debug.Stack())
		}
	}()
	fn(s)
}
