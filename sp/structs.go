//go:build (darwin || linux) && (amd64 || arm64)

package sp

import (
	"unsafe"
)

// SessionConfig mirrors sp_session_config. String fields hold addresses of
// NUL-terminated buffers that the caller keeps alive until sp_session_create
// returns.
type SessionConfig struct {
	APIVersion                   int32
	CacheLocation                uintptr
	SettingsLocation             uintptr
	ApplicationKey               uintptr
	ApplicationKeySize           uintptr
	UserAgent                    uintptr
	Callbacks                    uintptr // *SessionCallbacks
	Userdata                     uintptr
	CompressPlaylists            bool
	DontSaveMetadataForPlaylists bool
	InitiallyUnloadPlaylists     bool
	DeviceID                     uintptr
	Proxy                        uintptr
	ProxyUsername                uintptr
	ProxyPassword                uintptr
	CACertsFilename              uintptr
	Tracefile                    uintptr
}

// SessionCallbacks mirrors sp_session_callbacks. Each field is a C function
// pointer, typically from purego.NewCallback, or 0.
type SessionCallbacks struct {
	LoggedIn                  uintptr
	LoggedOut                 uintptr
	MetadataUpdated           uintptr
	ConnectionError           uintptr
	MessageToUser             uintptr
	NotifyMainThread          uintptr
	MusicDelivery             uintptr
	PlayTokenLost             uintptr
	LogMessage                uintptr
	EndOfTrack                uintptr
	StreamingError            uintptr
	UserinfoUpdated           uintptr
	StartPlayback             uintptr
	StopPlayback              uintptr
	GetAudioBufferStats       uintptr
	OfflineStatusUpdated      uintptr
	OfflineError              uintptr
	CredentialsBlobUpdated    uintptr
	ConnectionstateUpdated    uintptr
	ScrobbleError             uintptr
	PrivateSessionModeChanged uintptr
}

// AudioFormat mirrors sp_audioformat.
type AudioFormat struct {
	SampleType SampleType
	SampleRate int32
	Channels   int32
}

// AudioBufferStats mirrors sp_audio_buffer_stats.
type AudioBufferStats struct {
	Samples int32
	Stutter int32
}

// Sizes of the C structs on 64-bit platforms.
const (
	sizeofSessionConfig    = 120
	sizeofSessionCallbacks = 21 * 8
	sizeofAudioFormat      = 12
)

// CString returns s as a NUL-terminated byte slice. The caller keeps the
// slice alive for as long as C may read it.
func CString(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// Addr returns the address of b's first byte, or 0 for an empty slice.
func Addr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b[0]))
}

// GoString copies the NUL-terminated string at p.
func GoString(p uintptr) string {
	if p == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(p + uintptr(n))) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
}

// GoBytes copies n bytes starting at p.
func GoBytes(p uintptr, n int) []byte {
	if p == 0 || n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(p)), n))
	return out
}
