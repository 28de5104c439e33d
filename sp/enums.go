//go:build (darwin || linux) && (amd64 || arm64)

package sp

// APIVersion is SPOTIFY_API_VERSION for the ABI these bindings target.
const APIVersion = 12

// ConnectionState is sp_connectionstate.
type ConnectionState int32

const (
	ConnectionStateLoggedOut    ConnectionState = 0
	ConnectionStateLoggedIn     ConnectionState = 1
	ConnectionStateDisconnected ConnectionState = 2
	ConnectionStateUndefined    ConnectionState = 3
	ConnectionStateOffline      ConnectionState = 4
)

func (s ConnectionState) String() string {
	switch s {
	case ConnectionStateLoggedOut:
		return "logged_out"
	case ConnectionStateLoggedIn:
		return "logged_in"
	case ConnectionStateDisconnected:
		return "disconnected"
	case ConnectionStateOffline:
		return "offline"
	default:
		return "undefined"
	}
}

// LinkType is sp_linktype.
type LinkType int32

const (
	LinkTypeInvalid    LinkType = 0
	LinkTypeTrack      LinkType = 1
	LinkTypeAlbum      LinkType = 2
	LinkTypeArtist     LinkType = 3
	LinkTypeSearch     LinkType = 4
	LinkTypePlaylist   LinkType = 5
	LinkTypeProfile    LinkType = 6
	LinkTypeStarred    LinkType = 7
	LinkTypeLocalTrack LinkType = 8
	LinkTypeImage      LinkType = 9
)

var linkTypeNames = [...]string{
	"invalid", "track", "album", "artist", "search",
	"playlist", "profile", "starred", "localtrack", "image",
}

func (t LinkType) String() string {
	if t < 0 || int(t) >= len(linkTypeNames) {
		return "invalid"
	}
	return linkTypeNames[t]
}

// Bitrate is sp_bitrate.
type Bitrate int32

const (
	Bitrate160k Bitrate = 0
	Bitrate320k Bitrate = 1
	Bitrate96k  Bitrate = 2
)

// SampleType is sp_sampletype.
type SampleType int32

// SampleTypeInt16NativeEndian is the only sample type libspotify delivers.
const SampleTypeInt16NativeEndian SampleType = 0
