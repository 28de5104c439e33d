//go:build (darwin || linux) && (amd64 || arm64)

// Package sp provides raw bindings to libspotify.
//
// Functions here are thin: they take and return raw addresses and perform no
// locking. libspotify must only be entered from one thread at a time; the
// root spgo package routes every call through a managed.Runtime for that.
package sp

import (
	"runtime"

	"github.com/obinnaokechukwu/spgo/internal/bindings"
	"github.com/pkg/errors"
)

// RefCounted lists the types that have sp_<type>_add_ref and
// sp_<type>_release entry points.
var RefCounted = []string{
	"album",
	"albumbrowse",
	"artist",
	"artistbrowse",
	"image",
	"inbox",
	"link",
	"playlist",
	"playlistcontainer",
	"search",
	"toplistbrowse",
	"track",
	"user",
}

type refPair struct {
	addRef  func(addr uintptr) int32
	release func(addr uintptr) int32
}

// refFuncs is filled in by registerBindings; the keys exist before that so
// unknown tags and an unloaded library are told apart.
var refFuncs = func() map[string]*refPair {
	m := make(map[string]*refPair, len(RefCounted))
	for _, tag := range RefCounted {
		m[tag] = &refPair{}
	}
	return m
}()

// Function bindings - registered when init() is called
var (
	spErrorMessage func(code int32) string
	spBuildID      func() string

	spSessionCreate            func(config *SessionConfig, session *uintptr) int32
	spSessionRelease           func(session uintptr) int32
	spSessionProcessEvents     func(session uintptr, nextTimeout *int32) int32
	spSessionLogin             func(session uintptr, username string, password uintptr, rememberMe bool, blob uintptr) int32
	spSessionRelogin           func(session uintptr) int32
	spSessionLogout            func(session uintptr) int32
	spSessionForgetMe          func(session uintptr) int32
	spSessionRememberedUser    func(session uintptr, buf *byte, size uintptr) int32
	spSessionUser              func(session uintptr) uintptr
	spSessionUserdata          func(session uintptr) uintptr
	spSessionConnectionstate   func(session uintptr) int32
	spSessionPlaylistcontainer func(session uintptr) uintptr
	spSessionStarredCreate     func(session uintptr) uintptr
	spSessionPlayerLoad        func(session, track uintptr) int32
	spSessionPlayerPlay        func(session uintptr, play bool) int32
	spSessionPlayerUnload      func(session uintptr) int32
	spSessionPreferredBitrate  func(session uintptr, bitrate int32) int32

	spUserCanonicalName func(user uintptr) string
	spUserDisplayName   func(user uintptr) string
	spUserIsLoaded      func(user uintptr) bool

	spTrackIsLoaded   func(track uintptr) bool
	spTrackError      func(track uintptr) int32
	spTrackName       func(track uintptr) string
	spTrackDuration   func(track uintptr) int32
	spTrackPopularity func(track uintptr) int32
	spTrackNumArtists func(track uintptr) int32
	spTrackArtist     func(track uintptr, index int32) uintptr
	spTrackAlbum      func(track uintptr) uintptr

	spAlbumIsLoaded func(album uintptr) bool
	spAlbumName     func(album uintptr) string
	spAlbumYear     func(album uintptr) int32
	spAlbumArtist   func(album uintptr) uintptr

	spArtistIsLoaded func(artist uintptr) bool
	spArtistName     func(artist uintptr) string

	spLinkCreateFromString func(link string) uintptr
	spLinkCreateFromTrack  func(track uintptr, offset int32) uintptr
	spLinkAsString         func(link uintptr, buf *byte, size int32) int32
	spLinkType             func(link uintptr) int32
	spLinkAsTrack          func(link uintptr) uintptr
	spLinkAsAlbum          func(link uintptr) uintptr
	spLinkAsArtist         func(link uintptr) uintptr
	spLinkAsUser           func(link uintptr) uintptr

	spPlaylistIsLoaded  func(playlist uintptr) bool
	spPlaylistName      func(playlist uintptr) string
	spPlaylistNumTracks func(playlist uintptr) int32
	spPlaylistTrack     func(playlist uintptr, index int32) uintptr

	spPlaylistcontainerIsLoaded     func(pc uintptr) bool
	spPlaylistcontainerNumPlaylists func(pc uintptr) int32
	spPlaylistcontainerPlaylist     func(pc uintptr, index int32) uintptr

	spImageCreateFromLink func(session, link uintptr) uintptr
	spImageIsLoaded       func(image uintptr) bool
	spImageData           func(image uintptr, size *uintptr) uintptr

	bindingsRegistered bool
)

func init() {
	registerBindings()
}

func registerBindings() {
	if bindingsRegistered {
		return
	}

	if err := bindings.Load(); err != nil {
		return // Will fail later when functions are called
	}

	for tag, pair := range refFuncs {
		bindings.RegisterFunc(&pair.addRef, "sp_"+tag+"_add_ref")
		bindings.RegisterFunc(&pair.release, "sp_"+tag+"_release")
	}

	bindings.RegisterFunc(&spErrorMessage, "sp_error_message")
	bindings.RegisterFunc(&spBuildID, "sp_build_id")

	bindings.RegisterFunc(&spSessionCreate, "sp_session_create")
	bindings.RegisterFunc(&spSessionRelease, "sp_session_release")
	bindings.RegisterFunc(&spSessionProcessEvents, "sp_session_process_events")
	bindings.RegisterFunc(&spSessionLogin, "sp_session_login")
	bindings.RegisterFunc(&spSessionRelogin, "sp_session_relogin")
	bindings.RegisterFunc(&spSessionLogout, "sp_session_logout")
	bindings.RegisterFunc(&spSessionForgetMe, "sp_session_forget_me")
	bindings.RegisterFunc(&spSessionRememberedUser, "sp_session_remembered_user")
	bindings.RegisterFunc(&spSessionUser, "sp_session_user")
	bindings.RegisterFunc(&spSessionUserdata, "sp_session_userdata")
	bindings.RegisterFunc(&spSessionConnectionstate, "sp_session_connectionstate")
	bindings.RegisterFunc(&spSessionPlaylistcontainer, "sp_session_playlistcontainer")
	bindings.RegisterFunc(&spSessionStarredCreate, "sp_session_starred_create")
	bindings.RegisterFunc(&spSessionPlayerLoad, "sp_session_player_load")
	bindings.RegisterFunc(&spSessionPlayerPlay, "sp_session_player_play")
	bindings.RegisterFunc(&spSessionPlayerUnload, "sp_session_player_unload")
	bindings.RegisterFunc(&spSessionPreferredBitrate, "sp_session_preferred_bitrate")

	bindings.RegisterFunc(&spUserCanonicalName, "sp_user_canonical_name")
	bindings.RegisterFunc(&spUserDisplayName, "sp_user_display_name")
	bindings.RegisterFunc(&spUserIsLoaded, "sp_user_is_loaded")

	bindings.RegisterFunc(&spTrackIsLoaded, "sp_track_is_loaded")
	bindings.RegisterFunc(&spTrackError, "sp_track_error")
	bindings.RegisterFunc(&spTrackName, "sp_track_name")
	bindings.RegisterFunc(&spTrackDuration, "sp_track_duration")
	bindings.RegisterFunc(&spTrackPopularity, "sp_track_popularity")
	bindings.RegisterFunc(&spTrackNumArtists, "sp_track_num_artists")
	bindings.RegisterFunc(&spTrackArtist, "sp_track_artist")
	bindings.RegisterFunc(&spTrackAlbum, "sp_track_album")

	bindings.RegisterFunc(&spAlbumIsLoaded, "sp_album_is_loaded")
	bindings.RegisterFunc(&spAlbumName, "sp_album_name")
	bindings.RegisterFunc(&spAlbumYear, "sp_album_year")
	bindings.RegisterFunc(&spAlbumArtist, "sp_album_artist")

	bindings.RegisterFunc(&spArtistIsLoaded, "sp_artist_is_loaded")
	bindings.RegisterFunc(&spArtistName, "sp_artist_name")

	bindings.RegisterFunc(&spLinkCreateFromString, "sp_link_create_from_string")
	bindings.RegisterFunc(&spLinkCreateFromTrack, "sp_link_create_from_track")
	bindings.RegisterFunc(&spLinkAsString, "sp_link_as_string")
	bindings.RegisterFunc(&spLinkType, "sp_link_type")
	bindings.RegisterFunc(&spLinkAsTrack, "sp_link_as_track")
	bindings.RegisterFunc(&spLinkAsAlbum, "sp_link_as_album")
	bindings.RegisterFunc(&spLinkAsArtist, "sp_link_as_artist")
	bindings.RegisterOptionalFunc(&spLinkAsUser, "sp_link_as_user")

	bindings.RegisterFunc(&spPlaylistIsLoaded, "sp_playlist_is_loaded")
	bindings.RegisterFunc(&spPlaylistName, "sp_playlist_name")
	bindings.RegisterFunc(&spPlaylistNumTracks, "sp_playlist_num_tracks")
	bindings.RegisterFunc(&spPlaylistTrack, "sp_playlist_track")

	bindings.RegisterFunc(&spPlaylistcontainerIsLoaded, "sp_playlistcontainer_is_loaded")
	bindings.RegisterFunc(&spPlaylistcontainerNumPlaylists, "sp_playlistcontainer_num_playlists")
	bindings.RegisterFunc(&spPlaylistcontainerPlaylist, "sp_playlistcontainer_playlist")

	bindings.RegisterFunc(&spImageCreateFromLink, "sp_image_create_from_link")
	bindings.RegisterFunc(&spImageIsLoaded, "sp_image_is_loaded")
	bindings.RegisterFunc(&spImageData, "sp_image_data")

	bindingsRegistered = true
}

// ErrUnknownType is returned by AddRef and Release for tags not in RefCounted.
var ErrUnknownType = errors.New("spgo: type has no add_ref/release entry points")

// HasRefFuncs reports whether tag is one of RefCounted.
func HasRefFuncs(tag string) bool {
	_, ok := refFuncs[tag]
	return ok
}

// AddRef calls sp_<tag>_add_ref.
func AddRef(tag string, addr uintptr) error {
	pair, ok := refFuncs[tag]
	if !ok {
		return errors.Wrap(ErrUnknownType, tag)
	}
	if pair.addRef == nil {
		return bindings.ErrNotLoaded
	}
	return NewError(pair.addRef(addr), "sp_"+tag+"_add_ref")
}

// Release calls sp_<tag>_release.
func Release(tag string, addr uintptr) error {
	pair, ok := refFuncs[tag]
	if !ok {
		return errors.Wrap(ErrUnknownType, tag)
	}
	if pair.release == nil {
		return bindings.ErrNotLoaded
	}
	return NewError(pair.release(addr), "sp_"+tag+"_release")
}

// ErrorMessage returns libspotify's text for code, or "" when not loaded.
func ErrorMessage(code ErrorCode) string {
	if spErrorMessage == nil {
		return ""
	}
	return spErrorMessage(int32(code))
}

// BuildID returns the libspotify build string.
func BuildID() string {
	if spBuildID == nil {
		return ""
	}
	return spBuildID()
}

// Session

// SessionCreate calls sp_session_create.
func SessionCreate(config *SessionConfig) (uintptr, error) {
	if spSessionCreate == nil {
		return 0, bindings.ErrNotLoaded
	}
	var session uintptr
	if err := NewError(spSessionCreate(config, &session), "sp_session_create"); err != nil {
		return 0, err
	}
	return session, nil
}

// SessionRelease calls sp_session_release.
func SessionRelease(session uintptr) error {
	if spSessionRelease == nil {
		return bindings.ErrNotLoaded
	}
	return NewError(spSessionRelease(session), "sp_session_release")
}

// SessionProcessEvents calls sp_session_process_events and returns the
// number of milliseconds until it wants to be called again.
func SessionProcessEvents(session uintptr) (int, error) {
	if spSessionProcessEvents == nil {
		return 0, bindings.ErrNotLoaded
	}
	var next int32
	err := NewError(spSessionProcessEvents(session, &next), "sp_session_process_events")
	return int(next), err
}

// SessionLogin calls sp_session_login. An empty password or blob is passed
// as NULL.
func SessionLogin(session uintptr, username, password string, rememberMe bool, blob string) error {
	if spSessionLogin == nil {
		return bindings.ErrNotLoaded
	}
	var pw, bl []byte
	if password != "" {
		pw = CString(password)
	}
	if blob != "" {
		bl = CString(blob)
	}
	ret := spSessionLogin(session, username, Addr(pw), rememberMe, Addr(bl))
	runtime.KeepAlive(pw)
	runtime.KeepAlive(bl)
	return NewError(ret, "sp_session_login")
}

// SessionRelogin calls sp_session_relogin.
func SessionRelogin(session uintptr) error {
	if spSessionRelogin == nil {
		return bindings.ErrNotLoaded
	}
	return NewError(spSessionRelogin(session), "sp_session_relogin")
}

// SessionLogout calls sp_session_logout.
func SessionLogout(session uintptr) error {
	if spSessionLogout == nil {
		return bindings.ErrNotLoaded
	}
	return NewError(spSessionLogout(session), "sp_session_logout")
}

// SessionForgetMe calls sp_session_forget_me.
func SessionForgetMe(session uintptr) error {
	if spSessionForgetMe == nil {
		return bindings.ErrNotLoaded
	}
	return NewError(spSessionForgetMe(session), "sp_session_forget_me")
}

// SessionRememberedUser returns the stored user name, or "" if none.
func SessionRememberedUser(session uintptr) string {
	if spSessionRememberedUser == nil {
		return ""
	}
	// A first call with a small buffer reports the full length.
	buf := make([]byte, 64)
	n := spSessionRememberedUser(session, &buf[0], uintptr(len(buf)))
	if n < 0 {
		return ""
	}
	if int(n) >= len(buf) {
		buf = make([]byte, n+1)
		n = spSessionRememberedUser(session, &buf[0], uintptr(len(buf)))
		if n < 0 || int(n) >= len(buf) {
			return ""
		}
	}
	return string(buf[:n])
}

// SessionUser returns the logged in user (borrowed).
func SessionUser(session uintptr) uintptr {
	if spSessionUser == nil {
		return 0
	}
	return spSessionUser(session)
}

// SessionUserdata returns the userdata from the session config.
func SessionUserdata(session uintptr) uintptr {
	if spSessionUserdata == nil || session == 0 {
		return 0
	}
	return spSessionUserdata(session)
}

// SessionConnectionState calls sp_session_connectionstate.
func SessionConnectionState(session uintptr) ConnectionState {
	if spSessionConnectionstate == nil {
		return ConnectionStateUndefined
	}
	return ConnectionState(spSessionConnectionstate(session))
}

// SessionPlaylistContainer returns the user's playlist container (borrowed).
func SessionPlaylistContainer(session uintptr) uintptr {
	if spSessionPlaylistcontainer == nil {
		return 0
	}
	return spSessionPlaylistcontainer(session)
}

// SessionStarredCreate returns the starred playlist (owned).
func SessionStarredCreate(session uintptr) uintptr {
	if spSessionStarredCreate == nil {
		return 0
	}
	return spSessionStarredCreate(session)
}

// SessionPlayerLoad calls sp_session_player_load.
func SessionPlayerLoad(session, track uintptr) error {
	if spSessionPlayerLoad == nil {
		return bindings.ErrNotLoaded
	}
	return NewError(spSessionPlayerLoad(session, track), "sp_session_player_load")
}

// SessionPlayerPlay calls sp_session_player_play.
func SessionPlayerPlay(session uintptr, play bool) error {
	if spSessionPlayerPlay == nil {
		return bindings.ErrNotLoaded
	}
	return NewError(spSessionPlayerPlay(session, play), "sp_session_player_play")
}

// SessionPlayerUnload calls sp_session_player_unload.
func SessionPlayerUnload(session uintptr) error {
	if spSessionPlayerUnload == nil {
		return bindings.ErrNotLoaded
	}
	return NewError(spSessionPlayerUnload(session), "sp_session_player_unload")
}

// SessionPreferredBitrate calls sp_session_preferred_bitrate.
func SessionPreferredBitrate(session uintptr, bitrate Bitrate) error {
	if spSessionPreferredBitrate == nil {
		return bindings.ErrNotLoaded
	}
	return NewError(spSessionPreferredBitrate(session, int32(bitrate)), "sp_session_preferred_bitrate")
}

// User

func UserCanonicalName(user uintptr) string {
	if spUserCanonicalName == nil || user == 0 {
		return ""
	}
	return spUserCanonicalName(user)
}

func UserDisplayName(user uintptr) string {
	if spUserDisplayName == nil || user == 0 {
		return ""
	}
	return spUserDisplayName(user)
}

func UserIsLoaded(user uintptr) bool {
	return spUserIsLoaded != nil && user != 0 && spUserIsLoaded(user)
}

// Track

func TrackIsLoaded(track uintptr) bool {
	return spTrackIsLoaded != nil && track != 0 && spTrackIsLoaded(track)
}

// TrackError returns the track's load status as an error.
func TrackError(track uintptr) error {
	if spTrackError == nil {
		return bindings.ErrNotLoaded
	}
	return NewError(spTrackError(track), "sp_track_error")
}

func TrackName(track uintptr) string {
	if spTrackName == nil || track == 0 {
		return ""
	}
	return spTrackName(track)
}

// TrackDuration returns the duration in milliseconds.
func TrackDuration(track uintptr) int {
	if spTrackDuration == nil || track == 0 {
		return 0
	}
	return int(spTrackDuration(track))
}

func TrackPopularity(track uintptr) int {
	if spTrackPopularity == nil || track == 0 {
		return 0
	}
	return int(spTrackPopularity(track))
}

func TrackNumArtists(track uintptr) int {
	if spTrackNumArtists == nil || track == 0 {
		return 0
	}
	return int(spTrackNumArtists(track))
}

// TrackArtist returns artist index of track (borrowed).
func TrackArtist(track uintptr, index int) uintptr {
	if spTrackArtist == nil || track == 0 {
		return 0
	}
	return spTrackArtist(track, int32(index))
}

// TrackAlbum returns the track's album (borrowed).
func TrackAlbum(track uintptr) uintptr {
	if spTrackAlbum == nil || track == 0 {
		return 0
	}
	return spTrackAlbum(track)
}

// Album

func AlbumIsLoaded(album uintptr) bool {
	return spAlbumIsLoaded != nil && album != 0 && spAlbumIsLoaded(album)
}

func AlbumName(album uintptr) string {
	if spAlbumName == nil || album == 0 {
		return ""
	}
	return spAlbumName(album)
}

func AlbumYear(album uintptr) int {
	if spAlbumYear == nil || album == 0 {
		return 0
	}
	return int(spAlbumYear(album))
}

// AlbumArtist returns the album's artist (borrowed).
func AlbumArtist(album uintptr) uintptr {
	if spAlbumArtist == nil || album == 0 {
		return 0
	}
	return spAlbumArtist(album)
}

// Artist

func ArtistIsLoaded(artist uintptr) bool {
	return spArtistIsLoaded != nil && artist != 0 && spArtistIsLoaded(artist)
}

func ArtistName(artist uintptr) string {
	if spArtistName == nil || artist == 0 {
		return ""
	}
	return spArtistName(artist)
}

// Link

// LinkCreateFromString parses a Spotify URI (owned result, 0 if invalid).
func LinkCreateFromString(uri string) uintptr {
	if spLinkCreateFromString == nil {
		return 0
	}
	return spLinkCreateFromString(uri)
}

// LinkCreateFromTrack creates a link to track at offset ms (owned).
func LinkCreateFromTrack(track uintptr, offset int) uintptr {
	if spLinkCreateFromTrack == nil || track == 0 {
		return 0
	}
	return spLinkCreateFromTrack(track, int32(offset))
}

// LinkAsString returns the URI of link.
func LinkAsString(link uintptr) string {
	if spLinkAsString == nil || link == 0 {
		return ""
	}
	buf := make([]byte, 256)
	n := spLinkAsString(link, &buf[0], int32(len(buf)))
	if int(n) >= len(buf) {
		buf = make([]byte, n+1)
		n = spLinkAsString(link, &buf[0], int32(len(buf)))
	}
	if n <= 0 || int(n) >= len(buf) {
		return ""
	}
	return string(buf[:n])
}

// LinkTypeOf calls sp_link_type.
func LinkTypeOf(link uintptr) LinkType {
	if spLinkType == nil || link == 0 {
		return LinkTypeInvalid
	}
	return LinkType(spLinkType(link))
}

// LinkAsTrack returns the track link points to (borrowed).
func LinkAsTrack(link uintptr) uintptr {
	if spLinkAsTrack == nil || link == 0 {
		return 0
	}
	return spLinkAsTrack(link)
}

// LinkAsAlbum returns the album link points to (borrowed).
func LinkAsAlbum(link uintptr) uintptr {
	if spLinkAsAlbum == nil || link == 0 {
		return 0
	}
	return spLinkAsAlbum(link)
}

// LinkAsArtist returns the artist link points to (borrowed).
func LinkAsArtist(link uintptr) uintptr {
	if spLinkAsArtist == nil || link == 0 {
		return 0
	}
	return spLinkAsArtist(link)
}

// LinkAsUser returns the user link points to (borrowed).
func LinkAsUser(link uintptr) uintptr {
	if spLinkAsUser == nil || link == 0 {
		return 0
	}
	return spLinkAsUser(link)
}

// Playlist

func PlaylistIsLoaded(playlist uintptr) bool {
	return spPlaylistIsLoaded != nil && playlist != 0 && spPlaylistIsLoaded(playlist)
}

func PlaylistName(playlist uintptr) string {
	if spPlaylistName == nil || playlist == 0 {
		return ""
	}
	return spPlaylistName(playlist)
}

func PlaylistNumTracks(playlist uintptr) int {
	if spPlaylistNumTracks == nil || playlist == 0 {
		return 0
	}
	return int(spPlaylistNumTracks(playlist))
}

// PlaylistTrack returns track index of playlist (borrowed).
func PlaylistTrack(playlist uintptr, index int) uintptr {
	if spPlaylistTrack == nil || playlist == 0 {
		return 0
	}
	return spPlaylistTrack(playlist, int32(index))
}

// Playlist container

func PlaylistContainerIsLoaded(pc uintptr) bool {
	return spPlaylistcontainerIsLoaded != nil && pc != 0 && spPlaylistcontainerIsLoaded(pc)
}

func PlaylistContainerNumPlaylists(pc uintptr) int {
	if spPlaylistcontainerNumPlaylists == nil || pc == 0 {
		return 0
	}
	return int(spPlaylistcontainerNumPlaylists(pc))
}

// PlaylistContainerPlaylist returns playlist index of pc (borrowed).
func PlaylistContainerPlaylist(pc uintptr, index int) uintptr {
	if spPlaylistcontainerPlaylist == nil || pc == 0 {
		return 0
	}
	return spPlaylistcontainerPlaylist(pc, int32(index))
}

// Image

// ImageCreateFromLink creates the image link points to (owned).
func ImageCreateFromLink(session, link uintptr) uintptr {
	if spImageCreateFromLink == nil || link == 0 {
		return 0
	}
	return spImageCreateFromLink(session, link)
}

func ImageIsLoaded(image uintptr) bool {
	return spImageIsLoaded != nil && image != 0 && spImageIsLoaded(image)
}

// ImageData copies the raw image bytes.
func ImageData(image uintptr) []byte {
	if spImageData == nil || image == 0 {
		return nil
	}
	var size uintptr
	p := spImageData(image, &size)
	return GoBytes(p, int(size))
}
