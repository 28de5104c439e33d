//go:build (darwin || linux) && (amd64 || arm64)

package sp

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode is sp_error.
type ErrorCode int32

const (
	ErrorOK                    ErrorCode = 0
	ErrorBadAPIVersion         ErrorCode = 1
	ErrorAPIInitializationFail ErrorCode = 2
	ErrorTrackNotPlayable      ErrorCode = 3
	ErrorBadApplicationKey     ErrorCode = 5
	ErrorBadUsernameOrPassword ErrorCode = 6
	ErrorUserBanned            ErrorCode = 7
	ErrorUnableToContactServer ErrorCode = 8
	ErrorClientTooOld          ErrorCode = 9
	ErrorOtherPermanent        ErrorCode = 10
	ErrorBadUserAgent          ErrorCode = 11
	ErrorMissingCallback       ErrorCode = 12
	ErrorInvalidIndata         ErrorCode = 13
	ErrorIndexOutOfRange       ErrorCode = 14
	ErrorUserNeedsPremium      ErrorCode = 15
	ErrorOtherTransient        ErrorCode = 16
	ErrorIsLoading             ErrorCode = 17
	ErrorNoStreamAvailable     ErrorCode = 18
	ErrorPermissionDenied      ErrorCode = 19
	ErrorInboxIsFull           ErrorCode = 20
	ErrorNoCache               ErrorCode = 21
	ErrorNoSuchUser            ErrorCode = 22
	ErrorNoCredentials         ErrorCode = 23
	ErrorNetworkDisabled       ErrorCode = 24
	ErrorInvalidDeviceID       ErrorCode = 25
	ErrorCantOpenTraceFile     ErrorCode = 26
	ErrorApplicationBanned     ErrorCode = 27
	ErrorOfflineTooManyTracks  ErrorCode = 31
	ErrorOfflineDiskCache      ErrorCode = 32
	ErrorOfflineExpired        ErrorCode = 33
	ErrorOfflineNotAllowed     ErrorCode = 34
	ErrorOfflineLicenseLost    ErrorCode = 35
	ErrorOfflineLicenseError   ErrorCode = 36
	ErrorLastfmAuthError       ErrorCode = 39
	ErrorInvalidArgument       ErrorCode = 40
	ErrorSystemFailure         ErrorCode = 41
)

var errorNames = map[ErrorCode]string{
	ErrorOK:                    "SP_ERROR_OK",
	ErrorBadAPIVersion:         "SP_ERROR_BAD_API_VERSION",
	ErrorAPIInitializationFail: "SP_ERROR_API_INITIALIZATION_FAILED",
	ErrorTrackNotPlayable:      "SP_ERROR_TRACK_NOT_PLAYABLE",
	ErrorBadApplicationKey:     "SP_ERROR_BAD_APPLICATION_KEY",
	ErrorBadUsernameOrPassword: "SP_ERROR_BAD_USERNAME_OR_PASSWORD",
	ErrorUserBanned:            "SP_ERROR_USER_BANNED",
	ErrorUnableToContactServer: "SP_ERROR_UNABLE_TO_CONTACT_SERVER",
	ErrorClientTooOld:          "SP_ERROR_CLIENT_TOO_OLD",
	ErrorOtherPermanent:        "SP_ERROR_OTHER_PERMANENT",
	ErrorBadUserAgent:          "SP_ERROR_BAD_USER_AGENT",
	ErrorMissingCallback:       "SP_ERROR_MISSING_CALLBACK",
	ErrorInvalidIndata:         "SP_ERROR_INVALID_INDATA",
	ErrorIndexOutOfRange:       "SP_ERROR_INDEX_OUT_OF_RANGE",
	ErrorUserNeedsPremium:      "SP_ERROR_USER_NEEDS_PREMIUM",
	ErrorOtherTransient:        "SP_ERROR_OTHER_TRANSIENT",
	ErrorIsLoading:             "SP_ERROR_IS_LOADING",
	ErrorNoStreamAvailable:     "SP_ERROR_NO_STREAM_AVAILABLE",
	ErrorPermissionDenied:      "SP_ERROR_PERMISSION_DENIED",
	ErrorInboxIsFull:           "SP_ERROR_INBOX_IS_FULL",
	ErrorNoCache:               "SP_ERROR_NO_CACHE",
	ErrorNoSuchUser:            "SP_ERROR_NO_SUCH_USER",
	ErrorNoCredentials:         "SP_ERROR_NO_CREDENTIALS",
	ErrorNetworkDisabled:       "SP_ERROR_NETWORK_DISABLED",
	ErrorInvalidDeviceID:       "SP_ERROR_INVALID_DEVICE_ID",
	ErrorCantOpenTraceFile:     "SP_ERROR_CANT_OPEN_TRACE_FILE",
	ErrorApplicationBanned:     "SP_ERROR_APPLICATION_BANNED",
	ErrorOfflineTooManyTracks:  "SP_ERROR_OFFLINE_TOO_MANY_TRACKS",
	ErrorOfflineDiskCache:      "SP_ERROR_OFFLINE_DISK_CACHE",
	ErrorOfflineExpired:        "SP_ERROR_OFFLINE_EXPIRED",
	ErrorOfflineNotAllowed:     "SP_ERROR_OFFLINE_NOT_ALLOWED",
	ErrorOfflineLicenseLost:    "SP_ERROR_OFFLINE_LICENSE_LOST",
	ErrorOfflineLicenseError:   "SP_ERROR_OFFLINE_LICENSE_ERROR",
	ErrorLastfmAuthError:       "SP_ERROR_LASTFM_AUTH_ERROR",
	ErrorInvalidArgument:       "SP_ERROR_INVALID_ARGUMENT",
	ErrorSystemFailure:         "SP_ERROR_SYSTEM_FAILURE",
}

// String returns the C enum name, e.g. "SP_ERROR_IS_LOADING".
func (c ErrorCode) String() string {
	if name, ok := errorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("SP_ERROR(%d)", int32(c))
}

// Error is a failed libspotify call.
type Error struct {
	Code    ErrorCode // Raw sp_error
	Message string    // From sp_error_message when the library is loaded
	Op      string    // Function that failed
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("libspotify %s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("libspotify %s: %s (%s)", e.Op, e.Message, e.Code)
}

// NewError creates an Error for code. Returns nil for SP_ERROR_OK.
func NewError(code int32, op string) error {
	if ErrorCode(code) == ErrorOK {
		return nil
	}
	return &Error{
		Code:    ErrorCode(code),
		Message: ErrorMessage(ErrorCode(code)),
		Op:      op,
	}
}

// Code returns the sp_error carried by err, or ErrorOK.
func Code(err error) ErrorCode {
	var spErr *Error
	if errors.As(err, &spErr) {
		return spErr.Code
	}
	return ErrorOK
}

// IsLoading reports whether err means the object is not loaded yet.
func IsLoading(err error) bool {
	return Code(err) == ErrorIsLoading
}

// IsTransient reports whether retrying later may succeed.
func IsTransient(err error) bool {
	switch Code(err) {
	case ErrorOtherTransient, ErrorIsLoading, ErrorUnableToContactServer, ErrorNetworkDisabled:
		return true
	}
	return false
}
