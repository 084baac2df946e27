package session

import (
	"errors"

	"github.com/dmitrijs2005/oddsup/internal/client/api"
	"github.com/dmitrijs2005/oddsup/internal/client/biometric"
)

// ErrorKind classifies a failed command.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindValidation
	KindNetwork
	KindServer
	KindDecode
	KindBiometricUnavailable
	KindBiometricCancelled
	KindBiometricLockedOut
	KindNoStoredSession
	KindBusy
	KindPrecondition
	KindStorage
	KindCancelled
)

var kindNames = map[ErrorKind]string{
	KindNone:                 "none",
	KindValidation:           "validation",
	KindNetwork:              "network",
	KindServer:               "server",
	KindDecode:               "decode",
	KindBiometricUnavailable: "biometricUnavailable",
	KindBiometricCancelled:   "biometricCancelled",
	KindBiometricLockedOut:   "biometricLockedOut",
	KindNoStoredSession:      "noStoredSession",
	KindBusy:                 "busy",
	KindPrecondition:         "precondition",
	KindStorage:              "storage",
	KindCancelled:            "cancelled",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// User-facing messages for failures that carry no backend reason.
const (
	MsgNetwork          = "Network error. Please check your connection and try again."
	MsgDecode           = "Unexpected response from server. Please try again."
	MsgServerFallback   = "Something went wrong. Please try again."
	MsgBusy             = "Another request is already in progress."
	MsgNotSignedIn      = "You need to be signed in to do that."
	MsgAlreadySignedIn  = "You are already signed in."
	MsgBioUnavailable   = "Biometric unlock is not available."
	MsgBioCancelled     = "Biometric authentication was cancelled."
	MsgBioLockedOut     = "Biometric authentication is locked. Please use your password."
	MsgNoStoredSession  = "No saved session found. Please sign in with your password."
	MsgSessionExpired   = "Your session has expired. Please sign in with your password."
	MsgStorage          = "Could not access secure storage."
	MsgCancelled        = "Request cancelled."
	MsgMissingLogin     = "Please enter your email and password."
	MsgPasswordTooShort = "Password must be at least 8 characters."
)

// Error is the uniform failure returned by every Store command. Message is
// safe to show to the user as-is.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the Err* sentinels below can
// be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrValidation           = &Error{Kind: KindValidation}
	ErrNetwork              = &Error{Kind: KindNetwork}
	ErrServer               = &Error{Kind: KindServer}
	ErrDecode               = &Error{Kind: KindDecode}
	ErrBiometricUnavailable = &Error{Kind: KindBiometricUnavailable}
	ErrBiometricCancelled   = &Error{Kind: KindBiometricCancelled}
	ErrBiometricLockedOut   = &Error{Kind: KindBiometricLockedOut}
	ErrNoStoredSession      = &Error{Kind: KindNoStoredSession}
	ErrBusy                 = &Error{Kind: KindBusy}
	ErrPrecondition         = &Error{Kind: KindPrecondition}
	ErrStorage              = &Error{Kind: KindStorage}
	ErrCancelled            = &Error{Kind: KindCancelled}
)

// KindOf returns the ErrorKind of err, or KindNone when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

func newError(kind ErrorKind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// fromAPI normalises a transport failure. Backend reasons are surfaced
// verbatim; network and decode problems get a generic message.
func fromAPI(err error) *Error {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return newError(KindNetwork, MsgNetwork, err)
	}
	switch apiErr.Kind {
	case api.KindServer:
		msg := apiErr.Message
		if msg == "" {
			msg = MsgServerFallback
		}
		return newError(KindServer, msg, err)
	case api.KindDecode:
		return newError(KindDecode, MsgDecode, err)
	default:
		return newError(KindNetwork, MsgNetwork, err)
	}
}

func fromBiometric(err error) *Error {
	switch {
	case errors.Is(err, biometric.ErrLockedOut):
		return newError(KindBiometricLockedOut, MsgBioLockedOut, err)
	case errors.Is(err, biometric.ErrNotAvailable):
		return newError(KindBiometricUnavailable, MsgBioUnavailable, err)
	default:
		return newError(KindBiometricCancelled, MsgBioCancelled, err)
	}
}
