package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a remote call failed.
type Kind int

const (
	// KindNetwork covers connectivity failures and timeouts.
	KindNetwork Kind = iota + 1
	// KindServer is a non-2xx response; Message carries the backend's reason.
	KindServer
	// KindDecode is a payload that does not match the expected shape.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching against *Error.
var (
	ErrNetwork      = errors.New("network error")
	ErrServer       = errors.New("server error")
	ErrDecode       = errors.New("decode error")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is returned by every Client operation that fails.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindServer:
		return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
		}
		return e.Kind.String() + " error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrServer:
		return e.Kind == KindServer
	case ErrDecode:
		return e.Kind == KindDecode
	case ErrUnauthorized:
		return e.Kind == KindServer && (e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
	}
	return false
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

func decodeError(err error) *Error {
	return &Error{Kind: KindDecode, Err: err}
}
