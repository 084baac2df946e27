// Package biometric probes for a human-presence verifier on the device and
// runs the unlock challenge. A successful challenge yields a Proof; it never
// creates a session by itself, it only authorises reading the stored token.
package biometric

import (
	"context"
	"errors"
	"time"
)

// Kind is the verifier technology.
type Kind string

const (
	KindFaceID  Kind = "faceId"
	KindTouchID Kind = "touchId"
	KindNone    Kind = "none"
)

// ParseKind maps a config value to a Kind; unknown values are KindNone.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindFaceID, KindTouchID:
		return Kind(s)
	default:
		return KindNone
	}
}

// Capability is derived on every check and never persisted. Gates fill
// Available and Kind; UserEnabled comes from the credential store.
type Capability struct {
	Available   bool
	Kind        Kind
	UserEnabled bool
}

// Proof is evidence that a human passed the challenge.
type Proof struct {
	Kind       Kind
	VerifiedAt time.Time
}

var (
	ErrUserCancelled = errors.New("biometric challenge cancelled")
	ErrLockedOut     = errors.New("biometric verifier locked out")
	ErrNotAvailable  = errors.New("biometric verifier not available")
)

// Gate is the platform verifier.
type Gate interface {
	// Probe reports hardware availability without blocking on the user.
	Probe() Capability
	// Authenticate blocks until the challenge completes. It returns one of
	// ErrUserCancelled, ErrLockedOut or ErrNotAvailable on failure.
	Authenticate(ctx context.Context) (Proof, error)
}
