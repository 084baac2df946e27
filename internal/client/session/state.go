package session

import "github.com/dmitrijs2005/oddsup/internal/client/models"

// Status is the authentication state of the session.
type Status int

const (
	StatusSignedOut Status = iota
	StatusAuthenticating
	StatusAuthenticated
	StatusSignupPending
)

func (s Status) String() string {
	switch s {
	case StatusSignedOut:
		return "signedOut"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusSignupPending:
		return "signupPending"
	default:
		return "unknown"
	}
}

// Snapshot is a read-only view of the session. Profile is a private copy
// and is non-nil exactly when Status is StatusAuthenticated.
type Snapshot struct {
	Status  Status
	Profile *models.UserProfile

	// PendingEmail is the address awaiting verification in StatusSignupPending.
	PendingEmail string
	// PrefillEmail is offered to the sign-in form after ReturnToSignIn.
	PrefillEmail string
	// Notice is the backend's acknowledgement of the last signup.
	Notice string

	LastError     string
	LastErrorKind ErrorKind
	IsLoading     bool
}

// IsAuthenticated reports whether a user is signed in.
func (s Snapshot) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated
}

func (s Snapshot) clone() Snapshot {
	s.Profile = s.Profile.Clone()
	return s
}
