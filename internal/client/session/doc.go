// Package session owns the client's single authenticated identity.
//
// Store is a state machine over Status (signedOut, authenticating,
// authenticated, signupPending). It is the only writer of session state:
// commands are serialised through one mutex, views read immutable
// Snapshots, and concurrent login attempts are rejected rather than
// queued. Every failure is normalised to *Error and recorded in the
// snapshot's LastError.
package session
