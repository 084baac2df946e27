// Package api is the stateless transport to the oddsup backend.
//
// # Overview
//
// Client is the transport-agnostic contract with one method per remote
// action: login/signup, profile, friends, user search, leaderboard,
// notifications, user stats, markets and bets. HTTPClient implements it as
// JSON over HTTP(S), pooling connections and stamping every request with an
// X-Request-ID and any configured static headers (for example X-Device-ID).
//
// Authenticated calls carry the bearer token placed in the context with
// WithToken; the client itself holds no session state and can be shared by
// concurrent callers.
//
// # Error Handling
//
// Every failure is an *Error with a Kind:
//
//   - KindNetwork: connectivity problems and timeouts
//   - KindServer:  non-2xx response, Message holds the backend's reason
//   - KindDecode:  the payload did not match the expected shape
//
// Use errors.Is with ErrNetwork, ErrServer, ErrDecode or ErrUnauthorized
// (401/403) to branch. Nothing is retried here; that is the caller's policy.
package api
