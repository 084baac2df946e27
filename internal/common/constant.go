// Package common contains shared constants and helpers used across
// oddsup client components.
package common

// Outbound HTTP header names.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	DeviceIDHeaderName      = "X-Device-ID"
)

// BearerPrefix precedes the session token in the Authorization header.
const BearerPrefix = "Bearer "
