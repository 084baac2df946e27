package session

import (
	"strings"
	"unicode/utf8"
)

const (
	minPasswordLen = 8
	minUsernameLen = 3
)

// SignupForm is the data collected by the registration screen.
type SignupForm struct {
	Name          string
	Username      string
	Email         string
	Password      string
	TermsAccepted bool
}

// ValidateLogin checks the credentials locally before any network call.
func ValidateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return newError(KindValidation, MsgMissingLogin, nil)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return newError(KindValidation, MsgPasswordTooShort, nil)
	}
	return nil
}

// ValidateSignup checks the registration form locally.
func ValidateSignup(f SignupForm) error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return newError(KindValidation, "Please enter your name.", nil)
	case utf8.RuneCountInString(strings.TrimSpace(f.Username)) < minUsernameLen:
		return newError(KindValidation, "Username must be at least 3 characters.", nil)
	case !looksLikeEmail(strings.TrimSpace(f.Email)):
		return newError(KindValidation, "Please enter a valid email address.", nil)
	case utf8.RuneCountInString(f.Password) < minPasswordLen:
		return newError(KindValidation, MsgPasswordTooShort, nil)
	case !f.TermsAccepted:
		return newError(KindValidation, "You must accept the terms to continue.", nil)
	}
	return nil
}

// looksLikeEmail accepts any string with an '@' followed somewhere by a '.'.
// The backend owns real address validation.
func looksLikeEmail(s string) bool {
	_, domain, ok := strings.Cut(s, "@")
	return ok && strings.Contains(domain, ".")
}
