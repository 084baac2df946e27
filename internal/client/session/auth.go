package session

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/oddsup/internal/client/api"
	"github.com/dmitrijs2005/oddsup/internal/client/models"
	"github.com/dmitrijs2005/oddsup/internal/common"
)

// beginAuth claims the single sign-in slot and moves to authenticating.
func (s *Store) beginAuth() *Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authBusy {
		return newError(KindBusy, MsgBusy, nil)
	}
	if s.state.Status == StatusAuthenticated {
		return newError(KindPrecondition, MsgAlreadySignedIn, nil)
	}
	s.authBusy = true
	s.state.Status = StatusAuthenticating
	s.state.Notice = ""
	s.clearErrorLocked()
	s.publishLocked()
	return nil
}

// failAuth releases the sign-in slot and falls back to signedOut.
func (s *Store) failAuth(ctx context.Context, op string, e *Error) error {
	s.mu.Lock()
	s.authBusy = false
	s.state.Status = StatusSignedOut
	s.state.Profile = nil
	s.state.PendingEmail = ""
	if e.Kind != KindCancelled {
		s.recordLocked(e)
	}
	s.publishLocked()
	s.mu.Unlock()

	s.log.Warn(ctx, "sign-in failed", "op", op, "kind", e.Kind.String(), "reason", e.Message, "err", e.Err)
	return e
}

// settle releases the sign-in slot without recording an error.
func (s *Store) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authBusy = false
	s.state.Status = StatusSignedOut
	s.state.Profile = nil
	s.state.PendingEmail = ""
	s.publishLocked()
}

func (s *Store) completeAuth(ctx context.Context, op, token string, p *models.UserProfile) {
	s.mu.Lock()
	s.authBusy = false
	s.token = token
	s.gen++
	s.state = Snapshot{Status: StatusAuthenticated, Profile: p}
	s.publishLocked()
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "op", op, "user", string(p.ID))
}

// Login exchanges email and password for a session. Input is validated
// locally first; on success the token is persisted and the full profile
// cached.
func (s *Store) Login(ctx context.Context, email, password string) error {
	const op = "login"
	email = strings.TrimSpace(email)
	if err := ValidateLogin(email, password); err != nil {
		return s.reject(ctx, op, err)
	}
	if e := s.beginAuth(); e != nil {
		return s.reject(ctx, op, e)
	}

	callCtx, cancel := s.detached(ctx)
	defer cancel()

	res, err := s.client.Login(callCtx, email, password)
	if err != nil {
		return s.failAuth(ctx, op, fromAPI(err))
	}
	profile, err := s.client.FetchProfile(api.WithToken(callCtx, res.Token))
	if err != nil {
		return s.failAuth(ctx, op, fromAPI(err))
	}
	if ctx.Err() != nil {
		return s.failAuth(ctx, op, cancelled(ctx))
	}
	if err := s.creds.Save(callCtx, res.Token); err != nil {
		return s.failAuth(ctx, op, newError(KindStorage, MsgStorage, err))
	}
	s.rebindBiometric(callCtx, profile.ID)

	s.completeAuth(ctx, op, res.Token, profile)
	return nil
}

// rebindBiometric re-arms biometric unlock for a fresh password session
// when the user has kept the preference on.
func (s *Store) rebindBiometric(ctx context.Context, id models.ID) {
	enabled, err := s.creds.IsBiometricEnabled(ctx)
	if err != nil {
		s.log.Warn(ctx, "read biometric preference", "err", err)
		return
	}
	if !enabled {
		return
	}
	if err := s.creds.BindBiometric(ctx, id); err != nil {
		s.log.Warn(ctx, "bind biometric", "err", err)
	}
}

// Signup registers an account. No session is created: the store moves
// to signupPending until the user verifies the address and signs in.
func (s *Store) Signup(ctx context.Context, form SignupForm) error {
	const op = "signup"
	form.Email = strings.TrimSpace(form.Email)
	form.Username = strings.TrimSpace(form.Username)
	form.Name = strings.TrimSpace(form.Name)
	if err := ValidateSignup(form); err != nil {
		return s.reject(ctx, op, err)
	}
	if e := s.beginAuth(); e != nil {
		return s.reject(ctx, op, e)
	}

	callCtx, cancel := s.detached(ctx)
	defer cancel()

	res, err := s.client.Signup(callCtx, api.SignupRequest{
		Name:     form.Name,
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return s.failAuth(ctx, op, fromAPI(err))
	}
	if ctx.Err() != nil {
		return s.failAuth(ctx, op, cancelled(ctx))
	}

	s.mu.Lock()
	s.authBusy = false
	s.state = Snapshot{
		Status:       StatusSignupPending,
		PendingEmail: form.Email,
		Notice:       res.Message,
	}
	s.publishLocked()
	s.mu.Unlock()

	s.log.Info(ctx, "signup pending verification", "bonus_tokens", res.BonusTokens)
	return nil
}

// ReturnToSignIn leaves signupPending for the sign-in form, prefilled
// with the pending address. It is a no-op in any other state.
func (s *Store) ReturnToSignIn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != StatusSignupPending {
		return
	}
	s.state = Snapshot{Status: StatusSignedOut, PrefillEmail: s.state.PendingEmail}
	s.publishLocked()
}

// Logout clears the stored token and biometric binding and drops the
// cached profile. The biometric preference survives. In-memory state is
// reset even if the credential store fails.
func (s *Store) Logout(ctx context.Context) error {
	const op = "logout"
	s.mu.Lock()
	if s.authBusy {
		s.mu.Unlock()
		return s.reject(ctx, op, newError(KindBusy, MsgBusy, nil))
	}
	s.authBusy = true
	s.mu.Unlock()

	callCtx, cancel := s.detached(ctx)
	defer cancel()
	err := s.creds.Clear(callCtx)

	s.mu.Lock()
	s.authBusy = false
	s.token = ""
	s.gen++
	s.state = Snapshot{Status: StatusSignedOut}
	var e *Error
	if err != nil {
		e = newError(KindStorage, MsgStorage, err)
		s.recordLocked(e)
	}
	s.publishLocked()
	s.mu.Unlock()

	if e != nil {
		s.log.Error(ctx, "clear credentials", "err", err)
		return e
	}
	s.log.Info(ctx, "signed out")
	return nil
}

// Resume restores a persisted session at startup. It reports false
// without error when there is nothing to restore or when the stored
// session is guarded by biometric unlock.
func (s *Store) Resume(ctx context.Context) (bool, error) {
	const op = "resume"
	if e := s.beginAuth(); e != nil {
		return false, s.reject(ctx, op, e)
	}

	token, err := s.creds.Load(ctx)
	switch {
	case errors.Is(err, common.ErrInvalidToken):
		s.forget(ctx)
		s.settle()
		return false, nil
	case err != nil:
		return false, s.failAuth(ctx, op, newError(KindStorage, MsgStorage, err))
	case token == "":
		s.settle()
		return false, nil
	}

	enabled, err := s.creds.IsBiometricEnabled(ctx)
	if err != nil {
		return false, s.failAuth(ctx, op, newError(KindStorage, MsgStorage, err))
	}
	binding, err := s.creds.BiometricBinding(ctx)
	if err != nil {
		return false, s.failAuth(ctx, op, newError(KindStorage, MsgStorage, err))
	}
	if enabled && binding != "" {
		s.settle()
		return false, nil
	}

	if err := s.restore(ctx, op, token, ""); err != nil {
		return false, err
	}
	return true, nil
}

// restore validates a stored token against the backend and commits the
// session. The caller holds the sign-in slot. A non-empty binding must
// match the profile the token belongs to.
func (s *Store) restore(ctx context.Context, op, token string, binding models.ID) error {
	if tokenExpired(token, s.now()) {
		s.forget(ctx)
		return s.failAuth(ctx, op, newError(KindNoStoredSession, MsgSessionExpired, common.ErrTokenExpired))
	}

	callCtx, cancel := s.detached(ctx)
	defer cancel()

	profile, err := s.client.FetchProfile(api.WithToken(callCtx, token))
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.forget(callCtx)
			return s.failAuth(ctx, op, newError(KindNoStoredSession, MsgSessionExpired, err))
		}
		return s.failAuth(ctx, op, fromAPI(err))
	}
	if binding != "" && profile.ID != binding {
		s.forget(callCtx)
		return s.failAuth(ctx, op, newError(KindNoStoredSession, MsgNoStoredSession, nil))
	}
	if ctx.Err() != nil {
		return s.failAuth(ctx, op, cancelled(ctx))
	}

	s.completeAuth(ctx, op, token, profile)
	return nil
}

// forget drops a token that can no longer be used.
func (s *Store) forget(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Error(ctx, "clear credentials", "err", err)
	}
}
