package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/oddsup/internal/client/biometric"
	"github.com/dmitrijs2005/oddsup/internal/common"
)

// Capability probes the verifier and merges in the user's preference.
func (s *Store) Capability(ctx context.Context) biometric.Capability {
	c := s.gate.Probe()
	enabled, err := s.creds.IsBiometricEnabled(ctx)
	if err != nil {
		s.log.Warn(ctx, "read biometric preference", "err", err)
	}
	c.UserEnabled = enabled
	return c
}

// LoginWithBiometric unlocks the stored session after a successful
// challenge. A failed challenge never touches the stored token.
func (s *Store) LoginWithBiometric(ctx context.Context) error {
	const op = "biometricLogin"
	c := s.Capability(ctx)
	if !c.Available || !c.UserEnabled {
		return s.reject(ctx, op, newError(KindBiometricUnavailable, MsgBioUnavailable, nil))
	}
	if e := s.beginAuth(); e != nil {
		return s.reject(ctx, op, e)
	}

	proof, err := s.gate.Authenticate(ctx)
	if err != nil {
		return s.failAuth(ctx, op, fromBiometric(err))
	}
	s.log.Debug(ctx, "biometric challenge passed", "kind", string(proof.Kind))

	binding, err := s.creds.BiometricBinding(ctx)
	if err != nil {
		return s.failAuth(ctx, op, newError(KindStorage, MsgStorage, err))
	}
	token, err := s.creds.Load(ctx)
	switch {
	case errors.Is(err, common.ErrInvalidToken):
		s.forget(ctx)
		return s.failAuth(ctx, op, newError(KindNoStoredSession, MsgNoStoredSession, err))
	case err != nil:
		return s.failAuth(ctx, op, newError(KindStorage, MsgStorage, err))
	case token == "" || binding == "":
		return s.failAuth(ctx, op, newError(KindNoStoredSession, MsgNoStoredSession, nil))
	}

	return s.restore(ctx, op, token, binding)
}

// EnableBiometric turns on biometric unlock for the signed-in user and
// binds it to the current stored session.
func (s *Store) EnableBiometric(ctx context.Context) error {
	const op = "enableBiometric"
	s.mu.Lock()
	if s.state.Status != StatusAuthenticated {
		s.mu.Unlock()
		return s.reject(ctx, op, newError(KindPrecondition, MsgNotSignedIn, nil))
	}
	id := s.state.Profile.ID
	s.mu.Unlock()

	if !s.gate.Probe().Available {
		return s.reject(ctx, op, newError(KindBiometricUnavailable, MsgBioUnavailable, nil))
	}
	if err := s.creds.SetBiometricEnabled(ctx, true); err != nil {
		return s.reject(ctx, op, newError(KindStorage, MsgStorage, err))
	}
	if err := s.creds.BindBiometric(ctx, id); err != nil {
		return s.reject(ctx, op, newError(KindStorage, MsgStorage, err))
	}
	s.log.Info(ctx, "biometric unlock enabled")
	return nil
}

// DisableBiometric turns biometric unlock off and drops the binding.
func (s *Store) DisableBiometric(ctx context.Context) error {
	if err := s.creds.SetBiometricEnabled(ctx, false); err != nil {
		return s.reject(ctx, "disableBiometric", newError(KindStorage, MsgStorage, err))
	}
	s.log.Info(ctx, "biometric unlock disabled")
	return nil
}
