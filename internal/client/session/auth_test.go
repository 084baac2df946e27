package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/oddsup/internal/client/api"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_ValidationFailsWithoutNetwork(t *testing.T) {
	cases := []struct {
		name     string
		email    string
		password string
		msg      string
	}{
		{"empty email", "", "password1", MsgMissingLogin},
		{"blank email", "   ", "password1", MsgMissingLogin},
		{"empty password", "a@b.com", "", MsgMissingLogin},
		{"short password", "a@b.com", "short", MsgPasswordTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, cr := newFakeClient(), &fakeCreds{}
			s := newTestStore(c, cr, availableGate())

			err := s.Login(context.Background(), tc.email, tc.password)
			require.ErrorIs(t, err, ErrValidation)

			snap := s.Snapshot()
			assert.Equal(t, StatusSignedOut, snap.Status)
			assert.Equal(t, tc.msg, snap.LastError)
			assert.Equal(t, KindValidation, snap.LastErrorKind)
			assert.Nil(t, snap.Profile)
			assert.Zero(t, c.total(), "no network call expected")
		})
	}
}

func TestLogin_Success(t *testing.T) {
	s, c, cr, _ := signedIn(t)

	snap := s.Snapshot()
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.True(t, snap.IsAuthenticated())
	require.NotNil(t, snap.Profile)
	assert.Equal(t, sampleProfile(), snap.Profile)
	assert.Empty(t, snap.LastError)
	assert.False(t, snap.IsLoading)

	assert.Equal(t, "tok-1", cr.storedToken())
	assert.Equal(t, 1, c.count("login"))
	assert.Equal(t, 1, c.count("profile"))
	assert.Equal(t, "tok-1", c.tokenFor("profile"))
}

func TestLogin_SnapshotIsACopy(t *testing.T) {
	s, _, _, _ := signedIn(t)

	snap := s.Snapshot()
	snap.Profile.TokensBalance = 1
	snap.Profile.Friends[0].Name = "mutated"

	again := s.Snapshot()
	assert.Equal(t, float64(1000), again.Profile.TokensBalance)
	assert.Equal(t, "Bob", again.Profile.Friends[0].Name)
}

func TestLogin_Failures(t *testing.T) {
	cases := []struct {
		name     string
		loginErr error
		kind     ErrorKind
		msg      string
	}{
		{
			name:     "server reason is shown verbatim",
			loginErr: &api.Error{Kind: api.KindServer, Status: 401, Message: "Invalid credentials"},
			kind:     KindServer,
			msg:      "Invalid credentials",
		},
		{
			name:     "server without reason",
			loginErr: &api.Error{Kind: api.KindServer, Status: 500},
			kind:     KindServer,
			msg:      MsgServerFallback,
		},
		{
			name:     "network",
			loginErr: &api.Error{Kind: api.KindNetwork, Err: errors.New("dial tcp: refused")},
			kind:     KindNetwork,
			msg:      MsgNetwork,
		},
		{
			name:     "decode",
			loginErr: &api.Error{Kind: api.KindDecode, Err: errors.New("unexpected EOF")},
			kind:     KindDecode,
			msg:      MsgDecode,
		},
		{
			name:     "untyped error",
			loginErr: errors.New("boom"),
			kind:     KindNetwork,
			msg:      MsgNetwork,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, cr := newFakeClient(), &fakeCreds{}
			c.LoginErr = tc.loginErr
			s := newTestStore(c, cr, availableGate())

			err := s.Login(context.Background(), "a@b.com", "password1")
			require.Error(t, err)
			assert.Equal(t, tc.kind, KindOf(err))

			snap := s.Snapshot()
			assert.Equal(t, StatusSignedOut, snap.Status)
			assert.Equal(t, tc.msg, snap.LastError)
			assert.Equal(t, tc.kind, snap.LastErrorKind)
			assert.Nil(t, snap.Profile)
			assert.False(t, snap.IsLoading)
			assert.Empty(t, cr.storedToken())
			assert.Zero(t, c.count("profile"))
		})
	}
}

func TestLogin_ProfileFailureDoesNotPersistToken(t *testing.T) {
	c, cr := newFakeClient(), &fakeCreds{}
	c.ProfileErr = &api.Error{Kind: api.KindDecode, Err: errors.New("bad json")}
	s := newTestStore(c, cr, availableGate())

	err := s.Login(context.Background(), "a@b.com", "password1")
	require.ErrorIs(t, err, ErrDecode)
	assert.Equal(t, StatusSignedOut, s.Snapshot().Status)
	assert.Empty(t, cr.storedToken())
}

func TestLogin_StorageFailure(t *testing.T) {
	c, cr := newFakeClient(), &fakeCreds{SaveErr: errors.New("disk full")}
	s := newTestStore(c, cr, availableGate())

	err := s.Login(context.Background(), "a@b.com", "password1")
	require.ErrorIs(t, err, ErrStorage)
	snap := s.Snapshot()
	assert.Equal(t, StatusSignedOut, snap.Status)
	assert.Equal(t, MsgStorage, snap.LastError)
}

func TestLogin_ConcurrentAttemptIsRejected(t *testing.T) {
	c, cr := newFakeClient(), &fakeCreds{}
	c.loginGate = make(chan struct{})
	c.loginStarted = make(chan struct{}, 1)
	s := newTestStore(c, cr, availableGate())

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = s.Login(context.Background(), "a@b.com", "password1")
	}()
	<-c.loginStarted

	snap := s.Snapshot()
	assert.Equal(t, StatusAuthenticating, snap.Status)
	assert.True(t, snap.IsLoading)

	err := s.Login(context.Background(), "a@b.com", "password1")
	require.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, s.Snapshot().LastError, "busy rejection leaves the in-flight state alone")

	require.ErrorIs(t, s.Logout(context.Background()), ErrBusy)

	close(c.loginGate)
	wg.Wait()
	require.NoError(t, firstErr)

	assert.Equal(t, StatusAuthenticated, s.Snapshot().Status)
	assert.Equal(t, 1, c.count("login"))
}

func TestLogin_WhileAuthenticated(t *testing.T) {
	s, c, _, _ := signedIn(t)

	err := s.Login(context.Background(), "other@b.com", "password2")
	require.ErrorIs(t, err, ErrPrecondition)
	snap := s.Snapshot()
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.Equal(t, MsgAlreadySignedIn, snap.LastError)
	assert.Equal(t, 1, c.count("login"))
}

func TestLogin_CallerGoneDiscardsResult(t *testing.T) {
	c, cr := newFakeClient(), &fakeCreds{}
	c.loginGate = make(chan struct{})
	c.loginStarted = make(chan struct{}, 1)
	s := newTestStore(c, cr, availableGate())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Login(ctx, "a@b.com", "password1") }()
	<-c.loginStarted

	cancel()
	close(c.loginGate)

	err := <-errCh
	require.ErrorIs(t, err, ErrCancelled)

	snap := s.Snapshot()
	assert.Equal(t, StatusSignedOut, snap.Status)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, snap.LastError)
	assert.Empty(t, cr.storedToken())
}

func TestLogout_RestoresPreLoginState(t *testing.T) {
	c, cr := newFakeClient(), &fakeCreds{bioEnabled: true}
	s := newTestStore(c, cr, availableGate())
	ctx := context.Background()

	before := s.Snapshot()
	require.NoError(t, s.Login(ctx, "a@b.com", "password1"))
	assert.Equal(t, "u1", string(cr.binding), "kept preference re-binds on password login")

	require.NoError(t, s.Logout(ctx))

	assert.Equal(t, before, s.Snapshot())
	assert.Empty(t, cr.storedToken())
	assert.Empty(t, cr.binding)
	assert.True(t, s.Capability(ctx).UserEnabled, "preference survives logout")
}

func TestLogout_StorageFailureStillSignsOut(t *testing.T) {
	s, _, cr, _ := signedIn(t)
	cr.ClearErr = errors.New("locked")

	err := s.Logout(context.Background())
	require.ErrorIs(t, err, ErrStorage)

	snap := s.Snapshot()
	assert.Equal(t, StatusSignedOut, snap.Status)
	assert.Nil(t, snap.Profile)
	assert.Equal(t, MsgStorage, snap.LastError)
}

func validForm() SignupForm {
	return SignupForm{
		Name:          "Alice",
		Username:      "alice",
		Email:         "a@b.com",
		Password:      "password1",
		TermsAccepted: true,
	}
}

func TestSignup_PendingThenReturnToSignIn(t *testing.T) {
	c, cr := newFakeClient(), &fakeCreds{}
	c.SignupRes = &api.SignupResult{Message: "Check your inbox", BonusTokens: 500}
	s := newTestStore(c, cr, availableGate())

	form := validForm()
	form.Email = "  a@b.com "
	require.NoError(t, s.Signup(context.Background(), form))

	snap := s.Snapshot()
	assert.Equal(t, StatusSignupPending, snap.Status)
	assert.Equal(t, "a@b.com", snap.PendingEmail)
	assert.Equal(t, "Check your inbox", snap.Notice)
	assert.Nil(t, snap.Profile)
	assert.Empty(t, cr.storedToken(), "signup never creates a session")
	assert.Zero(t, c.count("profile"))
	assert.Equal(t, "a@b.com", c.LastSignup.Email)
	assert.Equal(t, "alice", c.LastSignup.Username)

	s.ReturnToSignIn()
	snap = s.Snapshot()
	assert.Equal(t, StatusSignedOut, snap.Status)
	assert.Equal(t, "a@b.com", snap.PrefillEmail)
	assert.Empty(t, snap.PendingEmail)
}

func TestSignup_Validation(t *testing.T) {
	cases := map[string]func(*SignupForm){
		"no name":                  func(f *SignupForm) { f.Name = " " },
		"short username":           func(f *SignupForm) { f.Username = "al" },
		"short multibyte username": func(f *SignupForm) { f.Username = "юз" },
		"bad email":                func(f *SignupForm) { f.Email = "alice" },
		"no dot after at":          func(f *SignupForm) { f.Email = "a.b@c" },
		"short password":           func(f *SignupForm) { f.Password = "1234567" },
		"short multibyte password": func(f *SignupForm) { f.Password = "пароль1" },
		"terms":                    func(f *SignupForm) { f.TermsAccepted = false },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := newFakeClient()
			s := newTestStore(c, &fakeCreds{}, availableGate())
			form := validForm()
			mutate(&form)

			err := s.Signup(context.Background(), form)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, StatusSignedOut, s.Snapshot().Status)
			assert.NotEmpty(t, s.Snapshot().LastError)
			assert.Zero(t, c.total())
		})
	}
}

func TestSignup_ServerError(t *testing.T) {
	c := newFakeClient()
	c.SignupErr = &api.Error{Kind: api.KindServer, Status: 409, Message: "Email already registered"}
	s := newTestStore(c, &fakeCreds{}, availableGate())

	err := s.Signup(context.Background(), validForm())
	require.ErrorIs(t, err, ErrServer)
	snap := s.Snapshot()
	assert.Equal(t, StatusSignedOut, snap.Status)
	assert.Equal(t, "Email already registered", snap.LastError)
}

func TestReturnToSignIn_NoopOutsidePending(t *testing.T) {
	s, _, _, _ := signedIn(t)
	before := s.Snapshot()
	s.ReturnToSignIn()
	assert.Equal(t, before, s.Snapshot())
}

func TestLogin_AfterSignupPending(t *testing.T) {
	c := newFakeClient()
	c.SignupRes = &api.SignupResult{Message: "ok"}
	s := newTestStore(c, &fakeCreds{}, availableGate())
	ctx := context.Background()

	require.NoError(t, s.Signup(ctx, validForm()))
	require.NoError(t, s.Login(ctx, "a@b.com", "password1"))

	snap := s.Snapshot()
	assert.Equal(t, StatusAuthenticated, snap.Status)
	assert.Empty(t, snap.PendingEmail)
	assert.Empty(t, snap.Notice)
}

func TestLogin_FailureFromSignupPendingDropsPendingEmail(t *testing.T) {
	c := newFakeClient()
	c.SignupRes = &api.SignupResult{Message: "ok"}
	s := newTestStore(c, &fakeCreds{}, availableGate())
	ctx := context.Background()

	require.NoError(t, s.Signup(ctx, validForm()))
	require.Equal(t, StatusSignupPending, s.Snapshot().Status)

	c.LoginErr = &api.Error{Kind: api.KindServer, Status: 403, Message: "Email not verified"}
	require.ErrorIs(t, s.Login(ctx, "a@b.com", "password1"), ErrServer)

	snap := s.Snapshot()
	assert.Equal(t, StatusSignedOut, snap.Status)
	assert.Empty(t, snap.PendingEmail)
	assert.Equal(t, "Email not verified", snap.LastError)
}

func signedJWT(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return tok
}

func TestResume(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing stored", func(t *testing.T) {
		c := newFakeClient()
		s := newTestStore(c, &fakeCreds{}, availableGate())
		ok, err := s.Resume(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, StatusSignedOut, s.Snapshot().Status)
		assert.False(t, s.Snapshot().IsLoading)
		assert.Zero(t, c.total())
	})

	t.Run("opaque token restores", func(t *testing.T) {
		c := newFakeClient()
		s := newTestStore(c, &fakeCreds{token: "tok-9"}, availableGate())
		ok, err := s.Resume(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, StatusAuthenticated, s.Snapshot().Status)
		assert.Equal(t, "tok-9", c.tokenFor("profile"))
		assert.Zero(t, c.count("login"))
	})

	t.Run("live jwt restores", func(t *testing.T) {
		c := newFakeClient()
		tok := signedJWT(t, time.Now().Add(time.Hour))
		s := newTestStore(c, &fakeCreds{token: tok}, availableGate())
		ok, err := s.Resume(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("biometric guarded session waits", func(t *testing.T) {
		c := newFakeClient()
		s := newTestStore(c, &fakeCreds{token: "tok-9", bioEnabled: true, binding: "u1"}, availableGate())
		ok, err := s.Resume(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, StatusSignedOut, s.Snapshot().Status)
		assert.Zero(t, c.total())
	})

	t.Run("expired jwt is dropped", func(t *testing.T) {
		c := newFakeClient()
		cr := &fakeCreds{token: signedJWT(t, time.Now().Add(-time.Hour))}
		s := newTestStore(c, cr, availableGate())
		ok, err := s.Resume(ctx)
		require.ErrorIs(t, err, ErrNoStoredSession)
		assert.False(t, ok)
		assert.Empty(t, cr.storedToken())
		assert.Equal(t, MsgSessionExpired, s.Snapshot().LastError)
		assert.Zero(t, c.total())
	})

	t.Run("revoked token is dropped", func(t *testing.T) {
		c := newFakeClient()
		c.ProfileErr = &api.Error{Kind: api.KindServer, Status: 401, Message: "token revoked"}
		cr := &fakeCreds{token: "tok-9"}
		s := newTestStore(c, cr, availableGate())
		ok, err := s.Resume(ctx)
		require.ErrorIs(t, err, ErrNoStoredSession)
		assert.False(t, ok)
		assert.Empty(t, cr.storedToken())
	})

	t.Run("offline keeps token", func(t *testing.T) {
		c := newFakeClient()
		c.ProfileErr = &api.Error{Kind: api.KindNetwork, Err: errors.New("offline")}
		cr := &fakeCreds{token: "tok-9"}
		s := newTestStore(c, cr, availableGate())
		ok, err := s.Resume(ctx)
		require.ErrorIs(t, err, ErrNetwork)
		assert.False(t, ok)
		assert.Equal(t, "tok-9", cr.storedToken())
		assert.Equal(t, MsgNetwork, s.Snapshot().LastError)
	})
}

func TestSubscribe_DeliversLatestAndCloses(t *testing.T) {
	c := newFakeClient()
	s := newTestStore(c, &fakeCreds{}, availableGate())
	ctx, cancel := context.WithCancel(context.Background())

	ch := s.Subscribe(ctx)
	first := <-ch
	assert.Equal(t, StatusSignedOut, first.Status)

	require.NoError(t, s.Login(context.Background(), "a@b.com", "password1"))
	latest := <-ch
	assert.Equal(t, StatusAuthenticated, latest.Status)
	require.NotNil(t, latest.Profile)

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}
