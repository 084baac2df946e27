package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/oddsup/internal/client/api"
	"github.com/dmitrijs2005/oddsup/internal/client/biometric"
	"github.com/dmitrijs2005/oddsup/internal/client/models"
	"github.com/dmitrijs2005/oddsup/internal/logging"
)

// ---- fake client ----

// fakeClient implements api.Client. Gate channels, when set, block the
// matching call until closed; Started channels are signalled on entry.
type fakeClient struct {
	mu     sync.Mutex
	calls  map[string]int
	tokens map[string]string

	LoginRes *api.LoginResult
	LoginErr error

	SignupRes  *api.SignupResult
	SignupErr  error
	LastSignup api.SignupRequest

	Profile    *models.UserProfile
	ProfileErr error

	FriendsRet []models.Friend
	MutErr     error
	LastTarget api.FriendTarget
	LastID     models.ID

	BetRes  *models.Bet
	BetErr  error
	LastBet models.BetRequest

	SearchRet        []models.UserSummary
	LeaderboardRet   []models.LeaderboardEntry
	NotificationsRet *models.NotificationList
	StatsRet         *models.UserStats
	MarketsRet       []models.Market
	ReadErr          error
	LastMarkRead     []models.ID
	marked           bool

	loginGate      chan struct{}
	loginStarted   chan struct{}
	profileGate    chan struct{}
	profileStarted chan struct{}
	betGate        chan struct{}
	betStarted     chan struct{}
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		calls:    map[string]int{},
		tokens:   map[string]string{},
		LoginRes: &api.LoginResult{Token: "tok-1"},
		Profile:  sampleProfile(),
	}
}

func sampleProfile() *models.UserProfile {
	return &models.UserProfile{
		ID:            "u1",
		Username:      "alice",
		Name:          "Alice",
		Email:         "a@b.com",
		TokensBalance: 1000,
		Level:         3,
		Friends: []models.Friend{
			{ID: "f1", Username: "bob", Name: "Bob", Status: models.FriendAccepted},
			{ID: "f2", Username: "carol", Name: "Carol", Status: models.FriendPending, Incoming: true},
		},
		FriendsCount: 1,
	}
}

func (c *fakeClient) record(ctx context.Context, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[name]++
	if tok, ok := api.TokenFromContext(ctx); ok {
		c.tokens[name] = tok
	}
}

func (c *fakeClient) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[name]
}

func (c *fakeClient) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func (c *fakeClient) tokenFor(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens[name]
}

func (c *fakeClient) setProfile(p *models.UserProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Profile = p
}

func (c *fakeClient) setProfileErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ProfileErr = err
}

func signal(ch chan struct{}) {
	if ch == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

func wait(ch chan struct{}) {
	if ch != nil {
		<-ch
	}
}

func (c *fakeClient) Login(ctx context.Context, email, password string) (*api.LoginResult, error) {
	c.record(ctx, "login")
	signal(c.loginStarted)
	wait(c.loginGate)
	return c.LoginRes, c.LoginErr
}

func (c *fakeClient) Signup(ctx context.Context, req api.SignupRequest) (*api.SignupResult, error) {
	c.record(ctx, "signup")
	c.mu.Lock()
	c.LastSignup = req
	c.mu.Unlock()
	return c.SignupRes, c.SignupErr
}

func (c *fakeClient) FetchProfile(ctx context.Context) (*models.UserProfile, error) {
	c.record(ctx, "profile")
	signal(c.profileStarted)
	wait(c.profileGate)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ProfileErr != nil {
		return nil, c.ProfileErr
	}
	return c.Profile.Clone(), nil
}

func (c *fakeClient) FetchFriends(ctx context.Context) ([]models.Friend, error) {
	c.record(ctx, "friends")
	return c.FriendsRet, c.ReadErr
}

func (c *fakeClient) SendFriendRequest(ctx context.Context, target api.FriendTarget) error {
	c.record(ctx, "sendFriend")
	c.mu.Lock()
	c.LastTarget = target
	c.mu.Unlock()
	return c.MutErr
}

func (c *fakeClient) AcceptFriendRequest(ctx context.Context, id models.ID) error {
	c.record(ctx, "accept")
	c.mu.Lock()
	c.LastID = id
	c.mu.Unlock()
	return c.MutErr
}

func (c *fakeClient) DeclineFriendRequest(ctx context.Context, id models.ID) error {
	c.record(ctx, "decline")
	c.mu.Lock()
	c.LastID = id
	c.mu.Unlock()
	return c.MutErr
}

func (c *fakeClient) RemoveFriend(ctx context.Context, id models.ID) error {
	c.record(ctx, "remove")
	c.mu.Lock()
	c.LastID = id
	c.mu.Unlock()
	return c.MutErr
}

func (c *fakeClient) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	c.record(ctx, "search")
	return c.SearchRet, c.ReadErr
}

func (c *fakeClient) FetchLeaderboard(ctx context.Context, typ models.LeaderboardType, scope models.LeaderboardScope, limit int) ([]models.LeaderboardEntry, error) {
	c.record(ctx, "leaderboard")
	return c.LeaderboardRet, c.ReadErr
}

func (c *fakeClient) FetchNotifications(ctx context.Context) (*models.NotificationList, error) {
	c.record(ctx, "notifications")
	return c.NotificationsRet, c.ReadErr
}

func (c *fakeClient) MarkNotificationsRead(ctx context.Context, ids []models.ID) error {
	c.record(ctx, "markRead")
	c.mu.Lock()
	c.LastMarkRead = ids
	c.marked = true
	c.mu.Unlock()
	return c.ReadErr
}

func (c *fakeClient) FetchUserStats(ctx context.Context, id models.ID) (*models.UserStats, error) {
	c.record(ctx, "stats")
	c.mu.Lock()
	c.LastID = id
	c.mu.Unlock()
	return c.StatsRet, c.ReadErr
}

func (c *fakeClient) FetchMarkets(ctx context.Context, category string) ([]models.Market, error) {
	c.record(ctx, "markets")
	return c.MarketsRet, c.ReadErr
}

func (c *fakeClient) PlaceBet(ctx context.Context, req models.BetRequest) (*models.Bet, error) {
	c.record(ctx, "bet")
	c.mu.Lock()
	c.LastBet = req
	c.mu.Unlock()
	signal(c.betStarted)
	wait(c.betGate)
	return c.BetRes, c.BetErr
}

// ---- fake credential store ----

type fakeCreds struct {
	mu         sync.Mutex
	token      string
	bioEnabled bool
	binding    models.ID

	SaveErr  error
	LoadErr  error
	ClearErr error
	BioErr   error
}

func (f *fakeCreds) Save(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SaveErr != nil {
		return f.SaveErr
	}
	f.token = token
	return nil
}

func (f *fakeCreds) Load(context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.LoadErr
}

func (f *fakeCreds) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ClearErr != nil {
		return f.ClearErr
	}
	f.token = ""
	f.binding = ""
	return nil
}

func (f *fakeCreds) SetBiometricEnabled(_ context.Context, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.BioErr != nil {
		return f.BioErr
	}
	f.bioEnabled = enabled
	if !enabled {
		f.binding = ""
	}
	return nil
}

func (f *fakeCreds) IsBiometricEnabled(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bioEnabled, nil
}

func (f *fakeCreds) BindBiometric(_ context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.BioErr != nil {
		return f.BioErr
	}
	f.binding = id
	return nil
}

func (f *fakeCreds) BiometricBinding(context.Context) (models.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.binding, nil
}

func (f *fakeCreds) storedToken() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// ---- fake gate ----

type fakeGate struct {
	mu      sync.Mutex
	Cap     biometric.Capability
	AuthErr error
	calls   int
}

func availableGate() *fakeGate {
	return &fakeGate{Cap: biometric.Capability{Available: true, Kind: biometric.KindTouchID}}
}

func (g *fakeGate) Probe() biometric.Capability { return g.Cap }

func (g *fakeGate) Authenticate(context.Context) (biometric.Proof, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.AuthErr != nil {
		return biometric.Proof{}, g.AuthErr
	}
	return biometric.Proof{Kind: g.Cap.Kind, VerifiedAt: time.Now()}, nil
}

// ---- helpers ----

func newTestStore(c *fakeClient, cr *fakeCreds, g *fakeGate) *Store {
	return New(c, cr, g, WithLogger(logging.Nop()), WithTimeout(time.Second))
}

func signedIn(t *testing.T) (*Store, *fakeClient, *fakeCreds, *fakeGate) {
	t.Helper()
	c, cr, g := newFakeClient(), &fakeCreds{}, availableGate()
	s := newTestStore(c, cr, g)
	if err := s.Login(context.Background(), "a@b.com", "password1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return s, c, cr, g
}
