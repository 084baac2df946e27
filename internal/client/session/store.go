package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/oddsup/internal/client/api"
	"github.com/dmitrijs2005/oddsup/internal/client/biometric"
	"github.com/dmitrijs2005/oddsup/internal/client/credentials"
	"github.com/dmitrijs2005/oddsup/internal/logging"
	"golang.org/x/sync/singleflight"
)

const DefaultTimeout = 15 * time.Second

// Store is the session state machine. The zero value is not usable; build
// one with New.
type Store struct {
	client  api.Client
	creds   credentials.Store
	gate    biometric.Gate
	log     logging.Logger
	timeout time.Duration
	now     func() time.Time

	mu       sync.Mutex
	state    Snapshot
	token    string
	gen      uint64 // bumped on every sign-in and sign-out
	authBusy bool
	pending  int
	logged   Status // last status written to the log

	subs    map[uint64]chan Snapshot
	nextSub uint64

	refreshes singleflight.Group
}

// Option customises a Store.
type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithTimeout bounds every network call made on behalf of a command.
// Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a signed-out Store. A nil gate behaves as a device without
// a biometric verifier.
func New(client api.Client, creds credentials.Store, gate biometric.Gate, opts ...Option) *Store {
	if gate == nil {
		gate = noGate{}
	}
	s := &Store{
		client:  client,
		creds:   creds,
		gate:    gate,
		log:     logging.Nop(),
		timeout: DefaultTimeout,
		now:     time.Now,
		state:   Snapshot{Status: StatusSignedOut},
		subs:    make(map[uint64]chan Snapshot),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("component", "session")
	return s
}

// Snapshot returns the current session view.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe returns a channel that always holds the latest snapshot,
// starting with the current one. Slow readers skip intermediate states.
// The channel is closed once ctx is done.
func (s *Store) Subscribe(ctx context.Context) <-chan Snapshot {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.state.clone()
	s.mu.Unlock()

	context.AfterFunc(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
		close(ch)
	})
	return ch
}

// publishLocked refreshes IsLoading, logs status transitions and pushes
// the state to subscribers. Callers hold s.mu.
func (s *Store) publishLocked() {
	s.state.IsLoading = s.authBusy || s.pending > 0
	if s.state.Status != s.logged {
		s.log.Info(context.Background(), "state changed", "from", s.logged.String(), "to", s.state.Status.String())
		s.logged = s.state.Status
	}
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.state.clone()
	}
}

func (s *Store) recordLocked(e *Error) {
	s.state.LastError = e.Message
	s.state.LastErrorKind = e.Kind
}

func (s *Store) clearErrorLocked() {
	s.state.LastError = ""
	s.state.LastErrorKind = KindNone
}

// reject records a failure that did not change Status. Busy and cancelled
// results leave the snapshot untouched so an in-flight command keeps
// ownership of it.
func (s *Store) reject(ctx context.Context, op string, err error) error {
	e := asError(err)
	if e.Kind != KindBusy && e.Kind != KindCancelled {
		s.mu.Lock()
		s.recordLocked(e)
		s.publishLocked()
		s.mu.Unlock()
	}
	s.log.Warn(ctx, "command rejected", "op", op, "kind", e.Kind.String(), "reason", e.Message)
	return e
}

// detached derives a context for a network call that outlives the
// caller's cancellation but not the configured timeout.
func (s *Store) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	base := context.WithoutCancel(ctx)
	if s.timeout <= 0 {
		return context.WithCancel(base)
	}
	return context.WithTimeout(base, s.timeout)
}

// requireSession returns the token and generation of the signed-in user.
func (s *Store) requireSession() (string, uint64, *Error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Status != StatusAuthenticated {
		return "", 0, newError(KindPrecondition, MsgNotSignedIn, nil)
	}
	return s.token, s.gen, nil
}

func asError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return fromAPI(err)
}

func cancelled(ctx context.Context) *Error {
	return newError(KindCancelled, MsgCancelled, context.Cause(ctx))
}

type noGate struct{}

func (noGate) Probe() biometric.Capability {
	return biometric.Capability{Kind: biometric.KindNone}
}

func (noGate) Authenticate(context.Context) (biometric.Proof, error) {
	return biometric.Proof{}, biometric.ErrNotAvailable
}
