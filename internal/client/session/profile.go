package session

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/oddsup/internal/client/api"
	"github.com/dmitrijs2005/oddsup/internal/client/models"
	"golang.org/x/sync/singleflight"
)

// RefreshProfile replaces the cached profile with the backend's copy.
// Concurrent refreshes of the same session share one request. A failure
// keeps the cached profile and only records LastError.
func (s *Store) RefreshProfile(ctx context.Context) error {
	const op = "refreshProfile"
	token, gen, e := s.requireSession()
	if e != nil {
		return s.reject(ctx, op, e)
	}

	ch := s.refreshFor(ctx, token, gen)
	select {
	case r := <-ch:
		return r.Err
	case <-ctx.Done():
		return cancelled(ctx)
	}
}

// refreshFor joins or starts the refresh of session gen.
func (s *Store) refreshFor(ctx context.Context, token string, gen uint64) <-chan singleflight.Result {
	return s.refreshes.DoChan(strconv.FormatUint(gen, 10), func() (any, error) {
		return nil, s.refreshFlight(ctx, token, gen)
	})
}

func (s *Store) refreshFlight(ctx context.Context, token string, gen uint64) error {
	s.mu.Lock()
	s.pending++
	s.publishLocked()
	s.mu.Unlock()

	callCtx, cancel := s.detached(ctx)
	defer cancel()
	p, err := s.client.FetchProfile(api.WithToken(callCtx, token))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if gen != s.gen {
		s.publishLocked()
		return newError(KindCancelled, MsgCancelled, nil)
	}
	if err != nil {
		e := fromAPI(err)
		s.recordLocked(e)
		s.publishLocked()
		s.log.Warn(callCtx, "refresh profile", "kind", e.Kind.String(), "err", err)
		return e
	}
	s.state.Profile = p
	s.clearErrorLocked()
	s.publishLocked()
	return nil
}

// mutate runs a profile-changing call. edit, when set, is applied to a
// copy of the cached profile before the call and rolled back if the call
// fails, unless a newer profile has landed in the meantime. A successful
// call is followed by an authoritative refresh.
func (s *Store) mutate(ctx context.Context, op string, edit func(*models.UserProfile) error, call func(context.Context) error) error {
	s.mu.Lock()
	if s.state.Status != StatusAuthenticated {
		s.mu.Unlock()
		return s.reject(ctx, op, newError(KindPrecondition, MsgNotSignedIn, nil))
	}
	token, gen := s.token, s.gen
	prev := s.state.Profile
	var optimistic *models.UserProfile
	if edit != nil {
		optimistic = prev.Clone()
		if err := edit(optimistic); err != nil {
			s.mu.Unlock()
			return s.reject(ctx, op, err)
		}
		s.state.Profile = optimistic
	}
	s.pending++
	s.publishLocked()
	s.mu.Unlock()

	callCtx, cancel := s.detached(ctx)
	defer cancel()
	err := call(api.WithToken(callCtx, token))

	s.mu.Lock()
	s.pending--
	if err != nil {
		e := fromAPI(err)
		if optimistic != nil && s.state.Profile == optimistic {
			s.state.Profile = prev
		}
		if gen == s.gen {
			s.recordLocked(e)
		}
		s.publishLocked()
		s.mu.Unlock()
		s.log.Warn(ctx, "command failed", "op", op, "kind", e.Kind.String(), "err", err)
		return e
	}
	current := gen == s.gen
	s.publishLocked()
	s.mu.Unlock()

	s.log.Debug(ctx, "command succeeded", "op", op)
	if !current {
		return nil
	}
	if r := <-s.refreshFor(context.WithoutCancel(ctx), token, gen); r.Err != nil {
		s.log.Warn(ctx, "refresh after command", "op", op, "err", r.Err)
	}
	return nil
}

// PlaceBet stakes tokens on a market outcome. The balance is debited
// locally at once and reconciled with the backend afterwards.
func (s *Store) PlaceBet(ctx context.Context, req models.BetRequest) (*models.Bet, error) {
	const op = "placeBet"
	if req.MarketID == "" || req.OutcomeID == "" {
		return nil, s.reject(ctx, op, newError(KindValidation, "Please choose a market and an outcome.", nil))
	}
	if req.Amount <= 0 {
		return nil, s.reject(ctx, op, newError(KindValidation, "Bet amount must be greater than zero.", nil))
	}

	var bet *models.Bet
	err := s.mutate(ctx, op,
		func(p *models.UserProfile) error {
			if req.Amount > p.TokensBalance {
				return newError(KindValidation, "Not enough tokens for this bet.", nil)
			}
			p.TokensBalance -= req.Amount
			p.BetsCount++
			return nil
		},
		func(ctx context.Context) error {
			b, err := s.client.PlaceBet(ctx, req)
			bet = b
			return err
		})
	if err != nil {
		return nil, err
	}
	return bet, nil
}

// SendFriendRequest invites a user by id or by username/email query.
func (s *Store) SendFriendRequest(ctx context.Context, target api.FriendTarget) error {
	const op = "sendFriendRequest"
	if target.UserID == "" && target.Query == "" {
		return s.reject(ctx, op, newError(KindValidation, "Please enter a username or email.", nil))
	}
	return s.mutate(ctx, op, nil, func(ctx context.Context) error {
		return s.client.SendFriendRequest(ctx, target)
	})
}

// AcceptFriendRequest accepts a pending incoming request.
func (s *Store) AcceptFriendRequest(ctx context.Context, id models.ID) error {
	return s.mutate(ctx, "acceptFriendRequest",
		func(p *models.UserProfile) error {
			for i := range p.Friends {
				if p.Friends[i].ID == id && p.Friends[i].Status == models.FriendPending {
					p.Friends[i].Status = models.FriendAccepted
					p.Friends[i].Incoming = false
					p.FriendsCount++
				}
			}
			return nil
		},
		func(ctx context.Context) error {
			return s.client.AcceptFriendRequest(ctx, id)
		})
}

// DeclineFriendRequest rejects a pending incoming request.
func (s *Store) DeclineFriendRequest(ctx context.Context, id models.ID) error {
	return s.mutate(ctx, "declineFriendRequest",
		func(p *models.UserProfile) error {
			dropFriend(p, id)
			return nil
		},
		func(ctx context.Context) error {
			return s.client.DeclineFriendRequest(ctx, id)
		})
}

// RemoveFriend ends a friendship.
func (s *Store) RemoveFriend(ctx context.Context, id models.ID) error {
	return s.mutate(ctx, "removeFriend",
		func(p *models.UserProfile) error {
			dropFriend(p, id)
			return nil
		},
		func(ctx context.Context) error {
			return s.client.RemoveFriend(ctx, id)
		})
}

func dropFriend(p *models.UserProfile, id models.ID) {
	kept := p.Friends[:0]
	for _, f := range p.Friends {
		if f.ID != id {
			kept = append(kept, f)
			continue
		}
		if f.Status == models.FriendAccepted && p.FriendsCount > 0 {
			p.FriendsCount--
		}
	}
	p.Friends = kept
}
