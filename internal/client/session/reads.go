package session

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/oddsup/internal/client/api"
	"github.com/dmitrijs2005/oddsup/internal/client/models"
)

// authed runs a read on behalf of the signed-in user. Failures are
// recorded in LastError while the session is still the one that issued
// the call.
func authed[T any](ctx context.Context, s *Store, op string, call func(context.Context) (T, error)) (T, error) {
	var zero T
	token, gen, e := s.requireSession()
	if e != nil {
		return zero, s.reject(ctx, op, e)
	}

	callCtx, cancel := s.detached(ctx)
	defer cancel()
	v, err := call(api.WithToken(callCtx, token))
	if err != nil {
		e := fromAPI(err)
		s.mu.Lock()
		if gen == s.gen {
			s.recordLocked(e)
			s.publishLocked()
		}
		s.mu.Unlock()
		s.log.Warn(ctx, "request failed", "op", op, "kind", e.Kind.String(), "err", err)
		return zero, e
	}
	if ctx.Err() != nil {
		return zero, cancelled(ctx)
	}
	return v, nil
}

// Friends fetches the friend list, including pending requests.
func (s *Store) Friends(ctx context.Context) ([]models.Friend, error) {
	return authed(ctx, s, "friends", s.client.FetchFriends)
}

// SearchUsers finds users by username or name.
func (s *Store) SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error) {
	const op = "searchUsers"
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, s.reject(ctx, op, newError(KindValidation, "Please enter a search term.", nil))
	}
	return authed(ctx, s, op, func(ctx context.Context) ([]models.UserSummary, error) {
		return s.client.SearchUsers(ctx, query)
	})
}

// Leaderboard returns the top entries for a metric and scope.
func (s *Store) Leaderboard(ctx context.Context, typ models.LeaderboardType, scope models.LeaderboardScope, limit int) ([]models.LeaderboardEntry, error) {
	return authed(ctx, s, "leaderboard", func(ctx context.Context) ([]models.LeaderboardEntry, error) {
		return s.client.FetchLeaderboard(ctx, typ, scope, limit)
	})
}

func (s *Store) Notifications(ctx context.Context) (*models.NotificationList, error) {
	return authed(ctx, s, "notifications", s.client.FetchNotifications)
}

// MarkNotificationsRead marks the given notifications read; no ids marks
// all of them.
func (s *Store) MarkNotificationsRead(ctx context.Context, ids ...models.ID) error {
	_, err := authed(ctx, s, "markNotificationsRead", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.client.MarkNotificationsRead(ctx, ids)
	})
	return err
}

// UserStats returns betting stats for id, or for the signed-in user when
// id is empty.
func (s *Store) UserStats(ctx context.Context, id models.ID) (*models.UserStats, error) {
	if id == "" {
		s.mu.Lock()
		if s.state.Profile != nil {
			id = s.state.Profile.ID
		}
		s.mu.Unlock()
	}
	return authed(ctx, s, "userStats", func(ctx context.Context) (*models.UserStats, error) {
		return s.client.FetchUserStats(ctx, id)
	})
}

// Markets lists markets, optionally filtered by category.
func (s *Store) Markets(ctx context.Context, category string) ([]models.Market, error) {
	return authed(ctx, s, "markets", func(ctx context.Context) ([]models.Market, error) {
		return s.client.FetchMarkets(ctx, category)
	})
}
