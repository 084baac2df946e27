package api

import (
	"context"

	"github.com/dmitrijs2005/oddsup/internal/client/models"
)

// Client is the transport contract for the oddsup backend. Every
// operation is stateless; authenticated calls read the bearer token
// from the context (see WithToken). Implementations never retry.
type Client interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Signup(ctx context.Context, req SignupRequest) (*SignupResult, error)
	FetchProfile(ctx context.Context) (*models.UserProfile, error)
	FetchFriends(ctx context.Context) ([]models.Friend, error)
	SendFriendRequest(ctx context.Context, target FriendTarget) error
	AcceptFriendRequest(ctx context.Context, userID models.ID) error
	DeclineFriendRequest(ctx context.Context, userID models.ID) error
	RemoveFriend(ctx context.Context, userID models.ID) error
	SearchUsers(ctx context.Context, query string) ([]models.UserSummary, error)
	FetchLeaderboard(ctx context.Context, typ models.LeaderboardType, scope models.LeaderboardScope, limit int) ([]models.LeaderboardEntry, error)
	FetchNotifications(ctx context.Context) (*models.NotificationList, error)
	MarkNotificationsRead(ctx context.Context, ids []models.ID) error
	FetchUserStats(ctx context.Context, userID models.ID) (*models.UserStats, error)
	FetchMarkets(ctx context.Context, category string) ([]models.Market, error)
	PlaceBet(ctx context.Context, req models.BetRequest) (*models.Bet, error)
}
