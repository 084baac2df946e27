package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/oddsup/internal/client/api"
	"github.com/dmitrijs2005/oddsup/internal/client/models"
)

func (a *App) Profile(ctx context.Context) error {
	renderProfile(a.out, a.p, a.store.Snapshot().Profile)
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.store.RefreshProfile(ctx); err != nil {
		return err
	}
	return a.Profile(ctx)
}

func (a *App) Friends(ctx context.Context) error {
	friends, err := a.store.Friends(ctx)
	if err != nil {
		return err
	}
	renderFriends(a.out, friends)
	return nil
}

// AddFriend sends a request to a user id, or to a username/email when
// the argument is prefixed with @ or contains one.
func (a *App) AddFriend(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("addfriend <user-id|@username|email>")
	}
	target := api.FriendTarget{UserID: models.ID(args[0])}
	if strings.Contains(args[0], "@") {
		target = api.FriendTarget{Query: strings.TrimPrefix(args[0], "@")}
	}
	if err := a.store.SendFriendRequest(ctx, target); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Friend request sent.")
	return nil
}

func (a *App) Accept(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("accept <user-id>")
	}
	if err := a.store.AcceptFriendRequest(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Friend request accepted.")
	return nil
}

func (a *App) Decline(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("decline <user-id>")
	}
	if err := a.store.DeclineFriendRequest(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Friend request declined.")
	return nil
}

func (a *App) Unfriend(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("unfriend <user-id>")
	}
	ok, err := confirm(a.reader, "Remove "+args[0]+" from friends?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.store.RemoveFriend(ctx, models.ID(args[0])); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Friend removed.")
	return nil
}

func (a *App) Search(ctx context.Context, args []string) error {
	users, err := a.store.SearchUsers(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	renderUsers(a.out, users)
	return nil
}

// Leaderboard accepts an optional metric, scope and limit in any order.
func (a *App) Leaderboard(ctx context.Context, args []string) error {
	typ, scope, limit := models.LeaderboardTokens, models.ScopeGlobal, 10
	for _, arg := range args {
		switch t := models.LeaderboardType(arg); t {
		case models.LeaderboardTokens, models.LeaderboardWins, models.LeaderboardAccuracy, models.LeaderboardStreak:
			typ = t
			continue
		}
		switch s := models.LeaderboardScope(arg); s {
		case models.ScopeGlobal, models.ScopeFriends:
			scope = s
			continue
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return usageError("leaderboard [tokens|wins|accuracy|streak] [global|friends] [limit]")
		}
		limit = n
	}

	entries, err := a.store.Leaderboard(ctx, typ, scope, limit)
	if err != nil {
		return err
	}
	renderLeaderboard(a.out, a.p, typ, entries)
	return nil
}

func (a *App) Notifications(ctx context.Context) error {
	list, err := a.store.Notifications(ctx)
	if err != nil {
		return err
	}
	renderNotifications(a.out, list)
	return nil
}

// Read marks the given notifications read, or all of them with no args.
func (a *App) Read(ctx context.Context, args []string) error {
	ids := make([]models.ID, 0, len(args))
	for _, arg := range args {
		ids = append(ids, models.ID(arg))
	}
	if err := a.store.MarkNotificationsRead(ctx, ids...); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Marked as read.")
	return nil
}

func (a *App) Stats(ctx context.Context, args []string) error {
	var id models.ID
	if len(args) > 0 {
		id = models.ID(args[0])
	}
	st, err := a.store.UserStats(ctx, id)
	if err != nil {
		return err
	}
	name := st.Username
	if name == "" {
		name = string(st.UserID)
	}
	a.p.Fprintf(a.out, "@%s - level %d - %d tokens\n", name, st.Level, tokens(st.TokensBalance))
	fmt.Fprintf(a.out, "Bets %d - wins %d - win rate %s\n", st.BetsCount, st.WinsCount, percent(st.WinRate()))
	fmt.Fprintf(a.out, "Streak %d (best %d)  %s\n", st.Streak.Current, st.Streak.Longest, weekLine(st.Streak.WeeklyActivity))
	return nil
}
