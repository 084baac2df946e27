package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/oddsup/internal/client/models"
	"golang.org/x/text/message"
)

// tokens rounds a balance for display. The printer adds digit grouping.
func tokens(v float64) int64 {
	return int64(math.Round(v))
}

var weekdays = [7]string{"M", "T", "W", "T", "F", "S", "S"}

// weekLine renders Monday-first activity as "M T W ..." with inactive
// days dimmed to a dot.
func weekLine(days [7]bool) string {
	parts := make([]string, len(days))
	for i, on := range days {
		if on {
			parts[i] = weekdays[i]
		} else {
			parts[i] = "."
		}
	}
	return strings.Join(parts, " ")
}

func renderProfile(w io.Writer, p *message.Printer, u *models.UserProfile) {
	p.Fprintf(w, "%s (@%s) - level %d - %d tokens\n", u.Name, u.Username, u.Level, tokens(u.TokensBalance))
	p.Fprintf(w, "XP %d/%d - bets %d - wins %d\n", u.XP, u.XPForNext, u.BetsCount, u.WinsCount)
	fmt.Fprintf(w, "Streak %d (best %d)  %s\n", u.Streak.Current, u.Streak.Longest, weekLine(u.Streak.WeeklyActivity))

	accepted := u.AcceptedFriends()
	fmt.Fprintf(w, "Friends: %d\n", u.FriendsCount)
	for _, f := range accepted {
		fmt.Fprintf(w, "  %s (@%s)\n", f.Name, f.Username)
	}
	for _, f := range u.Friends {
		if f.Status != models.FriendPending {
			continue
		}
		dir := "sent"
		if f.Incoming {
			dir = "incoming"
		}
		fmt.Fprintf(w, "  pending %s: %s (@%s) id=%s\n", dir, f.Name, f.Username, f.ID)
	}
}

func renderFriends(w io.Writer, friends []models.Friend) {
	if len(friends) == 0 {
		fmt.Fprintln(w, "No friends yet. Try 'search <name>' and 'addfriend <id>'.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tLEVEL\tSTATUS")
	for _, f := range friends {
		status := string(f.Status)
		if f.Status == models.FriendPending && f.Incoming {
			status = "incoming"
		}
		fmt.Fprintf(tw, "%s\t%s\t@%s\t%d\t%s\n", f.ID, f.Name, f.Username, f.Level, status)
	}
	_ = tw.Flush()
}

func renderUsers(w io.Writer, users []models.UserSummary) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tUSERNAME\tLEVEL\tFRIEND")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t@%s\t%d\t%t\n", u.ID, u.Name, u.Username, u.Level, u.IsFriend)
	}
	_ = tw.Flush()
}

func renderLeaderboard(w io.Writer, p *message.Printer, typ models.LeaderboardType, entries []models.LeaderboardEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Leaderboard is empty.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tUSER\tSCORE")
	for _, e := range entries {
		marker := ""
		if e.IsCurrentUser {
			marker = " <- you"
		}
		fmt.Fprintf(tw, "%d\t@%s\t%s%s\n", e.Rank, e.Username, score(p, typ, e), marker)
	}
	_ = tw.Flush()
}

func score(p *message.Printer, typ models.LeaderboardType, e models.LeaderboardEntry) string {
	if typ == models.LeaderboardAccuracy {
		v := e.Score
		if e.Accuracy != nil {
			v = *e.Accuracy
		}
		return percent(v)
	}
	return p.Sprintf("%d", tokens(e.Score))
}

// percent formats a 0..1 ratio.
func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func renderNotifications(w io.Writer, list *models.NotificationList) {
	fmt.Fprintf(w, "%d unread\n", list.UnreadCount)
	for _, n := range list.Items {
		mark := " "
		if !n.IsRead {
			mark = "*"
		}
		fmt.Fprintf(w, "%s [%s] %s: %s\n", mark, n.ID, n.Title, n.Message)
	}
}
