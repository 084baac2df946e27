package models

import "encoding/json"

// LeaderboardType selects the ranking metric.
type LeaderboardType string

const (
	LeaderboardTokens   LeaderboardType = "tokens"
	LeaderboardWins     LeaderboardType = "wins"
	LeaderboardAccuracy LeaderboardType = "accuracy"
	LeaderboardStreak   LeaderboardType = "streak"
)

// LeaderboardScope selects which users are ranked.
type LeaderboardScope string

const (
	ScopeGlobal  LeaderboardScope = "global"
	ScopeFriends LeaderboardScope = "friends"
)

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank          int      `json:"rank"`
	UserID        ID       `json:"user_id"`
	Username      string   `json:"username"`
	Name          string   `json:"name"`
	Score         float64  `json:"score"`
	Accuracy      *float64 `json:"accuracy,omitempty"`
	IsCurrentUser bool     `json:"is_current_user"`
}

type leaderboardEntryWire struct {
	Rank          int      `json:"rank"`
	UserID        *ID      `json:"user_id"`
	ID            *ID      `json:"id"`
	Username      string   `json:"username"`
	Name          *string  `json:"name"`
	Score         *float64 `json:"score"`
	Value         *float64 `json:"value"`
	Accuracy      *float64 `json:"accuracy"`
	IsCurrentUser bool     `json:"is_current_user"`
}

// UnmarshalJSON resolves user id as user_id, then id; score as score,
// then value; name falls back to username.
func (e *LeaderboardEntry) UnmarshalJSON(b []byte) error {
	var w leaderboardEntryWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	var score float64
	switch {
	case w.Score != nil:
		score = *w.Score
	case w.Value != nil:
		score = *w.Value
	}
	*e = LeaderboardEntry{
		Rank:          w.Rank,
		UserID:        firstID(w.UserID, w.ID),
		Username:      w.Username,
		Name:          displayName(w.Name, w.Username),
		Score:         score,
		Accuracy:      w.Accuracy,
		IsCurrentUser: w.IsCurrentUser,
	}
	return nil
}
