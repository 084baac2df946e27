package models

import "encoding/json"

// FriendStatus is the state of a friendship.
type FriendStatus string

const (
	FriendPending  FriendStatus = "pending"
	FriendAccepted FriendStatus = "accepted"
)

// Friend is a summary of another user in the signed-in user's friend list.
type Friend struct {
	ID       ID           `json:"friend_id"`
	Username string       `json:"username"`
	Name     string       `json:"name"`
	Status   FriendStatus `json:"status"`
	Level    int          `json:"level"`
	// Incoming is true for pending requests sent to the signed-in user.
	Incoming bool `json:"incoming"`
}

type friendWire struct {
	FriendID *ID     `json:"friend_id"`
	ID       *ID     `json:"id"`
	Username string  `json:"username"`
	Name     *string `json:"name"`
	Status   string  `json:"status"`
	Level    int     `json:"level"`
	Incoming bool    `json:"incoming"`
}

// UnmarshalJSON resolves id as friend_id, then id; name falls back to
// username; unknown statuses are treated as pending.
func (f *Friend) UnmarshalJSON(b []byte) error {
	var w friendWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	status := FriendStatus(w.Status)
	if status != FriendAccepted {
		status = FriendPending
	}
	*f = Friend{
		ID:       firstID(w.FriendID, w.ID),
		Username: w.Username,
		Name:     displayName(w.Name, w.Username),
		Status:   status,
		Level:    w.Level,
		Incoming: w.Incoming,
	}
	return nil
}

// UserSummary is a search result row.
type UserSummary struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	IsFriend bool   `json:"is_friend"`
}

type userSummaryWire struct {
	ID       *ID     `json:"id"`
	UserID   *ID     `json:"user_id"`
	Username string  `json:"username"`
	Name     *string `json:"name"`
	Level    int     `json:"level"`
	IsFriend bool    `json:"is_friend"`
}

func (u *UserSummary) UnmarshalJSON(b []byte) error {
	var w userSummaryWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*u = UserSummary{
		ID:       firstID(w.ID, w.UserID),
		Username: w.Username,
		Name:     displayName(w.Name, w.Username),
		Level:    w.Level,
		IsFriend: w.IsFriend,
	}
	return nil
}

// UserStats are public gamified stats of any user.
type UserStats struct {
	UserID        ID       `json:"user_id"`
	Username      string   `json:"username"`
	BetsCount     int      `json:"bets_count"`
	WinsCount     int      `json:"wins_count"`
	Accuracy      *float64 `json:"accuracy,omitempty"`
	TokensBalance float64  `json:"tokens_balance"`
	Level         int      `json:"level"`
	Streak        Streak   `json:"streak"`
}

// WinRate returns Accuracy when the backend sent it, otherwise the ratio
// computed from counts. It is 0 when no bets were placed.
func (s UserStats) WinRate() float64 {
	if s.Accuracy != nil {
		return *s.Accuracy
	}
	if s.BetsCount == 0 {
		return 0
	}
	return float64(s.WinsCount) / float64(s.BetsCount)
}
