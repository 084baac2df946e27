package models

import "encoding/json"

// UserProfile is the cached snapshot of the signed-in user's server state.
// It is replaced wholesale on every refresh.
type UserProfile struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`

	TokensBalance float64 `json:"tokens_balance"`
	Level         int     `json:"level"`
	XP            int     `json:"xp"`
	XPForNext     int     `json:"xp_for_next"`

	Friends      []Friend `json:"friends"`
	FriendsCount int      `json:"friends_count"`

	BetsCount int    `json:"bets_count"`
	WinsCount int    `json:"wins_count"`
	Streak    Streak `json:"streak"`
}

// Streak tracks daily activity. WeeklyActivity is Monday-first.
type Streak struct {
	Current        int     `json:"current"`
	Longest        int     `json:"longest"`
	WeeklyActivity [7]bool `json:"weekly_activity"`
}

type profileWire struct {
	ID            ID       `json:"id"`
	UserID        *ID      `json:"user_id"`
	Username      string   `json:"username"`
	Name          *string  `json:"name"`
	Email         string   `json:"email"`
	TokensBalance *float64 `json:"tokens_balance"`
	Tokens        *float64 `json:"tokens"`
	Level         int      `json:"level"`
	XP            int      `json:"xp"`
	XPForNext     int      `json:"xp_for_next"`
	Friends       []Friend `json:"friends"`
	FriendsCount  *int     `json:"friends_count"`
	BetsCount     int      `json:"bets_count"`
	WinsCount     int      `json:"wins_count"`
	Streak        Streak   `json:"streak"`
}

// UnmarshalJSON resolves wire fallbacks:
//   - id: id, then user_id
//   - name: name, then username
//   - tokens_balance: tokens_balance, then tokens; negatives clamp to 0
//   - friends_count: friends_count, then len(friends)
func (p *UserProfile) UnmarshalJSON(b []byte) error {
	var w profileWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	var balance float64
	switch {
	case w.TokensBalance != nil:
		balance = *w.TokensBalance
	case w.Tokens != nil:
		balance = *w.Tokens
	}
	if balance < 0 {
		balance = 0
	}

	friendsCount := len(w.Friends)
	if w.FriendsCount != nil {
		friendsCount = *w.FriendsCount
	}

	*p = UserProfile{
		ID:            firstID(&w.ID, w.UserID),
		Username:      w.Username,
		Name:          displayName(w.Name, w.Username),
		Email:         w.Email,
		TokensBalance: balance,
		Level:         w.Level,
		XP:            w.XP,
		XPForNext:     w.XPForNext,
		Friends:       w.Friends,
		FriendsCount:  friendsCount,
		BetsCount:     w.BetsCount,
		WinsCount:     w.WinsCount,
		Streak:        w.Streak,
	}
	return nil
}

// Clone returns a deep copy so callers can hold a snapshot that later
// refreshes will not mutate.
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	if p.Friends != nil {
		c.Friends = append([]Friend(nil), p.Friends...)
	}
	return &c
}

// AcceptedFriends returns friends whose request has been accepted.
func (p *UserProfile) AcceptedFriends() []Friend {
	var out []Friend
	for _, f := range p.Friends {
		if f.Status == FriendAccepted {
			out = append(out, f)
		}
	}
	return out
}

type streakWire struct {
	Current        int    `json:"current"`
	Longest        int    `json:"longest"`
	WeeklyActivity []bool `json:"weekly_activity"`
}

// UnmarshalJSON accepts weekly_activity of any length; missing days are
// false and extra days are dropped.
func (s *Streak) UnmarshalJSON(b []byte) error {
	var w streakWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	s.Current = w.Current
	s.Longest = w.Longest
	s.WeeklyActivity = [7]bool{}
	copy(s.WeeklyActivity[:], w.WeeklyActivity)
	return nil
}
