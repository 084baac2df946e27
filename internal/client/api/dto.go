package api

import (
	"encoding/json"
	"errors"

	"github.com/dmitrijs2005/oddsup/internal/client/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is a successful password login.
type LoginResult struct {
	Token string
	// User is the profile embedded in the login response, if any.
	User *models.UserProfile
}

type loginResponseWire struct {
	Token       string              `json:"token"`
	AccessToken string              `json:"access_token"`
	User        *models.UserProfile `json:"user"`
}

func (r *LoginResult) UnmarshalJSON(b []byte) error {
	var w loginResponseWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	token := w.Token
	if token == "" {
		token = w.AccessToken
	}
	if token == "" {
		return errors.New("login response without token")
	}
	r.Token = token
	r.User = w.User
	return nil
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResult is the backend acknowledgement of a registration. The
// account still needs email verification before it can log in.
type SignupResult struct {
	Message     string  `json:"message"`
	BonusTokens float64 `json:"bonus_tokens"`
}

// FriendTarget identifies who to send a friend request to: either a
// known user id or a free-form username/email query.
type FriendTarget struct {
	UserID models.ID `json:"user_id,omitempty"`
	Query  string    `json:"query,omitempty"`
}

type friendsResponse struct {
	Friends []models.Friend `json:"friends"`
}

type searchResponse struct {
	Users []models.UserSummary `json:"users"`
}

type leaderboardResponse struct {
	Entries []models.LeaderboardEntry `json:"entries"`
}

type marketsResponse struct {
	Markets []models.Market `json:"markets"`
}

type markReadRequest struct {
	IDs []models.ID `json:"ids,omitempty"`
	All bool        `json:"all,omitempty"`
}

// errorBody covers the error shapes the backend is known to send:
//
//	{"error": "message"}
//	{"error": {"code": "...", "message": "..."}}
//	{"message": "message"}
type errorBody struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// serverMessage extracts a human-readable reason from body. It returns ""
// when none is present.
func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	if len(eb.Error) > 0 {
		var s string
		if err := json.Unmarshal(eb.Error, &s); err == nil && s != "" {
			return s
		}
		var d errorDetail
		if err := json.Unmarshal(eb.Error, &d); err == nil && d.Message != "" {
			return d.Message
		}
	}
	return eb.Message
}
