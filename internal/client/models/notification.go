package models

import "time"

// Notification types sent by the backend.
const (
	NotificationFriendRequest  = "friend_request"
	NotificationFriendAccepted = "friend_accepted"
	NotificationBetSettled     = "bet_settled"
	NotificationStreak         = "streak"
)

// Notification is a single inbox item.
type Notification struct {
	ID        ID        `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	ActorID   *ID       `json:"actor_id,omitempty"`
}

// NotificationList is the inbox plus the unread badge count.
type NotificationList struct {
	Items       []Notification `json:"notifications"`
	UnreadCount int            `json:"unread_count"`
}

// Unread returns the ids of unread items.
func (l NotificationList) Unread() []ID {
	var ids []ID
	for _, n := range l.Items {
		if !n.IsRead {
			ids = append(ids, n.ID)
		}
	}
	return ids
}
