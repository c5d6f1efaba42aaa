package dto

import "time"

type NotificationResponse struct {
	ID        uint      `json:"id"`
	Verb      string    `json:"verb"`
	ActorID   *string   `json:"actor_id,omitempty"`
	URL       *string   `json:"url,omitempty"`
	Unread    bool      `json:"unread"`
	CreatedAt time.Time `json:"created_at"`
}

type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}
