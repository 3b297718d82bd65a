package models

import "time"

const (
	FriendPending  = "pending"
	FriendAccepted = "accepted"
)

type Friendship struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	FriendID  int64     `json:"friend_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type FriendRequest struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}
