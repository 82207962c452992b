package models

import "time"

const (
	RequestPending  = "PENDING"
	RequestAccepted = "ACCEPTED"
	RequestDeclined = "DECLINED"
)

type FriendRequest struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"fromUserId"`
	ToUserID   string    `json:"toUserId"`
	Status     string    `json:"status"` // PENDING, ACCEPTED, DECLINED
	CreatedAt  time.Time `json:"createdAt"`
}

type FriendRequestWithSender struct {
	FriendRequest
	From UserResponse `json:"from"`
}

type Friendship struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FriendID  string    `json:"friendId"`
	CreatedAt time.Time `json:"createdAt"`
}
