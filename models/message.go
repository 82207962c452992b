package models

import "time"

type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	RecipientID *string   `json:"recipientId,omitempty"` // nil means global broadcast
	Content     string    `json:"content"`
	IsAnonymous bool      `json:"isAnonymous"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SenderInfo struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Faction  string `json:"faction,omitempty"`
}

type MessageResponse struct {
	ID          string     `json:"id"`
	Sender      SenderInfo `json:"sender"`
	RecipientID string     `json:"recipientId,omitempty"`
	Content     string     `json:"content"`
	IsAnonymous bool       `json:"isAnonymous"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ToResponse hides the author of anonymous messages.
func (m *Message) ToResponse(senderName, senderFaction string) *MessageResponse {
	resp := &MessageResponse{
		ID:          m.ID,
		Content:     m.Content,
		IsAnonymous: m.IsAnonymous,
		CreatedAt:   m.CreatedAt,
	}
	if m.RecipientID != nil {
		resp.RecipientID = *m.RecipientID
	}
	if m.IsAnonymous {
		resp.Sender = SenderInfo{Username: "Anonymous"}
	} else {
		resp.Sender = SenderInfo{ID: m.SenderID, Username: senderName, Faction: senderFaction}
	}
	return resp
}
