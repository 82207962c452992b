package handlers

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tjgxx/DayZPDAServerTemplate/database"
	"github.com/tjgxx/DayZPDAServerTemplate/middleware"
	"github.com/tjgxx/DayZPDAServerTemplate/models"
	"github.com/tjgxx/DayZPDAServerTemplate/utils"
	"github.com/tjgxx/DayZPDAServerTemplate/websocket"
)

type SendMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	RecipientID string `json:"recipientId"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type MessageListResponse struct {
	Page          int                      `json:"page"`
	Limit         int                      `json:"limit"`
	TotalMessages int64                    `json:"totalMessages"`
	TotalPages    int                      `json:"totalPages"`
	Messages      []models.MessageResponse `json:"messages"`
}

// GetGlobalMessages pages through the broadcast channel, newest first.
func GetGlobalMessages(c *gin.Context) {
	page, limit := utils.ParsePagination(c)

	var total int64
	err := database.DB.QueryRow("SELECT COUNT(*) FROM messages WHERE recipient_id IS NULL").Scan(&total)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	rows, err := database.DB.Query(`
		SELECT m.id, m.sender_id, m.recipient_id, m.content, m.is_anonymous, m.created_at,
			   u.username, u.faction
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.recipient_id IS NULL
		ORDER BY m.created_at DESC
		LIMIT ? OFFSET ?
	`, limit, (page-1)*limit)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	defer rows.Close()

	utils.Success(c, MessageListResponse{
		Page:          page,
		Limit:         limit,
		TotalMessages: total,
		TotalPages:    utils.TotalPages(total, limit),
		Messages:      scanMessages(rows),
	})
}

// GetDirectMessages pages through both directions of the caller's thread
// with one other survivor.
func GetDirectMessages(c *gin.Context) {
	userID := middleware.GetUserID(c)

	recipientID := c.Query("recipientId")
	if recipientID == "" {
		utils.BadRequest(c, "recipientId is required")
		return
	}

	page, limit := utils.ParsePagination(c)

	var total int64
	err := database.DB.QueryRow(`
		SELECT COUNT(*) FROM messages
		WHERE (sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)
	`, userID, recipientID, recipientID, userID).Scan(&total)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	rows, err := database.DB.Query(`
		SELECT m.id, m.sender_id, m.recipient_id, m.content, m.is_anonymous, m.created_at,
			   u.username, u.faction
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE (m.sender_id = ? AND m.recipient_id = ?) OR (m.sender_id = ? AND m.recipient_id = ?)
		ORDER BY m.created_at DESC
		LIMIT ? OFFSET ?
	`, userID, recipientID, recipientID, userID, limit, (page-1)*limit)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	defer rows.Close()

	utils.Success(c, MessageListResponse{
		Page:          page,
		Limit:         limit,
		TotalMessages: total,
		TotalPages:    utils.TotalPages(total, limit),
		Messages:      scanMessages(rows),
	})
}

// SendMessage posts to the global channel, or directly to recipientId when
// present. The stored row always keeps the real sender; anonymity is applied
// when responses are built.
func SendMessage(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if req.RecipientID != "" {
		var exists bool
		err := database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", req.RecipientID).Scan(&exists)
		if err != nil {
			utils.InternalError(c, "database error")
			return
		}
		if !exists {
			utils.NotFound(c, "recipient not found")
			return
		}
	}

	var senderName, senderFaction string
	err := database.DB.QueryRow("SELECT username, faction FROM users WHERE id = ?", userID).Scan(&senderName, &senderFaction)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	message := models.Message{
		ID:          utils.GenerateUUID(),
		SenderID:    userID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		CreatedAt:   time.Now(),
	}
	if req.RecipientID != "" {
		message.RecipientID = &req.RecipientID
	}

	_, err = database.DB.Exec(
		"INSERT INTO messages (id, sender_id, recipient_id, content, is_anonymous, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		message.ID, message.SenderID,
		sql.NullString{String: req.RecipientID, Valid: req.RecipientID != ""},
		message.Content, message.IsAnonymous, message.CreatedAt,
	)
	if err != nil {
		utils.InternalError(c, "failed to send message")
		return
	}

	resp := message.ToResponse(senderName, senderFaction)
	websocket.PushNewMessage(req.RecipientID, resp)

	utils.Created(c, resp)
}

func scanMessages(rows *sql.Rows) []models.MessageResponse {
	messages := []models.MessageResponse{}
	for rows.Next() {
		var m models.Message
		var recipientID sql.NullString
		var senderName, senderFaction string
		if err := rows.Scan(
			&m.ID, &m.SenderID, &recipientID, &m.Content, &m.IsAnonymous, &m.CreatedAt,
			&senderName, &senderFaction,
		); err != nil {
			continue
		}
		if recipientID.Valid {
			m.RecipientID = &recipientID.String
		}
		messages = append(messages, *m.ToResponse(senderName, senderFaction))
	}
	return messages
}
