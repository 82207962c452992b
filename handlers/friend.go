package handlers

import (
	"database/sql"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tjgxx/DayZPDAServerTemplate/database"
	"github.com/tjgxx/DayZPDAServerTemplate/middleware"
	"github.com/tjgxx/DayZPDAServerTemplate/models"
	"github.com/tjgxx/DayZPDAServerTemplate/utils"
)

type SendFriendRequestRequest struct {
	ToUserID string `json:"toUserId" binding:"required"`
}

type RespondFriendRequestRequest struct {
	RequestID string `json:"requestId" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=ACCEPTED DECLINED"`
}

// SendFriendRequest opens a PENDING request. The unique (from, to) key on
// friend_requests backs up the duplicate check here.
func SendFriendRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req SendFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if req.ToUserID == userID {
		utils.BadRequest(c, "cannot send a friend request to yourself")
		return
	}

	var exists bool
	err := database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", req.ToUserID).Scan(&exists)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if !exists {
		utils.NotFound(c, "user not found")
		return
	}

	var alreadyFriends bool
	err = database.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = ? AND friend_id = ?)",
		userID, req.ToUserID,
	).Scan(&alreadyFriends)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if alreadyFriends {
		utils.BadRequest(c, "already friends")
		return
	}

	var pending bool
	err = database.DB.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM friend_requests WHERE from_user_id = ? AND to_user_id = ? AND status = 'PENDING')",
		userID, req.ToUserID,
	).Scan(&pending)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if pending {
		utils.BadRequest(c, "friend request already sent")
		return
	}

	// Crossing requests: if the other side already asked, accept that instead.
	var reverseID string
	err = database.DB.QueryRow(
		"SELECT id FROM friend_requests WHERE from_user_id = ? AND to_user_id = ? AND status = 'PENDING'",
		req.ToUserID, userID,
	).Scan(&reverseID)
	if err == nil {
		respondToRequest(c, reverseID, userID, models.RequestAccepted)
		return
	}
	if err != sql.ErrNoRows {
		utils.InternalError(c, "database error")
		return
	}

	request := models.FriendRequest{
		ID:         utils.GenerateUUID(),
		FromUserID: userID,
		ToUserID:   req.ToUserID,
		Status:     models.RequestPending,
		CreatedAt:  time.Now(),
	}

	_, err = database.DB.Exec(
		"INSERT INTO friend_requests (id, from_user_id, to_user_id, status, created_at) VALUES (?, ?, ?, 'PENDING', ?)",
		request.ID, request.FromUserID, request.ToUserID, request.CreatedAt,
	)
	if err != nil {
		utils.InternalError(c, "failed to send friend request")
		return
	}

	utils.Created(c, request)
}

func RespondFriendRequest(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req RespondFriendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	respondToRequest(c, req.RequestID, userID, req.Status)
}

// respondToRequest consumes a PENDING request addressed to userID. Accepting
// inserts both friendship rows in the same transaction as the delete, so a
// crash cannot leave a one-sided friendship or a dangling request.
func respondToRequest(c *gin.Context, requestID, userID, status string) {
	tx, err := database.DB.Begin()
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	var fromUserID string
	err = tx.QueryRow(
		"SELECT from_user_id FROM friend_requests WHERE id = ? AND to_user_id = ? AND status = 'PENDING'",
		requestID, userID,
	).Scan(&fromUserID)
	if err == sql.ErrNoRows {
		tx.Rollback()
		utils.NotFound(c, "friend request not found")
		return
	}
	if err != nil {
		tx.Rollback()
		utils.InternalError(c, "database error")
		return
	}

	result, err := tx.Exec("DELETE FROM friend_requests WHERE id = ? AND status = 'PENDING'", requestID)
	if err != nil {
		tx.Rollback()
		utils.InternalError(c, "failed to respond to friend request")
		return
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil || rowsAffected == 0 {
		tx.Rollback()
		utils.NotFound(c, "friend request not found")
		return
	}

	if status == models.RequestAccepted {
		now := time.Now()
		for _, pair := range [][2]string{{fromUserID, userID}, {userID, fromUserID}} {
			_, err = tx.Exec(
				"INSERT INTO friendships (id, user_id, friend_id, created_at) VALUES (?, ?, ?, ?)",
				utils.GenerateUUID(), pair[0], pair[1], now,
			)
			if err != nil {
				tx.Rollback()
				utils.InternalError(c, "failed to create friendship")
				return
			}
		}
	}

	if err := tx.Commit(); err != nil {
		utils.InternalError(c, "failed to commit transaction")
		return
	}

	utils.Success(c, gin.H{"message": "friend request " + strings.ToLower(status)})
}

// GetFriendRequests lists PENDING requests addressed to the caller.
func GetFriendRequests(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := database.DB.Query(`
		SELECT r.id, r.from_user_id, r.to_user_id, r.status, r.created_at,
			   u.id, u.username, u.steam_id, u.faction, u.is_online
		FROM friend_requests r
		JOIN users u ON u.id = r.from_user_id
		WHERE r.to_user_id = ? AND r.status = 'PENDING'
		ORDER BY r.created_at DESC
	`, userID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	defer rows.Close()

	requests := []models.FriendRequestWithSender{}
	for rows.Next() {
		var r models.FriendRequestWithSender
		var sender models.User
		if err := rows.Scan(
			&r.ID, &r.FromUserID, &r.ToUserID, &r.Status, &r.CreatedAt,
			&sender.ID, &sender.Username, &sender.SteamID, &sender.Faction, &sender.IsOnline,
		); err != nil {
			continue
		}
		r.From = *sender.ToResponse()
		requests = append(requests, r)
	}

	utils.Success(c, requests)
}
