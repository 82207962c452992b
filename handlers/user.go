package handlers

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/tjgxx/DayZPDAServerTemplate/database"
	"github.com/tjgxx/DayZPDAServerTemplate/middleware"
	"github.com/tjgxx/DayZPDAServerTemplate/models"
	"github.com/tjgxx/DayZPDAServerTemplate/utils"
)

type UpdateUserRequest struct {
	Faction string `json:"faction" binding:"required,oneof=LONER SURVIVOR BANDIT TRADER MEDIC MILITARY"`
}

// GetUser returns a user's public profile with the resolved friend list.
func GetUser(c *gin.Context) {
	targetID := c.Param("id")

	var user models.User
	var lastLogin sql.NullTime
	err := database.DB.QueryRow(
		"SELECT id, username, steam_id, faction, is_online, last_login_at, created_at FROM users WHERE id = ?",
		targetID,
	).Scan(&user.ID, &user.Username, &user.SteamID, &user.Faction, &user.IsOnline, &lastLogin, &user.CreatedAt)

	if err == sql.ErrNoRows {
		utils.NotFound(c, "user not found")
		return
	}
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}

	rows, err := database.DB.Query(`
		SELECT u.id, u.username, u.steam_id, u.faction, u.is_online
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = ?
		ORDER BY u.username
	`, targetID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	defer rows.Close()

	friends := []models.UserResponse{}
	for rows.Next() {
		var friend models.User
		if err := rows.Scan(&friend.ID, &friend.Username, &friend.SteamID, &friend.Faction, &friend.IsOnline); err != nil {
			continue
		}
		friends = append(friends, *friend.ToResponse())
	}

	utils.Success(c, models.UserWithFriends{
		UserResponse: *user.ToResponse(),
		Friends:      friends,
	})
}

// GetAllUsers lists every other survivor for the PDA contact screen.
func GetAllUsers(c *gin.Context) {
	userID := middleware.GetUserID(c)

	rows, err := database.DB.Query(`
		SELECT id, username, steam_id, faction, is_online FROM users
		WHERE id != ?
		ORDER BY username
	`, userID)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	defer rows.Close()

	users := []models.UserResponse{}
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.SteamID, &user.Faction, &user.IsOnline); err != nil {
			continue
		}
		users = append(users, *user.ToResponse())
	}

	utils.Success(c, users)
}

// UpdateCurrentUser lets a survivor switch faction.
func UpdateCurrentUser(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	_, err := database.DB.Exec("UPDATE users SET faction = ? WHERE id = ?", req.Faction, userID)
	if err != nil {
		utils.InternalError(c, "failed to update user")
		return
	}

	c.Params = append(c.Params, gin.Param{Key: "id", Value: userID})
	GetUser(c)
}
