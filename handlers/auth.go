package handlers

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"

	"github.com/tjgxx/DayZPDAServerTemplate/database"
	"github.com/tjgxx/DayZPDAServerTemplate/middleware"
	"github.com/tjgxx/DayZPDAServerTemplate/models"
	"github.com/tjgxx/DayZPDAServerTemplate/utils"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	SteamID  string `json:"steamId" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var exists bool
	err := database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)", req.Username).Scan(&exists)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if exists {
		utils.BadRequest(c, "username already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.InternalError(c, "failed to hash password")
		return
	}

	id := utils.GenerateUUID()
	now := time.Now()

	_, err = database.DB.Exec(
		"INSERT INTO users (id, username, steam_id, password, created_at) VALUES (?, ?, ?, ?, ?)",
		id, req.Username, req.SteamID, string(hashedPassword), now,
	)
	if err != nil {
		// A concurrent register can slip past the EXISTS check and land on
		// the unique username key instead.
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			utils.BadRequest(c, "username already exists")
			return
		}
		utils.InternalError(c, "failed to create user")
		return
	}

	token, err := utils.GenerateToken(id)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	utils.Created(c, AuthResponse{
		Token: token,
		User: models.UserResponse{
			ID:        id,
			Username:  req.Username,
			SteamID:   req.SteamID,
			Faction:   models.FactionLoner,
			CreatedAt: now,
		},
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var user models.User
	err := database.DB.QueryRow(
		"SELECT id, username, steam_id, password, faction, created_at FROM users WHERE username = ?",
		req.Username,
	).Scan(&user.ID, &user.Username, &user.SteamID, &user.Password, &user.Faction, &user.CreatedAt)

	if err == sql.ErrNoRows {
		utils.NotFound(c, "user not found")
		return
	}
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.Unauthorized(c, "invalid password")
		return
	}

	now := time.Now()
	_, err = database.DB.Exec(
		"UPDATE users SET is_online = TRUE, last_login_at = ? WHERE id = ?",
		now, user.ID,
	)
	if err != nil {
		utils.InternalError(c, "failed to update login state")
		return
	}

	user.IsOnline = true
	user.LastLoginAt = &now

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.InternalError(c, "failed to generate token")
		return
	}

	utils.Success(c, AuthResponse{
		Token: token,
		User:  *user.ToResponse(),
	})
}

// Logout clears the online flag and denylists the presented token for the
// rest of its lifetime, so it stops authenticating before natural expiry.
func Logout(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var exists bool
	err := database.DB.QueryRow("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", userID).Scan(&exists)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if !exists {
		utils.NotFound(c, "user not found")
		return
	}

	if _, err := database.DB.Exec("UPDATE users SET is_online = FALSE WHERE id = ?", userID); err != nil {
		utils.InternalError(c, "failed to update user")
		return
	}

	if database.RDB != nil {
		token := middleware.GetToken(c)
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
				database.RDB.Set(c.Request.Context(), "denylist:"+token, 1, ttl)
			}
		}
	}

	utils.Success(c, gin.H{"message": "logged out"})
}
