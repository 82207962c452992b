package handlers

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tjgxx/DayZPDAServerTemplate/database"
	"github.com/tjgxx/DayZPDAServerTemplate/middleware"
	"github.com/tjgxx/DayZPDAServerTemplate/models"
	"github.com/tjgxx/DayZPDAServerTemplate/utils"
)

type CreateNoteRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
}

type UpdateNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func GetNotes(c *gin.Context) {
	ownerID := c.Param("userId")

	rows, err := database.DB.Query(
		"SELECT id, owner_id, title, content, created_at, updated_at FROM notes WHERE owner_id = ? ORDER BY created_at DESC",
		ownerID,
	)
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
			continue
		}
		notes = append(notes, note)
	}

	utils.Success(c, notes)
}

func CreateNote(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	now := time.Now()
	note := models.Note{
		ID:        utils.GenerateUUID(),
		OwnerID:   userID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := database.DB.Exec(
		"INSERT INTO notes (id, owner_id, title, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		note.ID, note.OwnerID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		utils.InternalError(c, "failed to create note")
		return
	}

	utils.Created(c, note)
}

// UpdateNote only touches notes the caller owns; anything else reads as 404.
func UpdateNote(c *gin.Context) {
	userID := middleware.GetUserID(c)
	noteID := c.Param("id")

	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	var note models.Note
	err := database.DB.QueryRow(
		"SELECT id, owner_id, title, content, created_at, updated_at FROM notes WHERE id = ? AND owner_id = ?",
		noteID, userID,
	).Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt)

	if err == sql.ErrNoRows {
		utils.NotFound(c, "note not found")
		return
	}
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}

	if req.Title != "" {
		note.Title = req.Title
	}
	if req.Content != "" {
		note.Content = req.Content
	}
	note.UpdatedAt = time.Now()

	_, err = database.DB.Exec(
		"UPDATE notes SET title = ?, content = ?, updated_at = ? WHERE id = ?",
		note.Title, note.Content, note.UpdatedAt, note.ID,
	)
	if err != nil {
		utils.InternalError(c, "failed to update note")
		return
	}

	utils.Success(c, note)
}

func DeleteNote(c *gin.Context) {
	userID := middleware.GetUserID(c)
	noteID := c.Param("id")

	result, err := database.DB.Exec("DELETE FROM notes WHERE id = ? AND owner_id = ?", noteID, userID)
	if err != nil {
		utils.InternalError(c, "failed to delete note")
		return
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		utils.InternalError(c, "database error")
		return
	}
	if rowsAffected == 0 {
		utils.NotFound(c, "note not found")
		return
	}

	utils.Success(c, gin.H{"message": "note deleted"})
}
