package user

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/Aawaiz-Soomro/LibraDB/pkg/database"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/logger"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/models"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handler handles account administration: profiles, librarian-side user
// creation, and member approval.
type Handler struct {
	log *logger.Logger
}

func NewHandler() *Handler {
	return &Handler{log: logger.GetLogger().WithContext("component", "user")}
}

// GetProfile returns the current user's account snapshot.
func (h *Handler) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	u, err := h.getUser(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

// List returns all accounts (librarian only; enforced by routing).
func (h *Handler) List(c *gin.Context) {
	rows, err := database.DB.Query(
		`SELECT id, name, email, role, approved, created_at FROM users ORDER BY name`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Approved, &u.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		users = append(users, u)
	}
	c.JSON(http.StatusOK, users)
}

// Create is the librarian-side account creation; the account is approved from
// the start.
func (h *Handler) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}

	userID, err := utils.GenerateID(16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate user ID"})
		return
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	_, err = database.DB.Exec(
		`INSERT INTO users (id, name, email, password_hash, role, approved) VALUES (?, ?, ?, ?, ?, 1)`,
		userID, req.Name, req.Email, hash, role)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		h.log.Error("insert_user_failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.log.Info("user_created", "user_id", userID, "role", role)

	u, err := h.getUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Approve grants a registered member the right to authenticate. Approving a
// librarian is not applicable, and a second approval is reported as a
// conflict so the UI can show it as a notice.
func (h *Handler) Approve(c *gin.Context) {
	id := c.Param("id")

	u, err := h.getUser(id)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if u.Role != models.RoleMember {
		c.JSON(http.StatusConflict, gin.H{"error": "Only member accounts require approval"})
		return
	}
	if u.Approved {
		c.JSON(http.StatusConflict, gin.H{"error": "User already approved"})
		return
	}

	if _, err := database.DB.Exec(
		`UPDATE users SET approved = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve user"})
		return
	}

	h.log.Info("user_approved", "user_id", id)
	u.Approved = true
	c.JSON(http.StatusOK, u)
}

// Delete removes an account; bookings and ratings go with it via FK cascade.
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")

	res, err := database.DB.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	h.log.Info("user_deleted", "user_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

func (h *Handler) getUser(id string) (*models.User, error) {
	var u models.User
	err := database.DB.QueryRow(
		`SELECT id, name, email, role, approved, created_at FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Approved, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
