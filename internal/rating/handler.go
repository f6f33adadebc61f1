package rating

import (
	"database/sql"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Aawaiz-Soomro/LibraDB/pkg/database"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/logger"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/metrics"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/models"
	"github.com/Aawaiz-Soomro/LibraDB/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handler handles book ratings. A user may rate the same book more than
// once; averages are recomputed on demand, never stored.
type Handler struct {
	log *logger.Logger
}

func NewHandler() *Handler {
	return &Handler{log: logger.GetLogger().WithContext("component", "rating")}
}

func (h *Handler) Add(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req models.AddRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := utils.GenerateID(16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate ID"})
		return
	}

	_, err = database.DB.Exec(
		`INSERT INTO ratings (id, user_id, book_id, score, comment) VALUES (?, ?, ?, ?, ?)`,
		id, userID, req.BookID, req.Score, req.Comment)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		h.log.Error("insert_rating_failed", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit rating"})
		return
	}

	metrics.IncrementRatingsSubmitted()
	h.log.Info("rating_submitted", "rating_id", id, "book_id", req.BookID, "score", req.Score)

	c.JSON(http.StatusCreated, models.Rating{
		ID:      id,
		UserID:  userID,
		BookID:  req.BookID,
		Score:   req.Score,
		Comment: req.Comment,
	})
}

// ListForBook returns all ratings for a book, newest first.
func (h *Handler) ListForBook(c *gin.Context) {
	rows, err := database.DB.Query(
		`SELECT id, user_id, book_id, score, comment, created_at FROM ratings
         WHERE book_id = ? ORDER BY created_at DESC`, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	ratings, err := collectRatings(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, ratings)
}

// Stats computes the on-demand aggregate for a book: mean score rounded to
// two decimals (0 when unrated), total count, and a per-score distribution.
func (h *Handler) Stats(c *gin.Context) {
	bookID := c.Param("id")

	rows, err := database.DB.Query(
		`SELECT score, COUNT(*) FROM ratings WHERE book_id = ? GROUP BY score`, bookID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	stats := models.RatingStats{Distribution: map[string]int{}}
	sum := 0
	for rows.Next() {
		var score, count int
		if err := rows.Scan(&score, &count); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		stats.Distribution[strconv.Itoa(score)] = count
		stats.TotalCount += count
		sum += score * count
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if stats.TotalCount > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.TotalCount)*100) / 100
	}
	c.JSON(http.StatusOK, stats)
}

// Mine returns the calling member's own ratings.
func (h *Handler) Mine(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	rows, err := database.DB.Query(
		`SELECT id, user_id, book_id, score, comment, created_at FROM ratings
         WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	defer rows.Close()

	ratings, err := collectRatings(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, ratings)
}

func collectRatings(rows *sql.Rows) ([]models.Rating, error) {
	ratings := []models.Rating{}
	for rows.Next() {
		var r models.Rating
		var comment sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &r.BookID, &r.Score, &comment, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Comment = comment.String
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}
