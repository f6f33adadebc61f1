package stats

import (
	"math"
	"net/http"

	"github.com/Aawaiz-Soomro/LibraDB/pkg/database"
	"github.com/gin-gonic/gin"
)

// Handler serves the dashboard aggregate: entity counts, recently added
// books, and the top-rated books.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type bookSummary struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	AverageRating float64 `json:"average_rating"`
}

func (h *Handler) Overview(c *gin.Context) {
	counts := map[string]int{}
	for name, table := range map[string]string{
		"books":    "books",
		"users":    "users",
		"bookings": "bookings",
		"ratings":  "ratings",
	} {
		var n int
		if err := database.DB.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		counts[name] = n
	}

	recent, err := h.querySummaries(
		`SELECT b.id, b.title, b.author, COALESCE(AVG(r.score), 0)
         FROM books b LEFT JOIN ratings r ON r.book_id = b.id
         GROUP BY b.id ORDER BY b.created_at DESC LIMIT 5`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	topRated, err := h.querySummaries(
		`SELECT b.id, b.title, b.author, COALESCE(AVG(r.score), 0) AS avg_score
         FROM books b LEFT JOIN ratings r ON r.book_id = b.id
         GROUP BY b.id ORDER BY avg_score DESC LIMIT 5`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counts":       counts,
		"recent_books": recent,
		"top_rated":    topRated,
	})
}

func (h *Handler) querySummaries(query string) ([]bookSummary, error) {
	rows, err := database.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []bookSummary{}
	for rows.Next() {
		var b bookSummary
		var avg float64
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &avg); err != nil {
			return nil, err
		}
		b.AverageRating = math.Round(avg*100) / 100
		out = append(out, b)
	}
	return out, rows.Err()
}
